// Package llm 提供 LLM ChatModel 的构建与缓存
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"narrative-ai-api/internal/config"
	apperrors "narrative-ai-api/pkg/errors"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
// 凭据缺失在首次使用时报 ConfigurationError，服务启动不受影响。
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = f.resolve(name)

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, apperrors.ConfigurationError("llm provider not configured").WithDetail(name)
	}
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, apperrors.ConfigurationError("llm api key missing").WithDetail(name)
	}

	// 使用 Eino 的 OpenAI 适配器
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       providerCfg.Model,
		MaxTokens:   ptrInt(providerCfg.MaxTokens),
		Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeLLMProviderError, fmt.Sprintf("failed to create chat model for %s", name))
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// ModelName 返回提供商配置的模型名，用于生成元数据
func (f *EinoFactory) ModelName(name string) string {
	return f.config.Providers[f.resolve(name)].Model
}

// Configured 是否已配置可用凭据
func (f *EinoFactory) Configured(name string) bool {
	p, ok := f.config.Providers[f.resolve(name)]
	return ok && strings.TrimSpace(p.APIKey) != ""
}

func (f *EinoFactory) resolve(name string) string {
	if strings.TrimSpace(name) == "" {
		return f.config.DefaultProvider
	}
	return strings.TrimSpace(name)
}

func ptrInt(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

func ptrFloat32(f float32) *float32 {
	return &f
}
