// Package chain 封装各生成阶段的 LLM 调用
package chain

import (
	"context"
	"strings"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "narrative-ai-api/internal/domain/service"
	wfmodel "narrative-ai-api/internal/workflow/model"
	wfnode "narrative-ai-api/internal/workflow/node"
	workflowport "narrative-ai-api/internal/workflow/port"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
)

// modelNamer 可选能力：工厂能报告提供商配置的模型名
type modelNamer interface {
	ModelName(name string) string
}

// Completer 单次补全：一次 Generate 调用，固定采样参数，不做重试
type Completer struct {
	factory workflowport.ChatModelFactory
}

func NewCompleter(factory workflowport.ChatModelFactory) *Completer {
	return &Completer{factory: factory}
}

// Complete 执行一次补全
// 上游错误、空消息、空白内容统一为 GenerationError；凭据缺失保留 ConfigurationError。
// 提供 JSONSchema 时若提供商不支持 response_format，去掉 schema 重发一次。
func (c *Completer) Complete(ctx context.Context, workflow string, msgs []*schema.Message, params wfmodel.CompletionParams) (*wfmodel.CompletionResult, error) {
	if c == nil || c.factory == nil {
		return nil, apperrors.ConfigurationError("llm factory not configured")
	}

	provider := strings.TrimSpace(params.Provider)
	providerLabel := provider
	if providerLabel == "" {
		providerLabel = "default"
	}
	ctx = llmctx.WithWorkflowProvider(ctx, workflow, providerLabel)

	chatModel, err := c.factory.Get(ctx, provider)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeLLMProviderError, "llm provider unavailable")
	}

	useSchema := len(params.JSONSchema) > 0
	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(params, useSchema)...)
	if err != nil && useSchema && wfnode.IsResponseFormatUnsupportedError(err) {
		logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
			"workflow", workflow,
			"provider", providerLabel,
			"error", err.Error(),
		)
		outMsg, err = chatModel.Generate(ctx, msgs, buildModelOptions(params, false)...)
	}
	if err != nil {
		return nil, apperrors.GenerationError(err, "llm call failed")
	}
	if outMsg == nil {
		return nil, apperrors.GenerationError(nil, "empty llm response")
	}
	content := strings.TrimSpace(outMsg.Content)
	if content == "" {
		return nil, apperrors.GenerationError(nil, "blank llm response")
	}

	meta := wfmodel.LLMUsageMeta{
		Provider:    providerLabel,
		Model:       c.modelName(params),
		Temperature: float64(params.Temperature),
		GeneratedAt: time.Now().UTC(),
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}

	return &wfmodel.CompletionResult{
		Content:          content,
		PromptTokens:     meta.PromptTokens,
		CompletionTokens: meta.CompletionTokens,
		Meta:             meta,
	}, nil
}

func (c *Completer) modelName(params wfmodel.CompletionParams) string {
	if m := strings.TrimSpace(params.Model); m != "" {
		return m
	}
	if namer, ok := c.factory.(modelNamer); ok {
		return namer.ModelName(params.Provider)
	}
	return ""
}

func buildModelOptions(params wfmodel.CompletionParams, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if params.Temperature > 0 {
		opts = append(opts, model.WithTemperature(params.Temperature))
	}
	if params.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(params.MaxTokens))
	}
	if m := strings.TrimSpace(params.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	if enableSchema {
		name := params.SchemaName
		if name == "" {
			name = "response"
		}
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   name,
					"strict": false,
					"schema": params.JSONSchema,
				},
			},
		}))
	}

	return opts
}
