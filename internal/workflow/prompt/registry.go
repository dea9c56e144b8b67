// Package prompt 管理各生成阶段的版本化提示词模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptSeedIdeasV1  PromptID = "seed_ideas_v1"
	PromptSeedExpandV1 PromptID = "seed_expand_v1"
	PromptSeedFillV1   PromptID = "seed_fill_v1"
	PromptOutlineV1    PromptID = "outline_v1"
	PromptChapterV1    PromptID = "chapter_v1"
	PromptSurpriseV1   PromptID = "surprise_v1"

	// PromptCoverV1 仅有 user 模板，渲染结果直接作为图像提示词
	PromptCoverV1 PromptID = "cover_v1"
)

type promptFiles struct {
	system string
	user   string
}

var promptIndex = map[PromptID]promptFiles{
	PromptSeedIdeasV1:  {system: "templates/storyteller.system.txt", user: "templates/seed_ideas_v1.user.txt"},
	PromptSeedExpandV1: {system: "templates/storyteller.system.txt", user: "templates/seed_expand_v1.user.txt"},
	PromptSeedFillV1:   {system: "templates/storyteller.system.txt", user: "templates/seed_fill_v1.user.txt"},
	PromptOutlineV1:    {system: "templates/outline_v1.system.txt", user: "templates/outline_v1.user.txt"},
	PromptChapterV1:    {system: "templates/storyteller.system.txt", user: "templates/chapter_v1.user.txt"},
	PromptSurpriseV1:   {system: "templates/storyteller.system.txt", user: "templates/surprise_v1.user.txt"},
	PromptCoverV1:      {user: "templates/cover_v1.user.txt"},
}

// Registry 模板缓存；模板解析一次后复用
type Registry struct {
	mu             sync.RWMutex
	cache          map[PromptID]einoprompt.ChatTemplate
	systemOverride string
}

// NewRegistry 创建模板注册表；systemOverride 非空时替换所有阶段的系统指令
func NewRegistry(systemOverride string) *Registry {
	return &Registry{
		cache:          make(map[PromptID]einoprompt.ChatTemplate),
		systemOverride: strings.TrimSpace(systemOverride),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	files, ok := promptIndex[id]
	if !ok {
		return nil, fmt.Errorf("unknown prompt id: %s", id)
	}
	user, err := readEmbeddedText(files.user)
	if err != nil {
		return nil, err
	}

	templates := make([]schema.MessagesTemplate, 0, 2)
	if files.system != "" {
		system := r.systemOverride
		if system == "" {
			if system, err = readEmbeddedText(files.system); err != nil {
				return nil, err
			}
		}
		templates = append(templates, schema.SystemMessage(system))
	}
	templates = append(templates, schema.UserMessage(user))

	// GoTemplate：模板正文含 JSON 示例，避免 FString 的花括号转义
	tpl := einoprompt.FromMessages(schema.GoTemplate, templates...)
	r.cache[id] = tpl
	return tpl, nil
}

// Format 渲染模板；契约变量自动注入，调用方变量同名时优先
func (r *Registry) Format(ctx context.Context, id PromptID, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := r.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	merged := ContractVars()
	for k, v := range vars {
		merged[k] = v
	}
	msgs, err := tpl.Format(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("format prompt %s: %w", id, err)
	}
	return msgs, nil
}

// Render 渲染为纯文本，用于只有 user 消息的模板
func (r *Registry) Render(ctx context.Context, id PromptID, vars map[string]any) (string, error) {
	msgs, err := r.Format(ctx, id, vars)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == schema.User {
			parts = append(parts, strings.TrimSpace(m.Content))
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
