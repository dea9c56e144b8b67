// Package model 定义工作流各阶段的输入输出
package model

import (
	"time"

	"narrative-ai-api/internal/domain/entity"
)

// StoryContext 各阶段共享的故事设定
type StoryContext struct {
	Genre        string
	WritingStyle string
	Characters   []entity.CharacterDetail
	// CharacterCount 未提供角色时期望模型生成的角色数，0 表示由模型决定
	CharacterCount int
	Settings       *entity.StorySettings
}

// CompletionParams 单次补全的采样参数
type CompletionParams struct {
	Temperature float32
	MaxTokens   int
	// Provider 为空时使用默认提供商
	Provider string
	// Model 为空时使用提供商配置的模型
	Model string
	// JSONSchema 非空时以 response_format 下发
	JSONSchema map[string]any
	// SchemaName response_format 中的 schema 名称
	SchemaName string
}

// CompletionResult 补全结果
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	Meta             LLMUsageMeta
}

type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Temperature      float64
	GeneratedAt      time.Time
}

// GenerationMetadata 转为章节上的生成元数据
func (m LLMUsageMeta) GenerationMetadata() *entity.GenerationMetadata {
	return &entity.GenerationMetadata{
		Model:            m.Model,
		Provider:         m.Provider,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
		Temperature:      m.Temperature,
		GeneratedAt:      m.GeneratedAt.Format(time.RFC3339),
	}
}
