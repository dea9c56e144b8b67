// Package service 定义跨层共享的上下文约定
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
	llmCtxKeyStoryID  llmCtxKey = "llm_story_id"
)

const unknownLabel = "unknown"

// WithWorkflow 标记当前 LLM 调用所属的生成阶段
func WithWorkflow(ctx context.Context, workflow string) context.Context {
	return withTrimmed(ctx, llmCtxKeyWorkflow, workflow)
}

// WithProvider 标记当前 LLM 调用使用的提供商
func WithProvider(ctx context.Context, provider string) context.Context {
	return withTrimmed(ctx, llmCtxKeyProvider, provider)
}

func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

// WithStoryID 标记当前调用所属故事，供回调写入 span 属性
func WithStoryID(ctx context.Context, storyID string) context.Context {
	return withTrimmed(ctx, llmCtxKeyStoryID, storyID)
}

func WorkflowFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyWorkflow, unknownLabel)
}

func ProviderFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyProvider, unknownLabel)
}

// StoryIDFromContext 未标记时返回空串
func StoryIDFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyStoryID, "")
}

func withTrimmed(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func labelFromContext(ctx context.Context, key llmCtxKey, fallback string) string {
	if ctx == nil {
		return fallback
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
