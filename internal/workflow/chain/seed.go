package chain

import (
	"context"
	"fmt"
	"strings"

	wfmodel "narrative-ai-api/internal/workflow/model"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
)

// SeedChain 种子创意相关的三类调用：首轮生成、单候选扩写、补齐
type SeedChain struct {
	completer *Completer
	prompts   *workflowprompt.Registry
}

func NewSeedChain(completer *Completer, prompts *workflowprompt.Registry) *SeedChain {
	return &SeedChain{completer: completer, prompts: prompts}
}

func (c *SeedChain) Generate(ctx context.Context, in *wfmodel.SeedIdeasInput) (*wfmodel.CompletionResult, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Idea) == "" {
		return nil, fmt.Errorf("idea is required")
	}
	msgs, err := c.prompts.SeedIdeas(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.completer.Complete(ctx, WorkflowSeedIdeas, msgs, SeedIdeasParams)
}

func (c *SeedChain) Expand(ctx context.Context, in *wfmodel.SeedExpandInput) (*wfmodel.CompletionResult, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	msgs, err := c.prompts.SeedExpand(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.completer.Complete(ctx, WorkflowSeedExpand, msgs, SeedExpandParams)
}

func (c *SeedChain) Fill(ctx context.Context, in *wfmodel.SeedFillInput) (*wfmodel.CompletionResult, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	msgs, err := c.prompts.SeedFill(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.completer.Complete(ctx, WorkflowSeedFill, msgs, SeedFillParams)
}
