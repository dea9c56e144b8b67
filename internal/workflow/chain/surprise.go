package chain

import (
	"context"
	"fmt"

	wfmodel "narrative-ai-api/internal/workflow/model"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
)

type SurpriseChain struct {
	completer *Completer
	prompts   *workflowprompt.Registry
}

func NewSurpriseChain(completer *Completer, prompts *workflowprompt.Registry) *SurpriseChain {
	return &SurpriseChain{completer: completer, prompts: prompts}
}

func (c *SurpriseChain) Invoke(ctx context.Context, in *wfmodel.SurpriseGenerateInput) (*wfmodel.CompletionResult, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	msgs, err := c.prompts.Surprise(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.completer.Complete(ctx, WorkflowSurprise, msgs, SurpriseParams)
}
