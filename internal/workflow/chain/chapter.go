package chain

import (
	"context"
	"fmt"
	"strings"

	wfmodel "narrative-ai-api/internal/workflow/model"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
)

type ChapterChain struct {
	completer *Completer
	prompts   *workflowprompt.Registry
}

func NewChapterChain(completer *Completer, prompts *workflowprompt.Registry) *ChapterChain {
	return &ChapterChain{completer: completer, prompts: prompts}
}

func (c *ChapterChain) Invoke(ctx context.Context, in *wfmodel.ChapterGenerateInput) (*wfmodel.CompletionResult, error) {
	if c == nil || c.completer == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.ChapterNumber <= 0 {
		return nil, fmt.Errorf("chapter number must be positive")
	}
	if strings.TrimSpace(in.ChapterSummary) == "" {
		return nil, fmt.Errorf("chapter summary is required")
	}
	if in.TargetWordCount <= 0 {
		return nil, fmt.Errorf("target_word_count is required")
	}

	msgs, err := c.prompts.Chapter(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.completer.Complete(ctx, WorkflowChapter, msgs, ChapterParams)
}
