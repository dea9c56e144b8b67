package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	wfmodel "narrative-ai-api/internal/workflow/model"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
)

// OutlineChain 大纲生成：模板 -> LLM（可选 JSON Schema）-> 结果
type OutlineChain struct {
	completer *Completer
	prompts   *workflowprompt.Registry

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.OutlineGenerateInput, *wfmodel.CompletionResult]
	chainErr  error
}

func NewOutlineChain(completer *Completer, prompts *workflowprompt.Registry) *OutlineChain {
	return &OutlineChain{completer: completer, prompts: prompts}
}

func (c *OutlineChain) Invoke(ctx context.Context, in *wfmodel.OutlineGenerateInput) (*wfmodel.CompletionResult, error) {
	if c == nil || c.completer == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type outlineChainState struct {
	In       *wfmodel.OutlineGenerateInput
	Messages []*schema.Message
	Result   *wfmodel.CompletionResult
}

func (c *OutlineChain) getChain() (compose.Runnable[*wfmodel.OutlineGenerateInput, *wfmodel.CompletionResult], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *OutlineChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.OutlineGenerateInput, *wfmodel.CompletionResult], error) {
	chain := compose.NewChain[*wfmodel.OutlineGenerateInput, *wfmodel.CompletionResult]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.OutlineGenerateInput) (*outlineChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if strings.TrimSpace(in.SeedSummary) == "" {
				return nil, fmt.Errorf("seed summary is required")
			}
			if in.TargetChapters <= 0 {
				return nil, fmt.Errorf("target chapter count must be positive")
			}
			return &outlineChainState{In: in}, nil
		}),
		compose.WithNodeName("outline.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *outlineChainState) (*outlineChainState, error) {
			msgs, err := c.prompts.Outline(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("outline.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *outlineChainState) (*outlineChainState, error) {
			params := OutlineParams
			if st.In.StructuredOutput {
				params.JSONSchema = outlineJSONSchema()
				params.SchemaName = "chapter_outline"
			}
			res, err := c.completer.Complete(ctx, WorkflowOutline, st.Messages, params)
			if err != nil {
				return nil, err
			}
			st.Result = res
			return st, nil
		}),
		compose.WithNodeName("outline.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *outlineChainState) (*wfmodel.CompletionResult, error) {
			if st == nil || st.Result == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.Result, nil
		}),
		compose.WithNodeName("outline.finalize"),
	)

	return chain.Compile(ctx)
}

func outlineJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "chapters"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"chapters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"number", "title", "summary"},
					"properties": map[string]any{
						"number":  map[string]any{"type": "integer"},
						"title":   map[string]any{"type": "string"},
						"summary": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
