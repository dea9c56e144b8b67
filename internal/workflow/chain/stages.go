package chain

import wfmodel "narrative-ai-api/internal/workflow/model"

// 各阶段 workflow 名称，用于日志、指标与追踪
const (
	WorkflowSeedIdeas  = "seed_ideas"
	WorkflowSeedExpand = "seed_expand"
	WorkflowSeedFill   = "seed_fill"
	WorkflowOutline    = "outline"
	WorkflowChapter    = "chapter"
	WorkflowSurprise   = "surprise"
)

// 各阶段固定采样参数
var (
	SeedIdeasParams  = wfmodel.CompletionParams{Temperature: 0.9, MaxTokens: 3000}
	SeedExpandParams = wfmodel.CompletionParams{Temperature: 0.7, MaxTokens: 2000}
	SeedFillParams   = wfmodel.CompletionParams{Temperature: 0.9, MaxTokens: 2000}
	OutlineParams    = wfmodel.CompletionParams{Temperature: 0.7, MaxTokens: 3000}
	ChapterParams    = wfmodel.CompletionParams{Temperature: 0.7, MaxTokens: 16000}
	SurpriseParams   = wfmodel.CompletionParams{Temperature: 0.8, MaxTokens: 6000}
)
