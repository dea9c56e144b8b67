package model

// OutlineGenerateInput 大纲生成输入
type OutlineGenerateInput struct {
	Story          StoryContext
	Title          string
	SeedSummary    string
	TargetChapters int
	// SummaryWords 每章摘要目标字数
	SummaryWords int
	// StructuredOutput 是否尝试 JSON Schema 约束输出
	StructuredOutput bool
}
