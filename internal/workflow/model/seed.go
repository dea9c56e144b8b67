package model

// SeedIdeasInput 种子创意生成输入
type SeedIdeasInput struct {
	Story          StoryContext
	Idea           string
	TargetChapters int
	WordTarget     int
	CandidateCount int
}

// SeedExpandInput 单个候选扩写输入
type SeedExpandInput struct {
	Summary    string
	WordCount  int
	WordTarget int
}

// SeedFillInput 候选不足时的补齐输入
type SeedFillInput struct {
	Story      StoryContext
	Idea       string
	WordTarget int
	// Previous 已接受的候选摘要，提示模型避免重复
	Previous []string
}
