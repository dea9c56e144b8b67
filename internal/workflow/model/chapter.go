package model

// ChapterGenerateInput 章节生成输入，连续性字段已由调用方合并完毕
type ChapterGenerateInput struct {
	Story      StoryContext
	StoryTitle string

	ChapterNumber  int
	ChapterSummary string

	PreviousTitle  string
	PreviousEnding string
	NextSummary    string
	IsFirst        bool
	IsFinal        bool

	TargetWordCount int
}
