package story

import (
	"time"

	"narrative-ai-api/internal/domain/entity"
)

// SeedIdeasInput 种子创意请求
type SeedIdeasInput struct {
	Genre               string
	Idea                string
	WritingStyle        string
	TargetChapterCount  int
	TargetChapterLength int
	CharacterCount      int
	Characters          []entity.CharacterDetail
	Settings            *entity.StorySettings
}

// CreateStoryInput 创建空故事
type CreateStoryInput struct {
	Title               string
	Genre               string
	WritingStyle        string
	TargetChapterLength int
	Characters          []entity.CharacterDetail
	Settings            *entity.StorySettings
}

// OutlineInput 大纲请求；成功后创建故事并写入大纲摘要
type OutlineInput struct {
	Title               string
	SeedSummary         string
	Genre               string
	WritingStyle        string
	TargetChapterCount  int
	TargetChapterLength int
	CharacterCount      int
	Characters          []entity.CharacterDetail
	Settings            *entity.StorySettings
}

// OutlineResult 大纲结果
type OutlineResult struct {
	Story    *entity.Story
	Chapters []entity.ChapterOutline
}

// GenerateChapterInput 章节生成请求
// 上一章标题/结尾与下一章摘要非空时覆盖存储推导的上下文。
type GenerateChapterInput struct {
	StoryID               string
	ChapterNumber         int
	ChapterSummary        string
	PreviousChapterTitle  string
	PreviousChapterEnding string
	NextChapterSummary    string
}

// StoryView 故事读视图
type StoryView struct {
	Story  *entity.Story
	Memory *entity.StoryMemory
	Status entity.StoryStatus
}

// CoverInput 封面请求；Prompt 为空时由故事信息生成默认提示词
type CoverInput struct {
	StoryID string
	Prompt  string
}

// CoverImage 封面图像
type CoverImage struct {
	StoryID  string
	Prompt   string
	MimeType string
	Data     []byte
	Model    string
}

// SurpriseInput 一次性短篇请求
type SurpriseInput struct {
	Category       string
	StoryType      string
	Length         string
	Tone           string
	TargetAudience string
	Prompt         string
}

// SurpriseStory 一次性短篇结果，不入库
type SurpriseStory struct {
	Title          string
	Content        string
	WordCount      int
	Category       string
	StoryType      string
	Length         string
	Tone           string
	TargetAudience string
	CreatedAt      time.Time
}

// DocumentChapter 文档中的单章
type DocumentChapter struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary,omitempty"`
	WordCount int    `json:"word_count"`
}

// DocumentPayload 交给文档渲染器的结构化内容
type DocumentPayload struct {
	Title          string            `json:"title"`
	Genre          string            `json:"genre"`
	Setting        string            `json:"setting,omitempty"`
	Chapters       []DocumentChapter `json:"chapters"`
	Characters     map[string]string `json:"characters,omitempty"`
	CoverImage     string            `json:"cover_image,omitempty"`
	TotalWordCount int               `json:"total_word_count"`
}
