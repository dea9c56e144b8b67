package dto

import (
	"encoding/base64"
	"time"

	appstory "narrative-ai-api/internal/application/story"
	"narrative-ai-api/internal/domain/entity"
)

// CharacterRequest 角色设定
type CharacterRequest struct {
	Name              string            `json:"name" binding:"required,max=100"`
	Description       string            `json:"description" binding:"required,max=2000"`
	Background        string            `json:"background,omitempty" binding:"max=2000"`
	Goals             string            `json:"goals,omitempty" binding:"max=1000"`
	PersonalityTraits []string          `json:"personality_traits,omitempty" binding:"max=20"`
	Relationships     map[string]string `json:"relationships,omitempty"`
	ArcDescription    string            `json:"arc_description,omitempty" binding:"max=2000"`
}

// StorySettingsRequest 叙事设定
type StorySettingsRequest struct {
	NarrativePerspective string `json:"narrative_perspective,omitempty" binding:"max=100"`
	SettingDescription   string `json:"setting_description,omitempty" binding:"max=2000"`
	TimePeriod           string `json:"time_period,omitempty" binding:"max=200"`
	WorldBuildingDetails string `json:"world_building_details,omitempty" binding:"max=4000"`
}

// CreateStoryRequest 创建故事请求
type CreateStoryRequest struct {
	Title               string                `json:"title" binding:"required,max=200"`
	Genre               string                `json:"genre" binding:"required,max=100"`
	WritingStyle        string                `json:"writing_style" binding:"required,trimmin=3,max=200"`
	TargetChapterLength int                   `json:"target_chapter_length,omitempty" binding:"omitempty,gte=500,lte=5000"`
	Characters          []CharacterRequest    `json:"characters,omitempty" binding:"omitempty,max=15,dive"`
	StorySettings       *StorySettingsRequest `json:"story_settings,omitempty"`
}

// SeedIdeasRequest 种子创意请求
type SeedIdeasRequest struct {
	Genre               string                `json:"genre" binding:"required,max=100"`
	Idea                string                `json:"idea" binding:"required,max=4000"`
	WritingStyle        string                `json:"writing_style" binding:"required,trimmin=3,max=200"`
	TargetChapterCount  int                   `json:"target_chapter_count" binding:"required,gte=1,lte=30"`
	TargetChapterLength int                   `json:"target_chapter_length,omitempty" binding:"omitempty,gte=500,lte=5000"`
	CharacterCount      int                   `json:"character_count,omitempty" binding:"omitempty,gte=1,lte=15"`
	Characters          []CharacterRequest    `json:"characters,omitempty" binding:"omitempty,max=15,dive"`
	StorySettings       *StorySettingsRequest `json:"story_settings,omitempty"`
}

// OutlineRequest 大纲请求
type OutlineRequest struct {
	Title               string                `json:"title,omitempty" binding:"max=200"`
	SeedSummary         string                `json:"seed_summary" binding:"required,max=8000"`
	Genre               string                `json:"genre" binding:"required,max=100"`
	WritingStyle        string                `json:"writing_style" binding:"required,trimmin=3,max=200"`
	TargetChapterCount  int                   `json:"target_chapter_count" binding:"required,gte=1,lte=30"`
	TargetChapterLength int                   `json:"target_chapter_length,omitempty" binding:"omitempty,gte=500,lte=5000"`
	CharacterCount      int                   `json:"character_count,omitempty" binding:"omitempty,gte=1,lte=15"`
	Characters          []CharacterRequest    `json:"characters,omitempty" binding:"omitempty,max=15,dive"`
	StorySettings       *StorySettingsRequest `json:"story_settings,omitempty"`
}

// ChapterOutlineRequest 大纲单章
type ChapterOutlineRequest struct {
	Number  int    `json:"number" binding:"required,gte=1"`
	Title   string `json:"title,omitempty" binding:"max=200"`
	Summary string `json:"summary" binding:"required,max=4000"`
}

// StoreOutlineRequest 为已有故事写入大纲
type StoreOutlineRequest struct {
	Chapters []ChapterOutlineRequest `json:"chapters" binding:"required,min=1,max=30,dive"`
}

// GenerateChapterRequest 章节生成请求
type GenerateChapterRequest struct {
	ChapterNumber         int    `json:"chapter_number" binding:"required,gte=1"`
	ChapterSummary        string `json:"chapter_summary" binding:"required,max=4000"`
	PreviousChapterTitle  string `json:"previous_chapter_title,omitempty" binding:"max=200"`
	PreviousChapterEnding string `json:"previous_chapter_ending,omitempty" binding:"max=4000"`
	NextChapterSummary    string `json:"next_chapter_summary,omitempty" binding:"max=4000"`
}

// SetCompleteRequest 完成标记请求
type SetCompleteRequest struct {
	IsComplete *bool `json:"is_complete" binding:"required"`
}

// CoverRequest 封面请求
type CoverRequest struct {
	Prompt string `json:"prompt,omitempty" binding:"max=4000"`
}

// DocumentRequest 文档内容请求
type DocumentRequest struct {
	CoverImage string `json:"cover_image,omitempty"`
}

// SurpriseRequest 一次性短篇请求
type SurpriseRequest struct {
	Category       string `json:"category" binding:"required,max=100"`
	StoryType      string `json:"story_type" binding:"required,max=100"`
	Length         string `json:"length" binding:"required,max=50"`
	Tone           string `json:"tone" binding:"required,max=100"`
	TargetAudience string `json:"target_audience" binding:"required,max=100"`
	Prompt         string `json:"prompt,omitempty" binding:"max=4000"`
}

func toCharacters(in []CharacterRequest) []entity.CharacterDetail {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.CharacterDetail, 0, len(in))
	for _, c := range in {
		out = append(out, entity.CharacterDetail{
			Name:              c.Name,
			Description:       c.Description,
			Background:        c.Background,
			Goals:             c.Goals,
			PersonalityTraits: c.PersonalityTraits,
			Relationships:     c.Relationships,
			ArcDescription:    c.ArcDescription,
		})
	}
	return out
}

func toSettings(in *StorySettingsRequest) *entity.StorySettings {
	if in == nil {
		return nil
	}
	return &entity.StorySettings{
		NarrativePerspective: in.NarrativePerspective,
		SettingDescription:   in.SettingDescription,
		TimePeriod:           in.TimePeriod,
		WorldBuildingDetails: in.WorldBuildingDetails,
	}
}

// ToInput 转换为应用层输入
func (r *CreateStoryRequest) ToInput() appstory.CreateStoryInput {
	return appstory.CreateStoryInput{
		Title:               r.Title,
		Genre:               r.Genre,
		WritingStyle:        r.WritingStyle,
		TargetChapterLength: r.TargetChapterLength,
		Characters:          toCharacters(r.Characters),
		Settings:            toSettings(r.StorySettings),
	}
}

// ToInput 转换为应用层输入
func (r *SeedIdeasRequest) ToInput() appstory.SeedIdeasInput {
	return appstory.SeedIdeasInput{
		Genre:               r.Genre,
		Idea:                r.Idea,
		WritingStyle:        r.WritingStyle,
		TargetChapterCount:  r.TargetChapterCount,
		TargetChapterLength: r.TargetChapterLength,
		CharacterCount:      r.CharacterCount,
		Characters:          toCharacters(r.Characters),
		Settings:            toSettings(r.StorySettings),
	}
}

// ToInput 转换为应用层输入
func (r *OutlineRequest) ToInput() appstory.OutlineInput {
	return appstory.OutlineInput{
		Title:               r.Title,
		SeedSummary:         r.SeedSummary,
		Genre:               r.Genre,
		WritingStyle:        r.WritingStyle,
		TargetChapterCount:  r.TargetChapterCount,
		TargetChapterLength: r.TargetChapterLength,
		CharacterCount:      r.CharacterCount,
		Characters:          toCharacters(r.Characters),
		Settings:            toSettings(r.StorySettings),
	}
}

// ToOutlines 转换为大纲实体
func (r *StoreOutlineRequest) ToOutlines() []entity.ChapterOutline {
	out := make([]entity.ChapterOutline, 0, len(r.Chapters))
	for _, ch := range r.Chapters {
		out = append(out, entity.ChapterOutline{Number: ch.Number, Title: ch.Title, Summary: ch.Summary})
	}
	return out
}

// ToInput 转换为应用层输入
func (r *GenerateChapterRequest) ToInput(storyID string) appstory.GenerateChapterInput {
	return appstory.GenerateChapterInput{
		StoryID:               storyID,
		ChapterNumber:         r.ChapterNumber,
		ChapterSummary:        r.ChapterSummary,
		PreviousChapterTitle:  r.PreviousChapterTitle,
		PreviousChapterEnding: r.PreviousChapterEnding,
		NextChapterSummary:    r.NextChapterSummary,
	}
}

// ToInput 转换为应用层输入
func (r *SurpriseRequest) ToInput() appstory.SurpriseInput {
	return appstory.SurpriseInput{
		Category:       r.Category,
		StoryType:      r.StoryType,
		Length:         r.Length,
		Tone:           r.Tone,
		TargetAudience: r.TargetAudience,
		Prompt:         r.Prompt,
	}
}

// ChapterResponse 章节响应
type ChapterResponse struct {
	Number             int                        `json:"number"`
	Title              string                     `json:"title"`
	Content            string                     `json:"content"`
	WordCount          int                        `json:"word_count"`
	GenerationMetadata *entity.GenerationMetadata `json:"generation_metadata,omitempty"`
	CreatedAt          string                     `json:"created_at"`
}

// StoryResponse 故事响应
type StoryResponse struct {
	ID                  string                   `json:"id"`
	Title               string                   `json:"title"`
	Genre               string                   `json:"genre"`
	WritingStyle        string                   `json:"writing_style"`
	Status              string                   `json:"status"`
	IsComplete          bool                     `json:"is_complete"`
	TargetChapterLength int                      `json:"target_chapter_length"`
	SeedSummary         string                   `json:"seed_summary,omitempty"`
	Characters          []entity.CharacterDetail `json:"characters,omitempty"`
	StorySettings       *entity.StorySettings    `json:"story_settings,omitempty"`
	Chapters            []*ChapterResponse       `json:"chapters"`
	ChapterSummaries    map[int]string           `json:"chapter_summaries,omitempty"`
	TotalWordCount      int                      `json:"total_word_count"`
	CreatedAt           string                   `json:"created_at"`
	UpdatedAt           string                   `json:"updated_at"`
}

// SeedIdeaResponse 种子创意
type SeedIdeaResponse struct {
	ID            string `json:"id"`
	Summary       string `json:"summary"`
	CharacterArcs string `json:"character_arcs"`
	WordCount     int    `json:"word_count"`
}

// SeedIdeasResponse 种子创意列表
type SeedIdeasResponse struct {
	Ideas []SeedIdeaResponse `json:"ideas"`
}

// OutlineResponse 大纲响应
type OutlineResponse struct {
	StoryID  string                  `json:"story_id"`
	Title    string                  `json:"title"`
	Chapters []entity.ChapterOutline `json:"chapters"`
}

// CoverResponse 封面响应
type CoverResponse struct {
	StoryID     string `json:"story_id"`
	Prompt      string `json:"prompt"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64"`
	DataURL     string `json:"data_url"`
	Model       string `json:"model,omitempty"`
}

// SurpriseResponse 一次性短篇响应
type SurpriseResponse struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	WordCount      int    `json:"word_count"`
	Category       string `json:"category"`
	StoryType      string `json:"story_type"`
	Length         string `json:"length"`
	Tone           string `json:"tone"`
	TargetAudience string `json:"target_audience"`
	CreatedAt      string `json:"created_at"`
}

// ToChapterResponse 转换章节
func ToChapterResponse(ch *entity.Chapter) *ChapterResponse {
	if ch == nil {
		return nil
	}
	return &ChapterResponse{
		Number:             ch.Number,
		Title:              ch.Title,
		Content:            ch.Content,
		WordCount:          ch.WordCount,
		GenerationMetadata: ch.GenerationMetadata,
		CreatedAt:          ch.CreatedAt.Format(time.RFC3339),
	}
}

// ToStoryResponse 转换故事；memory 可为空
func ToStoryResponse(story *entity.Story, memory *entity.StoryMemory, status entity.StoryStatus) *StoryResponse {
	if story == nil {
		return nil
	}
	resp := &StoryResponse{
		ID:                  story.ID,
		Title:               story.Title,
		Genre:               story.Genre,
		WritingStyle:        story.WritingStyle,
		Status:              string(status),
		IsComplete:          story.IsComplete,
		TargetChapterLength: story.TargetChapterLength,
		SeedSummary:         story.SeedSummary,
		Characters:          story.Characters,
		StorySettings:       story.Settings,
		Chapters:            make([]*ChapterResponse, 0, len(story.Chapters)),
		TotalWordCount:      story.TotalWordCount(),
		CreatedAt:           story.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           story.UpdatedAt.Format(time.RFC3339),
	}
	for _, ch := range story.ChaptersInOrder() {
		resp.Chapters = append(resp.Chapters, ToChapterResponse(ch))
	}
	if memory != nil {
		resp.ChapterSummaries = memory.ChapterSummaries
	}
	return resp
}

// ToSeedIdeasResponse 转换种子创意
func ToSeedIdeasResponse(ideas []entity.SeedIdea) *SeedIdeasResponse {
	resp := &SeedIdeasResponse{Ideas: make([]SeedIdeaResponse, 0, len(ideas))}
	for _, idea := range ideas {
		resp.Ideas = append(resp.Ideas, SeedIdeaResponse{
			ID:            idea.ID,
			Summary:       idea.Summary,
			CharacterArcs: idea.CharacterArcs,
			WordCount:     idea.WordCount,
		})
	}
	return resp
}

// ToOutlineResponse 转换大纲结果
func ToOutlineResponse(res *appstory.OutlineResult) *OutlineResponse {
	return &OutlineResponse{
		StoryID:  res.Story.ID,
		Title:    res.Story.Title,
		Chapters: res.Chapters,
	}
}

// ToCoverResponse 转换封面
func ToCoverResponse(img *appstory.CoverImage) *CoverResponse {
	encoded := base64.StdEncoding.EncodeToString(img.Data)
	return &CoverResponse{
		StoryID:     img.StoryID,
		Prompt:      img.Prompt,
		MimeType:    img.MimeType,
		ImageBase64: encoded,
		DataURL:     "data:" + img.MimeType + ";base64," + encoded,
		Model:       img.Model,
	}
}

// ToSurpriseResponse 转换短篇
func ToSurpriseResponse(s *appstory.SurpriseStory) *SurpriseResponse {
	return &SurpriseResponse{
		Title:          s.Title,
		Content:        s.Content,
		WordCount:      s.WordCount,
		Category:       s.Category,
		StoryType:      s.StoryType,
		Length:         s.Length,
		Tone:           s.Tone,
		TargetAudience: s.TargetAudience,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
