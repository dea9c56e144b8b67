package entity

import (
	"maps"
	"slices"
	"sort"
	"time"
)

// DefaultTargetChapterLength 故事未指定章节目标字数时的默认值
const DefaultTargetChapterLength = 2000

// StoryStatus 故事状态（读取时推导，不落库）
type StoryStatus string

const (
	StoryStatusCreated  StoryStatus = "CREATED"
	StoryStatusOutlined StoryStatus = "OUTLINED"
	StoryStatusComplete StoryStatus = "COMPLETE"
)

// CharacterDetail 角色设定
type CharacterDetail struct {
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Background        string            `json:"background,omitempty"`
	Goals             string            `json:"goals,omitempty"`
	PersonalityTraits []string          `json:"personality_traits,omitempty"`
	Relationships     map[string]string `json:"relationships,omitempty"`
	ArcDescription    string            `json:"arc_description,omitempty"`
}

// StorySettings 叙事设定
type StorySettings struct {
	NarrativePerspective string `json:"narrative_perspective,omitempty"`
	SettingDescription   string `json:"setting_description,omitempty"`
	TimePeriod           string `json:"time_period,omitempty"`
	WorldBuildingDetails string `json:"world_building_details,omitempty"`
}

// Story 故事聚合根
type Story struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Genre               string            `json:"genre"`
	WritingStyle        string            `json:"writing_style"`
	Chapters            []*Chapter        `json:"chapters"`
	Characters          []CharacterDetail `json:"characters,omitempty"`
	Settings            *StorySettings    `json:"story_settings,omitempty"`
	IsComplete          bool              `json:"is_complete"`
	TargetChapterLength int               `json:"target_chapter_length"`
	SeedSummary         string            `json:"seed_summary,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// NewStory 创建故事
func NewStory(id, title, genre, writingStyle string) *Story {
	now := time.Now()
	if writingStyle == "" {
		writingStyle = "default"
	}
	return &Story{
		ID:                  id,
		Title:               title,
		Genre:               genre,
		WritingStyle:        writingStyle,
		Chapters:            []*Chapter{},
		TargetChapterLength: DefaultTargetChapterLength,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// TotalWordCount 全部章节字数之和
func (s *Story) TotalWordCount() int {
	total := 0
	for _, ch := range s.Chapters {
		total += ch.WordCount
	}
	return total
}

// ChapterByNumber 按章节号查找
func (s *Story) ChapterByNumber(number int) *Chapter {
	for _, ch := range s.Chapters {
		if ch.Number == number {
			return ch
		}
	}
	return nil
}

// ChaptersInOrder 按章节号排序的浅拷贝，Chapters 本身保持追加顺序
func (s *Story) ChaptersInOrder() []*Chapter {
	out := slices.Clone(s.Chapters)
	slices.SortStableFunc(out, func(a, b *Chapter) int { return a.Number - b.Number })
	return out
}

// PutChapter 追加章节；同号章节原位替换
func (s *Story) PutChapter(ch *Chapter) {
	for i, existing := range s.Chapters {
		if existing.Number == ch.Number {
			s.Chapters[i] = ch
			s.Touch()
			return
		}
	}
	s.Chapters = append(s.Chapters, ch)
	s.Touch()
}

// Touch 刷新更新时间，保证单调不减
func (s *Story) Touch() {
	now := time.Now()
	if now.Before(s.UpdatedAt) {
		now = s.UpdatedAt
	}
	s.UpdatedAt = now
}

// Clone 深拷贝，存储层返回给调用方的都是副本
func (s *Story) Clone() *Story {
	if s == nil {
		return nil
	}
	out := *s
	out.Chapters = make([]*Chapter, 0, len(s.Chapters))
	for _, ch := range s.Chapters {
		out.Chapters = append(out.Chapters, ch.Clone())
	}
	if s.Characters != nil {
		out.Characters = make([]CharacterDetail, len(s.Characters))
		for i, c := range s.Characters {
			c.PersonalityTraits = slices.Clone(c.PersonalityTraits)
			c.Relationships = maps.Clone(c.Relationships)
			out.Characters[i] = c
		}
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}
	return &out
}

// StoryMemory 故事记忆：章节号到摘要的映射
type StoryMemory struct {
	StoryID          string         `json:"story_id"`
	ChapterSummaries map[int]string `json:"chapter_summaries"`
}

// NewStoryMemory 创建空记忆
func NewStoryMemory(storyID string) *StoryMemory {
	return &StoryMemory{StoryID: storyID, ChapterSummaries: map[int]string{}}
}

// Summary 获取章节摘要
func (m *StoryMemory) Summary(number int) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m.ChapterSummaries[number]
	return s, ok
}

// Numbers 已记录摘要的章节号（升序）
func (m *StoryMemory) Numbers() []int {
	if m == nil {
		return nil
	}
	nums := make([]int, 0, len(m.ChapterSummaries))
	for n := range m.ChapterSummaries {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// MaxNumber 已记录的最大章节号，无记录返回 0
func (m *StoryMemory) MaxNumber() int {
	highest := 0
	if m == nil {
		return highest
	}
	for n := range m.ChapterSummaries {
		if n > highest {
			highest = n
		}
	}
	return highest
}

// Clone 深拷贝
func (m *StoryMemory) Clone() *StoryMemory {
	if m == nil {
		return nil
	}
	return &StoryMemory{StoryID: m.StoryID, ChapterSummaries: maps.Clone(m.ChapterSummaries)}
}

// ChapterOutline 大纲中的单章
type ChapterOutline struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// SeedIdea 种子创意候选
type SeedIdea struct {
	ID            string `json:"id"`
	Summary       string `json:"summary"`
	CharacterArcs string `json:"character_arcs"`
	WordCount     int    `json:"word_count"`
	Expanded      bool   `json:"expanded"`
}

// DeriveStatus 根据记忆与已生成章节推导状态
func DeriveStatus(story *Story, memory *StoryMemory) StoryStatus {
	if memory == nil || len(memory.ChapterSummaries) == 0 {
		return StoryStatusCreated
	}
	for n := range memory.ChapterSummaries {
		if story == nil || story.ChapterByNumber(n) == nil {
			return StoryStatusOutlined
		}
	}
	return StoryStatusComplete
}
