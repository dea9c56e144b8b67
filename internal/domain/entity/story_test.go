package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChapterWordCount(t *testing.T) {
	ch := NewChapter(1, "Dawn", "  The  tide\nturned at\tlast.  ")
	assert.Equal(t, 5, ch.WordCount)
	assert.Equal(t, CountWords(ch.Content), ch.WordCount)
}

func TestChapterTailRunes(t *testing.T) {
	ch := NewChapter(1, "t", "héllo wörld")
	assert.Equal(t, "wörld", ch.Tail(5))
	assert.Equal(t, ch.Content, ch.Tail(500))
	assert.Equal(t, "", ch.Tail(0))
}

func TestStoryPutChapterReplacesSameNumber(t *testing.T) {
	s := NewStory("s-1", "T", "fantasy", "")
	assert.Equal(t, "default", s.WritingStyle)
	assert.Equal(t, DefaultTargetChapterLength, s.TargetChapterLength)

	s.PutChapter(NewChapter(1, "one", "a b c"))
	s.PutChapter(NewChapter(2, "two", "d e"))
	s.PutChapter(NewChapter(1, "one again", "x"))

	require.Len(t, s.Chapters, 2)
	assert.Equal(t, "one again", s.Chapters[0].Title)
	assert.Equal(t, 3, s.TotalWordCount())
}

func TestChaptersInOrderLeavesAppendOrder(t *testing.T) {
	s := NewStory("s-1", "T", "fantasy", "")
	s.PutChapter(NewChapter(3, "three", "c"))
	s.PutChapter(NewChapter(1, "one", "a"))
	s.PutChapter(NewChapter(2, "two", "b"))

	ordered := s.ChaptersInOrder()
	require.Len(t, ordered, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{ordered[0].Number, ordered[1].Number, ordered[2].Number})
	assert.Equal(t, []int{3, 1, 2}, []int{s.Chapters[0].Number, s.Chapters[1].Number, s.Chapters[2].Number})
}

func TestStoryTouchMonotonic(t *testing.T) {
	s := NewStory("s-1", "T", "fantasy", "noir")
	future := time.Now().Add(time.Hour)
	s.UpdatedAt = future

	s.Touch()
	assert.False(t, s.UpdatedAt.Before(future), "更新时间不得回退")
}

func TestStoryCloneIsDeep(t *testing.T) {
	s := NewStory("s-1", "T", "fantasy", "noir")
	s.Characters = []CharacterDetail{{Name: "Ada", PersonalityTraits: []string{"bold"}, Relationships: map[string]string{"Bo": "rival"}}}
	s.Settings = &StorySettings{TimePeriod: "1920s"}
	s.PutChapter(NewChapter(1, "one", "a b c"))

	c := s.Clone()
	c.Chapters[0].Title = "changed"
	c.Characters[0].PersonalityTraits[0] = "shy"
	c.Characters[0].Relationships["Bo"] = "friend"
	c.Settings.TimePeriod = "now"

	assert.Equal(t, "one", s.Chapters[0].Title)
	assert.Equal(t, "bold", s.Characters[0].PersonalityTraits[0])
	assert.Equal(t, "rival", s.Characters[0].Relationships["Bo"])
	assert.Equal(t, "1920s", s.Settings.TimePeriod)
}

func TestDeriveStatus(t *testing.T) {
	s := NewStory("s-1", "T", "fantasy", "noir")
	m := NewStoryMemory("s-1")
	assert.Equal(t, StoryStatusCreated, DeriveStatus(s, m))

	m.ChapterSummaries[1] = "first"
	m.ChapterSummaries[2] = "second"
	assert.Equal(t, StoryStatusOutlined, DeriveStatus(s, m))

	s.PutChapter(NewChapter(1, "one", "a"))
	assert.Equal(t, StoryStatusOutlined, DeriveStatus(s, m))

	s.PutChapter(NewChapter(2, "two", "b"))
	assert.Equal(t, StoryStatusComplete, DeriveStatus(s, m))
	assert.Equal(t, []int{1, 2}, m.Numbers())
	assert.Equal(t, 2, m.MaxNumber())
}
