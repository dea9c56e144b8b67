package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrative-ai-api/internal/domain/entity"
)

func TestToStoryResponseOrdersChapters(t *testing.T) {
	story := entity.NewStory("s-1", "The Lighthouse", "drama", "lyrical")
	story.PutChapter(entity.NewChapter(3, "Dawn", "c"))
	story.PutChapter(entity.NewChapter(1, "Arrival", "a b"))

	resp := ToStoryResponse(story, nil, entity.StoryStatusOutlined)
	require.Len(t, resp.Chapters, 2)
	assert.Equal(t, "Arrival", resp.Chapters[0].Title)
	assert.Equal(t, "Dawn", resp.Chapters[1].Title)
	assert.Equal(t, 3, resp.TotalWordCount)
	assert.Equal(t, 3, story.Chapters[0].Number, "存储顺序不受影响")
}
