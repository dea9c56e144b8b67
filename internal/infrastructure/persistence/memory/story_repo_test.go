package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrative-ai-api/internal/domain/entity"
	"narrative-ai-api/internal/domain/repository"
	apperrors "narrative-ai-api/pkg/errors"
)

func newStory(t *testing.T, repo *StoryRepository) *entity.Story {
	t.Helper()
	story, err := repo.Create(context.Background(), repository.NewStoryParams{
		Title:        "The Tide",
		Genre:        "fantasy",
		WritingStyle: "lyrical",
	})
	require.NoError(t, err)
	return story
}

func TestCreateDefaults(t *testing.T) {
	repo := NewStoryRepository()
	story := newStory(t, repo)

	assert.NotEmpty(t, story.ID)
	assert.Equal(t, entity.DefaultTargetChapterLength, story.TargetChapterLength)
	assert.False(t, story.IsComplete)
	assert.Empty(t, story.Chapters)

	mem, err := repo.Memory(context.Background(), story.ID)
	require.NoError(t, err)
	assert.Empty(t, mem.ChapterSummaries)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUnknownIDIsNotFound(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	_, err = repo.Memory(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	err = repo.AppendChapter(ctx, "missing", entity.NewChapter(1, "t", "body"))
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	err = repo.StoreChapterSummary(ctx, "missing", 1, "s")
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	err = repo.SaveChapter(ctx, "missing", "s", entity.NewChapter(1, "t", "body"))
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))
}

func TestSaveChapterWritesSummaryAndChapter(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)
	require.NoError(t, repo.StoreOutlineSummaries(ctx, story.ID, []entity.ChapterOutline{{Number: 1, Summary: "outlined"}}))

	ch := entity.NewChapter(1, "one", "a b c")
	require.NoError(t, repo.SaveChapter(ctx, story.ID, "rewritten", ch))
	ch.Title = "mutated after save"

	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 1)
	assert.Equal(t, "one", got.Chapters[0].Title)

	mem, err := repo.Memory(ctx, story.ID)
	require.NoError(t, err)
	summary, _ := mem.Summary(1)
	assert.Equal(t, "rewritten", summary)
}

func TestAppendChapterRefreshesUpdatedAt(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)

	prev := story.UpdatedAt
	for i := 1; i <= 3; i++ {
		time.Sleep(time.Millisecond)
		require.NoError(t, repo.AppendChapter(ctx, story.ID, entity.NewChapter(i, "t", "some words here")))
		got, err := repo.Get(ctx, story.ID)
		require.NoError(t, err)
		assert.False(t, got.UpdatedAt.Before(prev), "更新时间不得回退")
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
		prev = got.UpdatedAt
	}
}

func TestAppendChapterReplacesSameNumber(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)

	require.NoError(t, repo.AppendChapter(ctx, story.ID, entity.NewChapter(1, "first", "a b")))
	require.NoError(t, repo.AppendChapter(ctx, story.ID, entity.NewChapter(1, "rewrite", "a b c")))

	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 1)
	assert.Equal(t, "rewrite", got.Chapters[0].Title)
	assert.Equal(t, 3, got.TotalWordCount())
}

func TestStoreOutlineOverwritesByNumber(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)

	require.NoError(t, repo.StoreOutlineSummaries(ctx, story.ID, []entity.ChapterOutline{
		{Number: 1, Summary: "one"}, {Number: 2, Summary: "two"},
	}))
	require.NoError(t, repo.StoreOutlineSummaries(ctx, story.ID, []entity.ChapterOutline{
		{Number: 2, Summary: "two v2"},
	}))

	mem, err := repo.Memory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "one", 2: "two v2"}, mem.ChapterSummaries)
}

func TestReturnedAggregatesAreCopies(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)
	require.NoError(t, repo.AppendChapter(ctx, story.ID, entity.NewChapter(1, "first", "a b")))
	require.NoError(t, repo.StoreChapterSummary(ctx, story.ID, 1, "summary"))

	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	got.Chapters[0].Title = "mutated"
	got.Title = "mutated"

	mem, err := repo.Memory(ctx, story.ID)
	require.NoError(t, err)
	mem.ChapterSummaries[1] = "mutated"

	again, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Chapters[0].Title)
	assert.Equal(t, "The Tide", again.Title)

	mem2, err := repo.Memory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, "summary", mem2.ChapterSummaries[1])
}

func TestSetComplete(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)

	require.NoError(t, repo.SetComplete(ctx, story.ID, true))
	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	assert.True(t, got.IsComplete)
}

func TestConcurrentAppends(t *testing.T) {
	repo := NewStoryRepository()
	ctx := context.Background()
	story := newStory(t, repo)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = repo.AppendChapter(ctx, story.ID, entity.NewChapter(n, "t", "w"))
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	assert.Len(t, got.Chapters, 20)
}
