package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrative-ai-api/internal/domain/entity"
	"narrative-ai-api/internal/domain/repository"
	apperrors "narrative-ai-api/pkg/errors"
)

func TestKeyLayout(t *testing.T) {
	repo := NewStoryRepository(nil, "", 0)

	assert.Equal(t, "narrative:story:abc", repo.storyKey("abc"))
	assert.Equal(t, "narrative:story:abc:memory", repo.memoryKey("abc"))
	assert.Equal(t, "narrative:stories", repo.indexKey())
}

func TestDecodeStoryNormalisesChapters(t *testing.T) {
	story, err := decodeStory([]byte(`{"id":"s-1","title":"T","chapters":null}`))
	require.NoError(t, err)
	assert.NotNil(t, story.Chapters)

	_, err = decodeStory([]byte(`{`))
	assert.True(t, apperrors.Is(err, apperrors.CodeStorageError))
}

// 需要本地 Redis：NARRATIVE_TEST_REDIS_ADDR=localhost:6379
func newIntegrationRepo(t *testing.T) *StoryRepository {
	t.Helper()
	addr := os.Getenv("NARRATIVE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NARRATIVE_TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	prefix := "narrative-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
	})
	return NewStoryRepository(WrapClient(rdb), prefix, time.Hour)
}

func TestRedisStoryLifecycle(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	story, err := repo.Create(ctx, repository.NewStoryParams{Title: "T", Genre: "noir", WritingStyle: "terse"})
	require.NoError(t, err)

	require.NoError(t, repo.StoreOutlineSummaries(ctx, story.ID, []entity.ChapterOutline{
		{Number: 1, Summary: "one"}, {Number: 2, Summary: "two"},
	}))
	require.NoError(t, repo.AppendChapter(ctx, story.ID, entity.NewChapter(1, "first", "a b c")))
	require.NoError(t, repo.AppendChapter(ctx, story.ID, entity.NewChapter(1, "again", "a b")))

	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 1)
	assert.Equal(t, "again", got.Chapters[0].Title)
	assert.False(t, got.UpdatedAt.Before(story.UpdatedAt))

	mem, err := repo.Memory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "one", 2: "two"}, mem.ChapterSummaries)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisUnknownStory(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	_, err = repo.Memory(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	err = repo.StoreChapterSummary(ctx, "missing", 1, "s")
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	err = repo.SetComplete(ctx, "missing", true)
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))

	err = repo.SaveChapter(ctx, "missing", "s", entity.NewChapter(1, "t", "body"))
	assert.True(t, apperrors.Is(err, apperrors.CodeStoryNotFound))
	exists, err := repo.client.rdb.Exists(ctx, repo.memoryKey("missing")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "未知故事不得留下记忆")
}

func TestRedisSaveChapterWritesBoth(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	story, err := repo.Create(ctx, repository.NewStoryParams{Title: "T", Genre: "noir", WritingStyle: "terse"})
	require.NoError(t, err)
	require.NoError(t, repo.StoreOutlineSummaries(ctx, story.ID, []entity.ChapterOutline{{Number: 2, Summary: "outlined"}}))

	require.NoError(t, repo.SaveChapter(ctx, story.ID, "rewritten", entity.NewChapter(2, "second", "x y")))

	got, err := repo.Get(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 1)
	assert.Equal(t, 2, got.Chapters[0].Number)

	mem, err := repo.Memory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{2: "rewritten"}, mem.ChapterSummaries)
}
