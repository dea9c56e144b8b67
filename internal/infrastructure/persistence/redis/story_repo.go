package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"narrative-ai-api/internal/domain/entity"
	"narrative-ai-api/internal/domain/repository"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
	"narrative-ai-api/pkg/metrics"
)

// maxTxRetries WATCH 事务冲突时的重试次数
const maxTxRetries = 5

// StoryRepository Redis 故事仓储
// 故事聚合以 JSON 存于 {prefix}:story:{id}，记忆以 hash 存于 {prefix}:story:{id}:memory，
// 全部故事 ID 记录在 {prefix}:stories 集合中。
type StoryRepository struct {
	client *Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// NewStoryRepository 创建 Redis 故事仓储
func NewStoryRepository(client *Client, prefix string, ttl time.Duration) *StoryRepository {
	if prefix == "" {
		prefix = "narrative"
	}
	return &StoryRepository{client: client, prefix: prefix, ttl: ttl}
}

var _ repository.StoryRepository = (*StoryRepository)(nil)

func (r *StoryRepository) storyKey(id string) string {
	return fmt.Sprintf("%s:story:%s", r.prefix, id)
}

func (r *StoryRepository) memoryKey(id string) string {
	return fmt.Sprintf("%s:story:%s:memory", r.prefix, id)
}

func (r *StoryRepository) indexKey() string {
	return r.prefix + ":stories"
}

// Create 创建故事
func (r *StoryRepository) Create(ctx context.Context, params repository.NewStoryParams) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "redis.story.Create")
	defer span.End()

	story := entity.NewStory(uuid.NewString(), params.Title, params.Genre, params.WritingStyle)
	if params.TargetChapterLength > 0 {
		story.TargetChapterLength = params.TargetChapterLength
	}
	story.SeedSummary = params.SeedSummary
	story.Characters = params.Characters
	story.Settings = params.Settings
	span.SetAttributes(attribute.String("story.id", story.ID))

	data, err := json.Marshal(story)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to encode story")
	}

	rdb := r.client.rdb
	_, err = rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.storyKey(story.ID), data, r.ttl)
		pipe.SAdd(ctx, r.indexKey(), story.ID)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to create story")
	}

	if n, err := rdb.SCard(ctx, r.indexKey()).Result(); err == nil {
		metrics.StoriesStored.Set(float64(n))
	}
	return story.Clone(), nil
}

// Get 获取故事；并发读取同一故事时合并为一次 Redis 请求
func (r *StoryRepository) Get(ctx context.Context, id string) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "redis.story.Get",
		trace.WithAttributes(attribute.String("story.id", id)))
	defer span.End()

	key := r.storyKey(id)
	result, err, shared := r.group.Do(key, func() (interface{}, error) {
		return r.client.rdb.Get(ctx, key).Bytes()
	})
	span.SetAttributes(attribute.Bool("redis.shared", shared))
	if err != nil {
		if IsNil(err) {
			return nil, apperrors.NotFoundError(id)
		}
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to load story")
	}

	// 每个调用方各自解码，得到独立副本
	return decodeStory(result.([]byte))
}

// Memory 获取故事记忆
func (r *StoryRepository) Memory(ctx context.Context, id string) (*entity.StoryMemory, error) {
	ctx, span := tracer.Start(ctx, "redis.story.Memory",
		trace.WithAttributes(attribute.String("story.id", id)))
	defer span.End()

	rdb := r.client.rdb
	var existsCmd *redis.IntCmd
	var fieldsCmd *redis.MapStringStringCmd
	_, err := rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		existsCmd = pipe.Exists(ctx, r.storyKey(id))
		fieldsCmd = pipe.HGetAll(ctx, r.memoryKey(id))
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to load story memory")
	}
	if existsCmd.Val() == 0 {
		return nil, apperrors.NotFoundError(id)
	}

	memory := entity.NewStoryMemory(id)
	for field, summary := range fieldsCmd.Val() {
		number, err := strconv.Atoi(field)
		if err != nil {
			logger.Warn(ctx, "skipping malformed memory field", "story_id", id, "field", field)
			continue
		}
		memory.ChapterSummaries[number] = summary
	}
	return memory, nil
}

// StoreOutlineSummaries 写入大纲摘要
func (r *StoryRepository) StoreOutlineSummaries(ctx context.Context, id string, outlines []entity.ChapterOutline) error {
	ctx, span := tracer.Start(ctx, "redis.story.StoreOutlineSummaries",
		trace.WithAttributes(attribute.String("story.id", id), attribute.Int("outline.count", len(outlines))))
	defer span.End()

	if len(outlines) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}
	values := make(map[string]interface{}, len(outlines))
	for _, o := range outlines {
		values[strconv.Itoa(o.Number)] = o.Summary
	}
	return r.writeMemory(ctx, id, values)
}

// StoreChapterSummary 写入单章摘要
func (r *StoryRepository) StoreChapterSummary(ctx context.Context, id string, number int, summary string) error {
	ctx, span := tracer.Start(ctx, "redis.story.StoreChapterSummary",
		trace.WithAttributes(attribute.String("story.id", id), attribute.Int("chapter.number", number)))
	defer span.End()

	return r.writeMemory(ctx, id, map[string]interface{}{strconv.Itoa(number): summary})
}

// AppendChapter 追加章节
func (r *StoryRepository) AppendChapter(ctx context.Context, id string, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "redis.story.AppendChapter",
		trace.WithAttributes(attribute.String("story.id", id), attribute.Int("chapter.number", chapter.Number)))
	defer span.End()

	ch := chapter.Clone()
	return r.mutate(ctx, id, func(story *entity.Story) {
		story.PutChapter(ch)
	})
}

// SaveChapter 在同一个 MULTI 中写入章节与摘要
func (r *StoryRepository) SaveChapter(ctx context.Context, id string, summary string, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "redis.story.SaveChapter",
		trace.WithAttributes(attribute.String("story.id", id), attribute.Int("chapter.number", chapter.Number)))
	defer span.End()

	ch := chapter.Clone()
	memoryKey := r.memoryKey(id)
	return r.mutateWith(ctx, id, func(story *entity.Story) {
		story.PutChapter(ch)
	}, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, memoryKey, strconv.Itoa(ch.Number), summary)
		if r.ttl > 0 {
			pipe.Expire(ctx, memoryKey, r.ttl)
		}
	})
}

// SetComplete 设置完成标记
func (r *StoryRepository) SetComplete(ctx context.Context, id string, complete bool) error {
	ctx, span := tracer.Start(ctx, "redis.story.SetComplete",
		trace.WithAttributes(attribute.String("story.id", id)))
	defer span.End()

	return r.mutate(ctx, id, func(story *entity.Story) {
		story.IsComplete = complete
		story.Touch()
	})
}

// Count 故事数量
func (r *StoryRepository) Count(ctx context.Context) (int, error) {
	n, err := r.client.rdb.SCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to count stories")
	}
	return int(n), nil
}

// writeMemory 在故事存在的前提下写入记忆字段
func (r *StoryRepository) writeMemory(ctx context.Context, id string, values map[string]interface{}) error {
	storyKey := r.storyKey(id)
	memoryKey := r.memoryKey(id)

	return r.watch(ctx, storyKey, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, storyKey).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.NotFoundError(id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, memoryKey, values)
			if r.ttl > 0 {
				pipe.Expire(ctx, memoryKey, r.ttl)
			}
			return nil
		})
		return err
	})
}

// mutate 乐观事务：读出聚合、修改、写回
func (r *StoryRepository) mutate(ctx context.Context, id string, fn func(story *entity.Story)) error {
	return r.mutateWith(ctx, id, fn, nil)
}

// mutateWith 与 mutate 相同，extra 中的命令与聚合写回处于同一事务
func (r *StoryRepository) mutateWith(ctx context.Context, id string, fn func(story *entity.Story), extra func(pipe redis.Pipeliner)) error {
	key := r.storyKey(id)
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if IsNil(err) {
				return apperrors.NotFoundError(id)
			}
			return err
		}
		story, err := decodeStory(data)
		if err != nil {
			return err
		}
		fn(story)

		encoded, err := json.Marshal(story)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if r.ttl > 0 {
				pipe.Set(ctx, key, encoded, r.ttl)
			} else {
				pipe.Set(ctx, key, encoded, redis.KeepTTL)
			}
			if extra != nil {
				extra(pipe)
			}
			return nil
		})
		return err
	})
	// 写入后丢弃进行中的合并读取，避免返回旧值
	r.group.Forget(key)
	return err
}

func (r *StoryRepository) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.rdb.Watch(ctx, fn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Wrap(err, apperrors.CodeStorageError, "story transaction failed")
	}
	return apperrors.New(apperrors.CodeConflict, "story transaction conflict").WithDetail(key)
}

func decodeStory(data []byte) (*entity.Story, error) {
	var story entity.Story
	if err := json.Unmarshal(data, &story); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to decode story")
	}
	if story.Chapters == nil {
		story.Chapters = []*entity.Chapter{}
	}
	return &story, nil
}
