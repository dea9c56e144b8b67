// Package memory 提供进程内故事仓储实现
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"narrative-ai-api/internal/domain/entity"
	"narrative-ai-api/internal/domain/repository"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/metrics"
)

type storyRecord struct {
	story  *entity.Story
	memory *entity.StoryMemory
}

// StoryRepository 基于 map 的故事仓储，进程退出即丢失
type StoryRepository struct {
	mu      sync.RWMutex
	records map[string]*storyRecord
}

// NewStoryRepository 创建内存故事仓储
func NewStoryRepository() *StoryRepository {
	return &StoryRepository{records: make(map[string]*storyRecord)}
}

var _ repository.StoryRepository = (*StoryRepository)(nil)

// Create 创建故事
func (r *StoryRepository) Create(ctx context.Context, params repository.NewStoryParams) (*entity.Story, error) {
	story := entity.NewStory(uuid.NewString(), params.Title, params.Genre, params.WritingStyle)
	if params.TargetChapterLength > 0 {
		story.TargetChapterLength = params.TargetChapterLength
	}
	story.SeedSummary = params.SeedSummary
	story.Characters = params.Characters
	story.Settings = params.Settings
	// 入参切片归调用方所有，先拷贝一次再入库
	story = story.Clone()

	r.mu.Lock()
	r.records[story.ID] = &storyRecord{story: story, memory: entity.NewStoryMemory(story.ID)}
	count := len(r.records)
	r.mu.Unlock()

	metrics.StoriesStored.Set(float64(count))
	return story.Clone(), nil
}

// Get 获取故事
func (r *StoryRepository) Get(ctx context.Context, id string) (*entity.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, apperrors.NotFoundError(id)
	}
	return rec.story.Clone(), nil
}

// Memory 获取故事记忆
func (r *StoryRepository) Memory(ctx context.Context, id string) (*entity.StoryMemory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, apperrors.NotFoundError(id)
	}
	return rec.memory.Clone(), nil
}

// StoreOutlineSummaries 写入大纲摘要
func (r *StoryRepository) StoreOutlineSummaries(ctx context.Context, id string, outlines []entity.ChapterOutline) error {
	return r.update(id, func(rec *storyRecord) {
		for _, o := range outlines {
			rec.memory.ChapterSummaries[o.Number] = o.Summary
		}
	})
}

// StoreChapterSummary 写入单章摘要
func (r *StoryRepository) StoreChapterSummary(ctx context.Context, id string, number int, summary string) error {
	return r.update(id, func(rec *storyRecord) {
		rec.memory.ChapterSummaries[number] = summary
	})
}

// AppendChapter 追加章节
func (r *StoryRepository) AppendChapter(ctx context.Context, id string, chapter *entity.Chapter) error {
	ch := chapter.Clone()
	return r.update(id, func(rec *storyRecord) {
		rec.story.PutChapter(ch)
	})
}

// SaveChapter 在同一把锁内写入摘要与章节
func (r *StoryRepository) SaveChapter(ctx context.Context, id string, summary string, chapter *entity.Chapter) error {
	ch := chapter.Clone()
	return r.update(id, func(rec *storyRecord) {
		rec.memory.ChapterSummaries[ch.Number] = summary
		rec.story.PutChapter(ch)
	})
}

// SetComplete 设置完成标记
func (r *StoryRepository) SetComplete(ctx context.Context, id string, complete bool) error {
	return r.update(id, func(rec *storyRecord) {
		rec.story.IsComplete = complete
		rec.story.Touch()
	})
}

// Count 故事数量
func (r *StoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *StoryRepository) update(id string, fn func(rec *storyRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return apperrors.NotFoundError(id)
	}
	fn(rec)
	return nil
}
