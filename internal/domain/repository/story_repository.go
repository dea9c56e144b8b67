// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"narrative-ai-api/internal/domain/entity"
)

// NewStoryParams 创建故事参数
type NewStoryParams struct {
	Title               string
	Genre               string
	WritingStyle        string
	Characters          []entity.CharacterDetail
	Settings            *entity.StorySettings
	TargetChapterLength int
	SeedSummary         string
}

// StoryRepository 故事仓储接口
// 返回的聚合均为副本，调用方修改不会影响存储状态。
// 未知故事 ID 统一返回 errors.NotFoundError。
type StoryRepository interface {
	// Create 创建故事及其空记忆
	Create(ctx context.Context, params NewStoryParams) (*entity.Story, error)

	// Get 获取故事
	Get(ctx context.Context, id string) (*entity.Story, error)

	// Memory 获取故事记忆
	Memory(ctx context.Context, id string) (*entity.StoryMemory, error)

	// StoreOutlineSummaries 按章节号覆盖写入大纲摘要
	StoreOutlineSummaries(ctx context.Context, id string, outlines []entity.ChapterOutline) error

	// StoreChapterSummary 写入单章摘要
	StoreChapterSummary(ctx context.Context, id string, number int, summary string) error

	// AppendChapter 追加章节，同号章节原位替换
	AppendChapter(ctx context.Context, id string, chapter *entity.Chapter) error

	// SaveChapter 原子地写入章节摘要并追加章节，任一失败则两者都不生效
	SaveChapter(ctx context.Context, id string, summary string, chapter *entity.Chapter) error

	// SetComplete 设置完成标记
	SetComplete(ctx context.Context, id string, complete bool) error

	// Count 故事数量
	Count(ctx context.Context) (int, error)
}
