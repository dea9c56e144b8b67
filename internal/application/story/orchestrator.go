// Package story 编排叙事生成流水线：种子创意 -> 大纲 -> 章节 -> 封面
package story

import (
	"context"
	"strings"
	"time"

	"narrative-ai-api/internal/config"
	"narrative-ai-api/internal/domain/entity"
	"narrative-ai-api/internal/domain/repository"
	llmctx "narrative-ai-api/internal/domain/service"
	workflowchain "narrative-ai-api/internal/workflow/chain"
	workflowport "narrative-ai-api/internal/workflow/port"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
	"narrative-ai-api/pkg/metrics"
	"narrative-ai-api/pkg/tracer"
)

// Policy 生成策略
type Policy struct {
	SeedWordTarget       int
	SeedCandidates       int
	MaxSeedFillAttempts  int
	ChapterTailRunes     int
	DefaultChapterLength int
	StructuredOutput     bool
}

// DefaultPolicy 默认生成策略
func DefaultPolicy() Policy {
	return Policy{
		SeedWordTarget:       300,
		SeedCandidates:       3,
		MaxSeedFillAttempts:  3,
		ChapterTailRunes:     500,
		DefaultChapterLength: entity.DefaultTargetChapterLength,
		StructuredOutput:     true,
	}
}

// PolicyFromConfig 读取配置，未设置的字段使用默认值
func PolicyFromConfig(cfg *config.Config) Policy {
	p := DefaultPolicy()
	if cfg == nil {
		return p
	}
	g := cfg.Generation
	if g.SeedWordTarget > 0 {
		p.SeedWordTarget = g.SeedWordTarget
	}
	if g.SeedCandidates > 0 {
		p.SeedCandidates = g.SeedCandidates
	}
	if g.MaxSeedFillAttempts > 0 {
		p.MaxSeedFillAttempts = g.MaxSeedFillAttempts
	}
	if g.ChapterTailRunes > 0 {
		p.ChapterTailRunes = g.ChapterTailRunes
	}
	if g.DefaultChapterLength > 0 {
		p.DefaultChapterLength = g.DefaultChapterLength
	}
	p.StructuredOutput = cfg.LLM.StructuredOutput
	return p
}

// Orchestrator 流水线编排器
type Orchestrator struct {
	repo    repository.StoryRepository
	images  workflowport.ImageGenerator
	prompts *workflowprompt.Registry

	seeds    *workflowchain.SeedChain
	outlines *workflowchain.OutlineChain
	chapters *workflowchain.ChapterChain
	surprise *workflowchain.SurpriseChain

	policy Policy
	locks  *storyLocks
}

// NewOrchestrator 创建编排器
func NewOrchestrator(factory workflowport.ChatModelFactory, images workflowport.ImageGenerator, repo repository.StoryRepository, cfg *config.Config) *Orchestrator {
	systemPrompt := ""
	if cfg != nil {
		systemPrompt = cfg.LLM.SystemPrompt
	}
	return NewOrchestratorWithPolicy(factory, images, repo, workflowprompt.NewRegistry(systemPrompt), PolicyFromConfig(cfg))
}

// NewOrchestratorWithPolicy 使用显式策略创建编排器
func NewOrchestratorWithPolicy(factory workflowport.ChatModelFactory, images workflowport.ImageGenerator, repo repository.StoryRepository, prompts *workflowprompt.Registry, policy Policy) *Orchestrator {
	completer := workflowchain.NewCompleter(factory)
	return &Orchestrator{
		repo:     repo,
		images:   images,
		prompts:  prompts,
		seeds:    workflowchain.NewSeedChain(completer, prompts),
		outlines: workflowchain.NewOutlineChain(completer, prompts),
		chapters: workflowchain.NewChapterChain(completer, prompts),
		surprise: workflowchain.NewSurpriseChain(completer, prompts),
		policy:   policy,
		locks:    newStoryLocks(),
	}
}

// CreateStory 创建空故事
func (o *Orchestrator) CreateStory(ctx context.Context, in CreateStoryInput) (*entity.Story, error) {
	var story *entity.Story
	err := o.observe(ctx, "create_story", "", func(ctx context.Context) error {
		var err error
		story, err = o.repo.Create(ctx, repository.NewStoryParams{
			Title:               strings.TrimSpace(in.Title),
			Genre:               strings.TrimSpace(in.Genre),
			WritingStyle:        strings.TrimSpace(in.WritingStyle),
			Characters:          in.Characters,
			Settings:            in.Settings,
			TargetChapterLength: o.chapterLength(in.TargetChapterLength),
		})
		if err == nil {
			logger.Info(ctx, "story created", "story_id", story.ID, "title", story.Title)
		}
		return err
	})
	return story, err
}

// StoreOutline 为已有故事写入大纲摘要
func (o *Orchestrator) StoreOutline(ctx context.Context, storyID string, outlines []entity.ChapterOutline) error {
	return o.observe(ctx, "store_outline", storyID, func(ctx context.Context) error {
		for _, ch := range outlines {
			if ch.Number <= 0 {
				return apperrors.New(apperrors.CodeInvalidParam, "chapter number must be positive")
			}
		}
		return o.repo.StoreOutlineSummaries(ctx, storyID, outlines)
	})
}

// GetStory 读取故事、记忆与推导状态
func (o *Orchestrator) GetStory(ctx context.Context, storyID string) (*StoryView, error) {
	story, err := o.repo.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}
	memory, err := o.repo.Memory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return &StoryView{Story: story, Memory: memory, Status: entity.DeriveStatus(story, memory)}, nil
}

// SetComplete 由调用方设置完成标记
func (o *Orchestrator) SetComplete(ctx context.Context, storyID string, complete bool) (*entity.Story, error) {
	if err := o.repo.SetComplete(ctx, storyID, complete); err != nil {
		return nil, err
	}
	return o.repo.Get(ctx, storyID)
}

// Policy 当前生成策略
func (o *Orchestrator) Policy() Policy {
	return o.policy
}

func (o *Orchestrator) chapterLength(requested int) int {
	if requested > 0 {
		return requested
	}
	return o.policy.DefaultChapterLength
}

// observe 为单个阶段记录 span、指标与日志
func (o *Orchestrator) observe(ctx context.Context, stage, storyID string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.StartStage(ctx, stage, storyID)
	defer span.End()

	ctx = logger.WithContext(ctx, logger.StageKey, stage)
	if storyID != "" {
		ctx = logger.WithContext(ctx, logger.StoryIDKey, storyID)
		ctx = llmctx.WithStoryID(ctx, storyID)
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		tracer.RecordError(span, err)
		logger.Error(ctx, "stage failed", err, "code", string(apperrors.CodeOf(err)), "duration_ms", elapsed.Milliseconds())
	} else {
		logger.Debug(ctx, "stage finished", "duration_ms", elapsed.Milliseconds())
	}
	metrics.StageTotal.WithLabelValues(stage, status).Inc()
	metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	return err
}
