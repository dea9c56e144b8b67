package story

import (
	"context"
	"strings"

	"narrative-ai-api/internal/application/story/parse"
	"narrative-ai-api/internal/domain/repository"
	wfmodel "narrative-ai-api/internal/workflow/model"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
)

const (
	outlineSummaryWords = 250
	untitledStory       = "Untitled"
)

// CreateDetailedOutline 先生成并解析大纲，成功后才创建故事并写入摘要
func (o *Orchestrator) CreateDetailedOutline(ctx context.Context, in OutlineInput) (*OutlineResult, error) {
	if strings.TrimSpace(in.SeedSummary) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "seed summary is required")
	}
	if in.TargetChapterCount <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "target chapter count must be positive")
	}

	var result *OutlineResult
	err := o.observe(ctx, "outline", "", func(ctx context.Context) error {
		res, err := o.outlines.Invoke(ctx, &wfmodel.OutlineGenerateInput{
			Story:            storyContext(in.Genre, in.WritingStyle, in.Characters, in.CharacterCount, in.Settings),
			Title:            strings.TrimSpace(in.Title),
			SeedSummary:      strings.TrimSpace(in.SeedSummary),
			TargetChapters:   in.TargetChapterCount,
			SummaryWords:     outlineSummaryWords,
			StructuredOutput: o.policy.StructuredOutput,
		})
		if err != nil {
			return err
		}

		doc, err := parse.Outline(res.Content)
		if err != nil {
			return err
		}
		if len(doc.Chapters) != in.TargetChapterCount {
			logger.Warn(ctx, "outline chapter count differs from request", "want", in.TargetChapterCount, "got", len(doc.Chapters))
		}

		story, err := o.repo.Create(ctx, repository.NewStoryParams{
			Title:               outlineTitle(in.Title, doc.Title),
			Genre:               strings.TrimSpace(in.Genre),
			WritingStyle:        strings.TrimSpace(in.WritingStyle),
			Characters:          in.Characters,
			Settings:            in.Settings,
			TargetChapterLength: o.chapterLength(in.TargetChapterLength),
			SeedSummary:         strings.TrimSpace(in.SeedSummary),
		})
		if err != nil {
			return err
		}
		if err := o.repo.StoreOutlineSummaries(ctx, story.ID, doc.Chapters); err != nil {
			return err
		}
		logger.Info(ctx, "outline stored", "story_id", story.ID, "chapters", len(doc.Chapters))

		result = &OutlineResult{Story: story, Chapters: doc.Chapters}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// outlineTitle 请求标题优先，其次模型给出的标题
func outlineTitle(requested, generated string) string {
	if t := strings.TrimSpace(requested); t != "" {
		return t
	}
	if t := strings.TrimSpace(generated); t != "" {
		return t
	}
	return untitledStory
}
