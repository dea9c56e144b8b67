package story

import (
	"context"
	"strings"

	"narrative-ai-api/internal/application/story/parse"
	"narrative-ai-api/internal/domain/entity"
	wfmodel "narrative-ai-api/internal/workflow/model"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
	"narrative-ai-api/pkg/metrics"
)

// GenerateChapter 生成单章并持久化
// 同一故事串行执行；仅在解析成功后依次写入摘要与章节，失败不改动已有状态。
func (o *Orchestrator) GenerateChapter(ctx context.Context, in GenerateChapterInput) (*entity.Chapter, error) {
	if in.ChapterNumber <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "chapter number must be positive")
	}
	if strings.TrimSpace(in.ChapterSummary) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "chapter summary is required")
	}

	unlock := o.locks.Lock(in.StoryID)
	defer unlock()

	var chapter *entity.Chapter
	err := o.observe(ctx, "chapter", in.StoryID, func(ctx context.Context) error {
		story, err := o.repo.Get(ctx, in.StoryID)
		if err != nil {
			return err
		}
		memory, err := o.repo.Memory(ctx, in.StoryID)
		if err != nil {
			return err
		}

		n := in.ChapterNumber
		cont := MergeContinuity(
			storedContinuity(story, memory, n, o.policy.ChapterTailRunes),
			Continuity{
				PreviousTitle:  in.PreviousChapterTitle,
				PreviousEnding: in.PreviousChapterEnding,
				NextSummary:    in.NextChapterSummary,
			},
		)
		isFirst := n == 1 && cont.PreviousEnding == ""
		isFinal := cont.NextSummary == "" && n >= memory.MaxNumber()

		target := story.TargetChapterLength
		if target <= 0 {
			target = o.policy.DefaultChapterLength
		}

		res, err := o.chapters.Invoke(ctx, &wfmodel.ChapterGenerateInput{
			Story:           storyContext(story.Genre, story.WritingStyle, story.Characters, 0, story.Settings),
			StoryTitle:      story.Title,
			ChapterNumber:   n,
			ChapterSummary:  strings.TrimSpace(in.ChapterSummary),
			PreviousTitle:   cont.PreviousTitle,
			PreviousEnding:  cont.PreviousEnding,
			NextSummary:     cont.NextSummary,
			IsFirst:         isFirst,
			IsFinal:         isFinal,
			TargetWordCount: target,
		})
		if err != nil {
			return err
		}

		ch, err := parse.Chapter(n, res.Content)
		if err != nil {
			return err
		}
		ch.GenerationMetadata = res.Meta.GenerationMetadata()

		if err := o.repo.SaveChapter(ctx, in.StoryID, strings.TrimSpace(in.ChapterSummary), ch); err != nil {
			return err
		}

		metrics.ChapterWordCount.Observe(float64(ch.WordCount))
		logger.Info(ctx, "chapter generated", "chapter", n, "title", ch.Title, "word_count", ch.WordCount, "target", target)
		chapter = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}
