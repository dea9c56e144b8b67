package story

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"narrative-ai-api/internal/application/story/parse"
	"narrative-ai-api/internal/domain/entity"
	wfmodel "narrative-ai-api/internal/workflow/model"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
	"narrative-ai-api/pkg/metrics"
)

// GenerateSeedIdeas 生成恰好 SeedCandidates 个种子创意
// 每个候选字数不足时最多扩写一次；有效候选不足时补齐，补齐调用次数受 MaxSeedFillAttempts 约束。
func (o *Orchestrator) GenerateSeedIdeas(ctx context.Context, in SeedIdeasInput) ([]entity.SeedIdea, error) {
	if strings.TrimSpace(in.Idea) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "idea is required")
	}

	var ideas []entity.SeedIdea
	err := o.observe(ctx, "seed_ideas", "", func(ctx context.Context) error {
		storyCtx := storyContext(in.Genre, in.WritingStyle, in.Characters, in.CharacterCount, in.Settings)
		want := o.policy.SeedCandidates

		res, err := o.seeds.Generate(ctx, &wfmodel.SeedIdeasInput{
			Story:          storyCtx,
			Idea:           strings.TrimSpace(in.Idea),
			TargetChapters: in.TargetChapterCount,
			WordTarget:     o.policy.SeedWordTarget,
			CandidateCount: want,
		})
		if err != nil {
			return err
		}

		accepted := make([]entity.SeedIdea, 0, want)
		for _, cand := range parse.SeedCandidates(res.Content) {
			accepted = append(accepted, o.ensureSeedLength(ctx, cand))
		}
		logger.Info(ctx, "seed candidates parsed", "valid", len(accepted), "want", want)

		for attempt := 0; len(accepted) < want; attempt++ {
			if attempt >= o.policy.MaxSeedFillAttempts {
				return apperrors.GenerationError(nil, "seed candidates exhausted").
					WithDetail(fmt.Sprintf("have %d of %d after %d fill calls", len(accepted), want, attempt))
			}
			metrics.SeedFollowUpTotal.WithLabelValues("fill").Inc()
			previous := make([]string, 0, len(accepted))
			for _, a := range accepted {
				previous = append(previous, a.Summary)
			}
			fill, err := o.seeds.Fill(ctx, &wfmodel.SeedFillInput{
				Story:      storyCtx,
				Idea:       strings.TrimSpace(in.Idea),
				WordTarget: o.policy.SeedWordTarget,
				Previous:   previous,
			})
			if err != nil {
				return err
			}
			extra := parse.SeedCandidates(fill.Content)
			if len(extra) == 0 {
				logger.Warn(ctx, "seed fill returned no valid candidate", "attempt", attempt+1)
				continue
			}
			// 每次补齐只取一个候选
			accepted = append(accepted, o.ensureSeedLength(ctx, extra[0]))
		}

		if len(accepted) > want {
			accepted = accepted[:want]
		}
		for i := range accepted {
			accepted[i].ID = fmt.Sprintf("seed_%d", i+1)
		}
		ideas = accepted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

// ensureSeedLength 字数不足时扩写一次，结果直接采用，不再校验
func (o *Orchestrator) ensureSeedLength(ctx context.Context, cand entity.SeedIdea) entity.SeedIdea {
	var shortfall *parse.ShortfallError
	if err := parse.ValidateSeedLength(cand.Summary, o.policy.SeedWordTarget); !errors.As(err, &shortfall) {
		return cand
	}

	metrics.SeedFollowUpTotal.WithLabelValues("expand").Inc()
	res, err := o.seeds.Expand(ctx, &wfmodel.SeedExpandInput{
		Summary:    cand.Summary,
		WordCount:  shortfall.Words,
		WordTarget: shortfall.Target,
	})
	if err != nil {
		logger.Warn(ctx, "seed expansion failed, keeping original summary", "error", err.Error(), "words", shortfall.Words)
		return cand
	}
	expanded := strings.TrimSpace(res.Content)
	if expanded == "" {
		return cand
	}
	cand.Summary = expanded
	cand.WordCount = entity.CountWords(expanded)
	cand.Expanded = true
	return cand
}

func storyContext(genre, style string, characters []entity.CharacterDetail, characterCount int, settings *entity.StorySettings) wfmodel.StoryContext {
	return wfmodel.StoryContext{
		Genre:          strings.TrimSpace(genre),
		WritingStyle:   strings.TrimSpace(style),
		Characters:     characters,
		CharacterCount: characterCount,
		Settings:       settings,
	}
}
