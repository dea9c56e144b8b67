package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "narrative-ai-api/internal/workflow/model"
	wfnode "narrative-ai-api/internal/workflow/node"
)

// SeedIdeas 种子创意阶段消息
func (r *Registry) SeedIdeas(ctx context.Context, in *wfmodel.SeedIdeasInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	count := in.CandidateCount
	if count <= 0 {
		count = 3
	}
	numbers := make([]int, count)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return r.Format(ctx, PromptSeedIdeasV1, map[string]any{
		"candidate_count":   count,
		"candidate_numbers": numbers,
		"genre":             strings.TrimSpace(in.Story.Genre),
		"idea":              strings.TrimSpace(in.Idea),
		"writing_style":     strings.TrimSpace(in.Story.WritingStyle),
		"target_chapters":   in.TargetChapters,
		"word_target":       in.WordTarget,
		"character_block":   wfnode.BuildCharacterBlock(in.Story.Characters, in.Story.CharacterCount),
		"settings_block":    wfnode.BuildSettingsBlock(in.Story.Settings),
	})
}

// SeedExpand 扩写阶段消息
func (r *Registry) SeedExpand(ctx context.Context, in *wfmodel.SeedExpandInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return r.Format(ctx, PromptSeedExpandV1, map[string]any{
		"summary":     strings.TrimSpace(in.Summary),
		"word_count":  in.WordCount,
		"word_target": in.WordTarget,
	})
}

// SeedFill 补齐阶段消息
func (r *Registry) SeedFill(ctx context.Context, in *wfmodel.SeedFillInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	previous := make([]string, 0, len(in.Previous))
	for i, p := range in.Previous {
		previous = append(previous, fmt.Sprintf("%d. %s", i+1, wfnode.TruncateByRunes(strings.TrimSpace(p), 400)))
	}
	return r.Format(ctx, PromptSeedFillV1, map[string]any{
		"genre":              strings.TrimSpace(in.Story.Genre),
		"idea":               strings.TrimSpace(in.Idea),
		"writing_style":      strings.TrimSpace(in.Story.WritingStyle),
		"word_target":        in.WordTarget,
		"previous_summaries": strings.Join(previous, "\n"),
	})
}

// Outline 大纲阶段消息
func (r *Registry) Outline(ctx context.Context, in *wfmodel.OutlineGenerateInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	summaryWords := in.SummaryWords
	if summaryWords <= 0 {
		summaryWords = 250
	}
	characterBlock := ""
	if len(in.Story.Characters) > 0 {
		characterBlock = wfnode.BuildCharacterBlock(in.Story.Characters, 0)
	}
	return r.Format(ctx, PromptOutlineV1, map[string]any{
		"seed_summary":    strings.TrimSpace(in.SeedSummary),
		"genre":           strings.TrimSpace(in.Story.Genre),
		"writing_style":   strings.TrimSpace(in.Story.WritingStyle),
		"target_chapters": in.TargetChapters,
		"title":           strings.TrimSpace(in.Title),
		"summary_words":   summaryWords,
		"character_block": characterBlock,
		"settings_block":  wfnode.BuildSettingsBlock(in.Story.Settings),
	})
}

// Chapter 章节阶段消息
func (r *Registry) Chapter(ctx context.Context, in *wfmodel.ChapterGenerateInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	characterBlock := ""
	if len(in.Story.Characters) > 0 {
		characterBlock = wfnode.BuildCharacterBlock(in.Story.Characters, 0)
	}
	return r.Format(ctx, PromptChapterV1, map[string]any{
		"story_title":     strings.TrimSpace(in.StoryTitle),
		"genre":           strings.TrimSpace(in.Story.Genre),
		"writing_style":   strings.TrimSpace(in.Story.WritingStyle),
		"chapter_number":  in.ChapterNumber,
		"chapter_summary": strings.TrimSpace(in.ChapterSummary),
		"previous_title":  strings.TrimSpace(in.PreviousTitle),
		"previous_ending": strings.TrimSpace(in.PreviousEnding),
		"next_summary":    strings.TrimSpace(in.NextSummary),
		"is_first":        in.IsFirst,
		"is_final":        in.IsFinal,
		"target_length":   in.TargetWordCount,
		"character_block": characterBlock,
		"settings_block":  wfnode.BuildSettingsBlock(in.Story.Settings),
	})
}

// Surprise 一次性短篇消息
func (r *Registry) Surprise(ctx context.Context, in *wfmodel.SurpriseGenerateInput) ([]*schema.Message, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		prompt = fmt.Sprintf("Generate a %s %s story with a %s tone for %s.",
			strings.ToLower(in.Length), strings.ToLower(in.StoryType), strings.ToLower(in.Tone), strings.ToLower(in.TargetAudience))
	}
	return r.Format(ctx, PromptSurpriseV1, map[string]any{
		"prompt":          prompt,
		"category":        strings.TrimSpace(in.Category),
		"story_type":      strings.TrimSpace(in.StoryType),
		"length":          strings.TrimSpace(in.Length),
		"tone":            strings.TrimSpace(in.Tone),
		"target_audience": strings.TrimSpace(in.TargetAudience),
		"target_words":    in.TargetWords,
	})
}

// CoverPrompt 封面图像提示词
func (r *Registry) CoverPrompt(ctx context.Context, in *wfmodel.CoverPromptInput) (string, error) {
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	return r.Render(ctx, PromptCoverV1, map[string]any{
		"title":   strings.TrimSpace(in.Title),
		"genre":   strings.TrimSpace(in.Genre),
		"premise": strings.TrimSpace(in.Premise),
		"setting": strings.TrimSpace(in.Setting),
	})
}
