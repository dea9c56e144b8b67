package story

import (
	"context"
	"strings"

	"narrative-ai-api/internal/domain/entity"
	wfmodel "narrative-ai-api/internal/workflow/model"
	wfnode "narrative-ai-api/internal/workflow/node"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
)

const coverPremiseRunes = 600

// GenerateCover 生成封面；未提供提示词时按故事标题、类型、梗概与设定生成
func (o *Orchestrator) GenerateCover(ctx context.Context, in CoverInput) (*CoverImage, error) {
	if o.images == nil {
		return nil, apperrors.ConfigurationError("image generator not configured")
	}

	var cover *CoverImage
	err := o.observe(ctx, "cover", in.StoryID, func(ctx context.Context) error {
		story, err := o.repo.Get(ctx, in.StoryID)
		if err != nil {
			return err
		}

		prompt := strings.TrimSpace(in.Prompt)
		if prompt == "" {
			memory, err := o.repo.Memory(ctx, in.StoryID)
			if err != nil {
				return err
			}
			prompt, err = o.prompts.CoverPrompt(ctx, &wfmodel.CoverPromptInput{
				Title:   story.Title,
				Genre:   story.Genre,
				Premise: coverPremise(story, memory),
				Setting: storySetting(story),
			})
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeInternalError, "render cover prompt")
			}
		}

		img, err := o.images.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		logger.Info(ctx, "cover generated", "mime_type", img.MimeType, "bytes", len(img.Data), "model", img.Model)

		cover = &CoverImage{
			StoryID:  story.ID,
			Prompt:   prompt,
			MimeType: img.MimeType,
			Data:     img.Data,
			Model:    img.Model,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cover, nil
}

// BuildDocument 组装文档渲染所需的结构化内容；coverDataURL 可为空
func (o *Orchestrator) BuildDocument(ctx context.Context, storyID, coverDataURL string) (*DocumentPayload, error) {
	view, err := o.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	story := view.Story

	doc := &DocumentPayload{
		Title:          story.Title,
		Genre:          story.Genre,
		Setting:        storySetting(story),
		Chapters:       make([]DocumentChapter, 0, len(story.Chapters)),
		CoverImage:     strings.TrimSpace(coverDataURL),
		TotalWordCount: story.TotalWordCount(),
	}
	for _, ch := range story.ChaptersInOrder() {
		summary, _ := view.Memory.Summary(ch.Number)
		doc.Chapters = append(doc.Chapters, DocumentChapter{
			Number:    ch.Number,
			Title:     ch.Title,
			Content:   ch.Content,
			Summary:   summary,
			WordCount: ch.WordCount,
		})
	}
	if len(story.Characters) > 0 {
		doc.Characters = make(map[string]string, len(story.Characters))
		for _, c := range story.Characters {
			doc.Characters[c.Name] = c.Description
		}
	}
	return doc, nil
}

// coverPremise 优先使用第一章摘要，其次种子梗概
func coverPremise(story *entity.Story, memory *entity.StoryMemory) string {
	if s, ok := memory.Summary(1); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return wfnode.TruncateByRunes(strings.TrimSpace(story.SeedSummary), coverPremiseRunes)
}

func storySetting(story *entity.Story) string {
	if story.Settings == nil {
		return ""
	}
	return wfnode.FirstSentence(story.Settings.SettingDescription)
}
