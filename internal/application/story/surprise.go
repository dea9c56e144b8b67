package story

import (
	"context"
	"strings"
	"time"

	"narrative-ai-api/internal/application/story/parse"
	"narrative-ai-api/internal/domain/entity"
	wfmodel "narrative-ai-api/internal/workflow/model"
	"narrative-ai-api/pkg/logger"
)

// 篇幅到目标字数的映射，未知篇幅按短篇处理
var surpriseLengthWords = map[string]int{
	"short":  1500,
	"medium": 3000,
	"long":   5000,
}

// GenerateSurpriseStory 一次调用生成完整短篇，结果不入库
func (o *Orchestrator) GenerateSurpriseStory(ctx context.Context, in SurpriseInput) (*SurpriseStory, error) {
	var out *SurpriseStory
	err := o.observe(ctx, "surprise", "", func(ctx context.Context) error {
		res, err := o.surprise.Invoke(ctx, &wfmodel.SurpriseGenerateInput{
			Category:       in.Category,
			StoryType:      in.StoryType,
			Length:         in.Length,
			Tone:           in.Tone,
			TargetAudience: in.TargetAudience,
			Prompt:         in.Prompt,
			TargetWords:    surpriseTargetWords(in.Length),
		})
		if err != nil {
			return err
		}

		title, body, err := parse.Titled(res.Content, "Untitled Story")
		if err != nil {
			return err
		}
		out = &SurpriseStory{
			Title:          title,
			Content:        body,
			WordCount:      entity.CountWords(body),
			Category:       in.Category,
			StoryType:      in.StoryType,
			Length:         in.Length,
			Tone:           in.Tone,
			TargetAudience: in.TargetAudience,
			CreatedAt:      time.Now(),
		}
		logger.Info(ctx, "surprise story generated", "title", title, "word_count", out.WordCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// surpriseTargetWords 接受 "short" 或 "Short Story" 等写法
func surpriseTargetWords(length string) int {
	key := strings.ToLower(strings.TrimSpace(length))
	key, _, _ = strings.Cut(key, " ")
	if words, ok := surpriseLengthWords[key]; ok {
		return words
	}
	return surpriseLengthWords["short"]
}
