package parse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"narrative-ai-api/internal/domain/entity"
	wfnode "narrative-ai-api/internal/workflow/node"
	apperrors "narrative-ai-api/pkg/errors"
)

// OutlineDoc 解析后的大纲
type OutlineDoc struct {
	Title    string
	Chapters []entity.ChapterOutline
}

type outlinePayload struct {
	Title    string                  `json:"title"`
	Chapters []entity.ChapterOutline `json:"chapters"`
}

// Outline 解析大纲 JSON；容忍前后夹杂文本与代码块，不做修复
// 解码失败、章节为空、章节号非正或重复、摘要为空均返回 ParseError。
func Outline(raw string) (*OutlineDoc, error) {
	payload := wfnode.ExtractJSONObject(raw)
	if payload == "" {
		return nil, apperrors.ParseError(nil, "outline response is empty")
	}

	var doc outlinePayload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, apperrors.ParseError(err, "outline response is not valid json")
	}
	if len(doc.Chapters) == 0 {
		return nil, apperrors.ParseError(nil, "outline has no chapters")
	}

	seen := make(map[int]struct{}, len(doc.Chapters))
	chapters := make([]entity.ChapterOutline, 0, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		if ch.Number <= 0 {
			return nil, apperrors.ParseError(nil, "outline chapter number must be positive").WithDetail(fmt.Sprint(ch.Number))
		}
		if _, dup := seen[ch.Number]; dup {
			return nil, apperrors.ParseError(nil, "outline chapter number duplicated").WithDetail(fmt.Sprint(ch.Number))
		}
		seen[ch.Number] = struct{}{}

		ch.Title = strings.TrimSpace(ch.Title)
		ch.Summary = strings.TrimSpace(ch.Summary)
		if ch.Summary == "" {
			return nil, apperrors.ParseError(nil, "outline chapter summary is empty").WithDetail(fmt.Sprint(ch.Number))
		}
		if ch.Title == "" {
			ch.Title = fmt.Sprintf("Chapter %d", ch.Number)
		}
		chapters = append(chapters, ch)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })

	return &OutlineDoc{Title: strings.TrimSpace(doc.Title), Chapters: chapters}, nil
}
