package parse

import (
	"fmt"
	"strings"

	"narrative-ai-api/internal/domain/entity"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
	apperrors "narrative-ai-api/pkg/errors"
)

// Chapter 首行为标题（去掉前导 #），其余为正文；正文为空返回 ParseError
func Chapter(number int, raw string) (*entity.Chapter, error) {
	title, body, err := Titled(raw, fmt.Sprintf("Chapter %d", number))
	if err != nil {
		return nil, err
	}
	return entity.NewChapter(number, title, body), nil
}

// Titled 拆分标题与正文；标题为空时使用 fallback
func Titled(raw, fallback string) (title, body string, err error) {
	text := strings.TrimSpace(raw)
	first, rest, _ := strings.Cut(text, "\n")

	title = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(first), workflowprompt.ChapterTitleMarker))
	title = strings.Trim(title, "*")
	title = strings.TrimSpace(title)
	if title == "" {
		title = fallback
	}
	body = strings.TrimSpace(rest)
	if body == "" {
		return "", "", apperrors.ParseError(nil, "generated text has no body")
	}
	return title, body, nil
}
