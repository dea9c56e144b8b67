package story

import (
	"strings"

	"narrative-ai-api/internal/domain/entity"
)

// Continuity 章节生成所需的相邻章节上下文
type Continuity struct {
	PreviousTitle  string
	PreviousEnding string
	NextSummary    string
}

// MergeContinuity 调用方提供的非空值覆盖存储推导值
func MergeContinuity(stored, override Continuity) Continuity {
	return Continuity{
		PreviousTitle:  pick(override.PreviousTitle, stored.PreviousTitle),
		PreviousEnding: pick(override.PreviousEnding, stored.PreviousEnding),
		NextSummary:    pick(override.NextSummary, stored.NextSummary),
	}
}

// storedContinuity 从存储推导：上一章取 N-1 号章节的标题与结尾，下一章取记忆中 N+1 号摘要
func storedContinuity(story *entity.Story, memory *entity.StoryMemory, number, tailRunes int) Continuity {
	var c Continuity
	if prev := story.ChapterByNumber(number - 1); prev != nil {
		c.PreviousTitle = prev.Title
		c.PreviousEnding = prev.Tail(tailRunes)
	}
	if next, ok := memory.Summary(number + 1); ok {
		c.NextSummary = next
	}
	return c
}

func pick(override, stored string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	return stored
}
