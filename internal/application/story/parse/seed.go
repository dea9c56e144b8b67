// Package parse 解析并校验模型输出
package parse

import (
	"fmt"
	"strings"

	"narrative-ai-api/internal/domain/entity"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
)

// ShortfallError 种子摘要字数不足，由扩写恢复，不对外暴露
type ShortfallError struct {
	Words  int
	Target int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("seed summary has %d words, target %d", e.Words, e.Target)
}

// SeedCandidates 按分隔行切分候选，缺少角色弧线标记或任一段为空的候选被丢弃
// 返回的候选未分配 ID。
func SeedCandidates(raw string) []entity.SeedIdea {
	blocks := splitOnDelimiterLines(raw)
	out := make([]entity.SeedIdea, 0, len(blocks))
	for _, block := range blocks {
		idea, ok := parseSeedBlock(block)
		if ok {
			out = append(out, idea)
		}
	}
	return out
}

// ValidateSeedLength 字数不足 target 时返回 *ShortfallError
func ValidateSeedLength(summary string, target int) error {
	words := entity.CountWords(summary)
	if words < target {
		return &ShortfallError{Words: words, Target: target}
	}
	return nil
}

func splitOnDelimiterLines(raw string) []string {
	var (
		blocks  []string
		current []string
	)
	flush := func() {
		if block := strings.TrimSpace(strings.Join(current, "\n")); block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == workflowprompt.CandidateDelimiter {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

func parseSeedBlock(block string) (entity.SeedIdea, bool) {
	idx := strings.Index(block, workflowprompt.CharacterArcsMarker)
	if idx < 0 {
		return entity.SeedIdea{}, false
	}
	// 弧线标记可能被 ** 加粗，两侧的星号不属于正文
	narrative := workflowprompt.StripSummaryHeaders(strings.TrimRight(block[:idx], "* \t\n"))
	arcs := strings.TrimSpace(strings.TrimLeft(block[idx+len(workflowprompt.CharacterArcsMarker):], "*: \t"))
	if narrative == "" || arcs == "" {
		return entity.SeedIdea{}, false
	}
	return entity.SeedIdea{
		Summary:       narrative,
		CharacterArcs: arcs,
		WordCount:     entity.CountWords(narrative),
	}, true
}
