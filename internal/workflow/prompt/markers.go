package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// DelimiterContractVersion 模板与解析器共享的结构标记版本
const DelimiterContractVersion = "v1"

const (
	// CandidateDelimiter 种子候选之间的分隔行
	CandidateDelimiter = "---"
	// SummaryHeaderPrefix 候选头，形如 [SUMMARY 1]
	SummaryHeaderPrefix = "[SUMMARY"
	// CharacterArcsMarker 角色弧线段落起始标记
	CharacterArcsMarker = "[CHARACTER ARCS]"
	// ChapterTitleMarker 章节首行标题前缀
	ChapterTitleMarker = "#"
)

// SummaryHeader 第 n 个候选的头部标记
func SummaryHeader(n int) string {
	return fmt.Sprintf("%s %d]", SummaryHeaderPrefix, n)
}

// summaryHeaderPattern 匹配候选头，允许行内出现或被 ** 加粗包裹
var summaryHeaderPattern = regexp.MustCompile(`\**\[SUMMARY\s*\d+\]\**`)

// StripSummaryHeaders 移除文本中任意位置的候选头
func StripSummaryHeaders(s string) string {
	return strings.TrimSpace(summaryHeaderPattern.ReplaceAllString(s, ""))
}

// ContractVars 注入模板的结构标记变量
func ContractVars() map[string]any {
	return map[string]any{
		"contract_version":      DelimiterContractVersion,
		"candidate_delimiter":   CandidateDelimiter,
		"character_arcs_marker": CharacterArcsMarker,
		"title_marker":          ChapterTitleMarker,
	}
}
