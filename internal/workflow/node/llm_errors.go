package node

import (
	"context"
	"errors"
	"strings"
)

// responseFormatMarkers 任一组内关键词全部出现即视为提供商拒绝了结构化输出参数
var responseFormatMarkers = [][]string{
	{"response_format"},
	{"json_schema"},
	{"response_schema"},
	{"response_mime_type"},
	{"unknown parameter", "response"},
	{"unsupported", "structured output"},
}

// IsResponseFormatUnsupportedError 判断错误是否由 response_format/json_schema 不受支持引起
// 超时与取消不算，调用方不应借此重试。
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, group := range responseFormatMarkers {
		if containsAll(msg, group) {
			return true
		}
	}
	return false
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
