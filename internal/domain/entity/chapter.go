// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// GenerationMetadata 生成元数据
type GenerationMetadata struct {
	Model            string  `json:"model,omitempty"`
	Provider         string  `json:"provider,omitempty"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	GeneratedAt      string  `json:"generated_at,omitempty"`
}

// Chapter 章节实体
type Chapter struct {
	Number             int                 `json:"number"`
	Title              string              `json:"title"`
	Content            string              `json:"content"`
	WordCount          int                 `json:"word_count"`
	GenerationMetadata *GenerationMetadata `json:"generation_metadata,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// NewChapter 创建章节，字数由正文推导
func NewChapter(number int, title, content string) *Chapter {
	return &Chapter{
		Number:    number,
		Title:     title,
		Content:   content,
		WordCount: CountWords(content),
		CreatedAt: time.Now(),
	}
}

// CountWords 按空白分词计数
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Tail 返回正文末尾最多 n 个字符（按 rune 截取）
func (c *Chapter) Tail(n int) string {
	if c == nil || n <= 0 {
		return ""
	}
	runes := []rune(c.Content)
	if len(runes) <= n {
		return c.Content
	}
	return string(runes[len(runes)-n:])
}

// Clone 深拷贝
func (c *Chapter) Clone() *Chapter {
	if c == nil {
		return nil
	}
	out := *c
	if c.GenerationMetadata != nil {
		meta := *c.GenerationMetadata
		out.GenerationMetadata = &meta
	}
	return &out
}
