// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// StoryIDRequest 故事 ID 请求
type StoryIDRequest struct {
	StoryID string `uri:"sid" binding:"required"`
}

// BindStoryID 从 URI 绑定故事 ID
func BindStoryID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("sid"))
}

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则（进程级一次）
// trimmin=N：去掉首尾空白后至少 N 个字符。
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
			least, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= least
		})
	})
}
