package handler

import (
	"github.com/gin-gonic/gin"

	"narrative-ai-api/internal/interfaces/http/dto"
)

// bindJSON 绑定请求体，失败时直接写入 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindStoryID 读取路径中的故事 ID，缺失时写入 400
func bindStoryID(c *gin.Context) (string, bool) {
	storyID := dto.BindStoryID(c)
	if storyID == "" {
		dto.BadRequest(c, "story id is required")
		return "", false
	}
	return storyID, true
}
