// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"narrative-ai-api/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, storyHandler *handler.StoryHandler) {
	stories := v1.Group("/stories")
	{
		stories.POST("", storyHandler.CreateStory)
		stories.POST("/seed-ideas", storyHandler.GenerateSeedIdeas)
		stories.POST("/outline", storyHandler.CreateDetailedOutline)
		stories.POST("/surprise", storyHandler.GenerateSurpriseStory)

		stories.GET("/:sid", storyHandler.GetStory)
		stories.POST("/:sid/outline", storyHandler.StoreOutline)
		stories.POST("/:sid/chapters/generate", storyHandler.GenerateChapter)
		stories.PUT("/:sid/complete", storyHandler.SetComplete)
		stories.POST("/:sid/cover", storyHandler.GenerateCover)
		stories.POST("/:sid/document", storyHandler.BuildDocument)
	}
}
