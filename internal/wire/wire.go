//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	appstory "narrative-ai-api/internal/application/story"
	"narrative-ai-api/internal/config"
	"narrative-ai-api/internal/infrastructure/llm"
	"narrative-ai-api/internal/interfaces/http/handler"
	"narrative-ai-api/internal/interfaces/http/router"
	workflowport "narrative-ai-api/internal/workflow/port"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StorageSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// StorageSet 故事存储提供者集合
var StorageSet = wire.NewSet(
	ProvideRedisClient,
	ProvideStoryRepository,
)

// GenerationSet 生成流水线提供者集合
var GenerationSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	ProvideImageGenerator,
	appstory.NewOrchestrator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewStoryHandler,
	ProvideHealthHandler,
	router.New,
)
