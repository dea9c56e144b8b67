package wire

import (
	"context"
	"strings"

	"narrative-ai-api/internal/config"
	"narrative-ai-api/internal/domain/repository"
	"narrative-ai-api/internal/infrastructure/image"
	"narrative-ai-api/internal/infrastructure/persistence/memory"
	"narrative-ai-api/internal/infrastructure/persistence/redis"
	"narrative-ai-api/internal/interfaces/http/handler"
	workflowport "narrative-ai-api/internal/workflow/port"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/logger"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"

	ImageProviderGemini = "gemini"
)

func storageDriver(cfg *config.Config) string {
	d := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if d == "" {
		return StorageDriverMemory
	}
	return d
}

// ProvideRedisClient 提供 Redis 客户端；非 redis 存储驱动时返回 nil
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if storageDriver(cfg) != StorageDriverRedis {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideStoryRepository 按存储驱动选择故事仓储实现
func ProvideStoryRepository(ctx context.Context, cfg *config.Config, client *redis.Client) (repository.StoryRepository, error) {
	switch d := storageDriver(cfg); d {
	case StorageDriverMemory:
		logger.Info(ctx, "story storage: memory")
		return memory.NewStoryRepository(), nil
	case StorageDriverRedis:
		if client == nil {
			return nil, apperrors.ConfigurationError("redis client not configured")
		}
		logger.Info(ctx, "story storage: redis", "prefix", cfg.Storage.KeyPrefix, "ttl", cfg.Storage.TTL.String())
		return redis.NewStoryRepository(client, cfg.Storage.KeyPrefix, cfg.Storage.TTL), nil
	default:
		return nil, apperrors.ConfigurationError("unknown storage driver").WithDetail(d)
	}
}

// ProvideImageGenerator 提供图像生成器；未知提供商时返回 nil，封面接口将报配置错误
func ProvideImageGenerator(cfg *config.Config) workflowport.ImageGenerator {
	switch p := strings.ToLower(strings.TrimSpace(cfg.Image.Provider)); p {
	case "", ImageProviderGemini:
		return image.NewGeminiClient(cfg)
	default:
		logger.Warn(context.Background(), "image generation disabled: unknown provider", "provider", p)
		return nil
	}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, stories repository.StoryRepository, client *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(stories, client, cfg.App.Version)
}
