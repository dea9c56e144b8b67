package wire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrative-ai-api/internal/config"
	"narrative-ai-api/internal/infrastructure/persistence/memory"
	apperrors "narrative-ai-api/pkg/errors"
)

func TestProvideStoryRepositoryDrivers(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	client, cleanup, err := ProvideRedisClient(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, client, "memory 驱动不应连接 redis")

	repo, err := ProvideStoryRepository(ctx, cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.StoryRepository{}, repo)

	cfg.Storage.Driver = "redis"
	_, err = ProvideStoryRepository(ctx, cfg, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfiguration))

	cfg.Storage.Driver = "sqlite"
	_, err = ProvideStoryRepository(ctx, cfg, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfiguration))
}

func TestInitializeAppWithMemoryStorage(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "narrative-ai-api-test"
	cfg.App.Env = "test"

	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, app.Engine())
}

func TestProvideImageGenerator(t *testing.T) {
	cfg := &config.Config{}
	assert.NotNil(t, ProvideImageGenerator(cfg))

	cfg.Image.Provider = "Gemini"
	assert.NotNil(t, ProvideImageGenerator(cfg))

	cfg.Image.Provider = "dall-e"
	assert.Nil(t, ProvideImageGenerator(cfg))
}
