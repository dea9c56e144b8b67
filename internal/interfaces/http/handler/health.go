package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"narrative-ai-api/internal/domain/repository"
	"narrative-ai-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	stories repository.StoryRepository
	redis   *redis.Client
	version string
}

// NewHealthHandler 创建健康检查处理器；redisClient 仅在 redis 存储驱动下非空
func NewHealthHandler(stories repository.StoryRepository, redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{
		stories: stories,
		redis:   redisClient,
		version: version,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Stories   *int   `json:"stories,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"story_store": {Status: "unknown"},
	}
	ready := true

	// 故事存储（必需）
	if h.stories == nil {
		checks["story_store"].Status = "missing"
		checks["story_store"].Error = "story repository not configured"
		ready = false
	} else {
		start := time.Now()
		n, err := h.stories.Count(ctx)
		checks["story_store"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["story_store"].Status = "error"
			checks["story_store"].Error = err.Error()
			ready = false
		} else {
			checks["story_store"].Status = "ok"
			checks["story_store"].Stories = &n
		}
	}

	// Redis（仅 redis 驱动时检查）
	if h.redis != nil {
		check := &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		check.LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			check.Status = "error"
			check.Error = err.Error()
			ready = false
		} else {
			check.Status = "ok"
		}
		checks["redis"] = check
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
