// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	appstory "narrative-ai-api/internal/application/story"
	"narrative-ai-api/internal/domain/entity"
	"narrative-ai-api/internal/interfaces/http/dto"
)

// StoryHandler 故事流水线处理器
type StoryHandler struct {
	orchestrator *appstory.Orchestrator
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(orchestrator *appstory.Orchestrator) *StoryHandler {
	return &StoryHandler{orchestrator: orchestrator}
}

// CreateStory 创建空故事
// @Summary 创建故事
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.CreateStoryRequest true "故事信息"
// @Success 201 {object} dto.Response[dto.StoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/stories [post]
func (h *StoryHandler) CreateStory(c *gin.Context) {
	var req dto.CreateStoryRequest
	if !bindJSON(c, &req) {
		return
	}

	story, err := h.orchestrator.CreateStory(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.AppError(c, err, "failed to create story")
		return
	}
	dto.Created(c, dto.ToStoryResponse(story, nil, entity.StoryStatusCreated))
}

// GenerateSeedIdeas 生成三个种子创意
// @Summary 生成种子创意
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.SeedIdeasRequest true "创意参数"
// @Success 200 {object} dto.Response[dto.SeedIdeasResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/stories/seed-ideas [post]
func (h *StoryHandler) GenerateSeedIdeas(c *gin.Context) {
	var req dto.SeedIdeasRequest
	if !bindJSON(c, &req) {
		return
	}

	ideas, err := h.orchestrator.GenerateSeedIdeas(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.AppError(c, err, "failed to generate seed ideas")
		return
	}
	dto.Success(c, dto.ToSeedIdeasResponse(ideas))
}

// CreateDetailedOutline 生成大纲并创建故事
// @Summary 生成详细大纲
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.OutlineRequest true "大纲参数"
// @Success 201 {object} dto.Response[dto.OutlineResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/stories/outline [post]
func (h *StoryHandler) CreateDetailedOutline(c *gin.Context) {
	var req dto.OutlineRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.orchestrator.CreateDetailedOutline(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.AppError(c, err, "failed to create outline")
		return
	}
	dto.Created(c, dto.ToOutlineResponse(res))
}

// StoreOutline 为已有故事写入大纲摘要
// @Summary 写入大纲
// @Tags Stories
// @Accept json
// @Produce json
// @Param sid path string true "故事 ID"
// @Param body body dto.StoreOutlineRequest true "大纲"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{sid}/outline [post]
func (h *StoryHandler) StoreOutline(c *gin.Context) {
	storyID, ok := bindStoryID(c)
	if !ok {
		return
	}
	var req dto.StoreOutlineRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.orchestrator.StoreOutline(ctx, storyID, req.ToOutlines()); err != nil {
		dto.AppError(c, err, "failed to store outline")
		return
	}
	h.respondStory(c, storyID)
}

// GenerateChapter 生成单章
// @Summary 生成章节
// @Tags Stories
// @Accept json
// @Produce json
// @Param sid path string true "故事 ID"
// @Param body body dto.GenerateChapterRequest true "章节参数"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/stories/{sid}/chapters/generate [post]
func (h *StoryHandler) GenerateChapter(c *gin.Context) {
	storyID, ok := bindStoryID(c)
	if !ok {
		return
	}
	var req dto.GenerateChapterRequest
	if !bindJSON(c, &req) {
		return
	}

	chapter, err := h.orchestrator.GenerateChapter(c.Request.Context(), req.ToInput(storyID))
	if err != nil {
		dto.AppError(c, err, "failed to generate chapter")
		return
	}
	dto.Success(c, dto.ToChapterResponse(chapter))
}

// GetStory 获取故事详情
// @Summary 获取故事
// @Tags Stories
// @Produce json
// @Param sid path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{sid} [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	storyID, ok := bindStoryID(c)
	if !ok {
		return
	}
	h.respondStory(c, storyID)
}

// SetComplete 设置完成标记
// @Summary 设置完成标记
// @Tags Stories
// @Accept json
// @Produce json
// @Param sid path string true "故事 ID"
// @Param body body dto.SetCompleteRequest true "完成标记"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Router /v1/stories/{sid}/complete [put]
func (h *StoryHandler) SetComplete(c *gin.Context) {
	storyID, ok := bindStoryID(c)
	if !ok {
		return
	}
	var req dto.SetCompleteRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.orchestrator.SetComplete(c.Request.Context(), storyID, *req.IsComplete); err != nil {
		dto.AppError(c, err, "failed to update story")
		return
	}
	h.respondStory(c, storyID)
}

// GenerateCover 生成封面
// @Summary 生成封面
// @Tags Stories
// @Accept json
// @Produce json
// @Param sid path string true "故事 ID"
// @Param body body dto.CoverRequest false "自定义提示词"
// @Success 200 {object} dto.Response[dto.CoverResponse]
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/stories/{sid}/cover [post]
func (h *StoryHandler) GenerateCover(c *gin.Context) {
	storyID, ok := bindStoryID(c)
	if !ok {
		return
	}
	var req dto.CoverRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	img, err := h.orchestrator.GenerateCover(c.Request.Context(), appstory.CoverInput{StoryID: storyID, Prompt: req.Prompt})
	if err != nil {
		dto.AppError(c, err, "failed to generate cover")
		return
	}
	dto.Success(c, dto.ToCoverResponse(img))
}

// BuildDocument 返回文档渲染所需内容
// @Summary 文档内容
// @Tags Stories
// @Accept json
// @Produce json
// @Param sid path string true "故事 ID"
// @Param body body dto.DocumentRequest false "封面 data URL"
// @Success 200 {object} dto.Response[appstory.DocumentPayload]
// @Router /v1/stories/{sid}/document [post]
func (h *StoryHandler) BuildDocument(c *gin.Context) {
	storyID, ok := bindStoryID(c)
	if !ok {
		return
	}
	var req dto.DocumentRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	doc, err := h.orchestrator.BuildDocument(c.Request.Context(), storyID, req.CoverImage)
	if err != nil {
		dto.AppError(c, err, "failed to build document")
		return
	}
	dto.Success(c, doc)
}

// GenerateSurpriseStory 一次性短篇
// @Summary 随机短篇
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.SurpriseRequest true "短篇参数"
// @Success 200 {object} dto.Response[dto.SurpriseResponse]
// @Router /v1/stories/surprise [post]
func (h *StoryHandler) GenerateSurpriseStory(c *gin.Context) {
	var req dto.SurpriseRequest
	if !bindJSON(c, &req) {
		return
	}

	story, err := h.orchestrator.GenerateSurpriseStory(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.AppError(c, err, "failed to generate story")
		return
	}
	dto.Success(c, dto.ToSurpriseResponse(story))
}

func (h *StoryHandler) respondStory(c *gin.Context, storyID string) {
	view, err := h.orchestrator.GetStory(c.Request.Context(), storyID)
	if err != nil {
		dto.AppError(c, err, "failed to get story")
		return
	}
	dto.Success(c, dto.ToStoryResponse(view.Story, view.Memory, view.Status))
}
