package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"z-story-ai-api/internal/application/image"
	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/interfaces/http/dto"
	"z-story-ai-api/pkg/logger"
)

// ImageGenerator 图像生成能力
type ImageGenerator interface {
	Generate(ctx context.Context, req *image.GenerateRequest) (*image.Result, error)
	GenerateComfy(ctx context.Context, req *image.ComfyRequest) (*image.Result, error)
}

// ReactionRecorder 图片反馈记录
type ReactionRecorder interface {
	React(ctx context.Context, sessionID, imageID string, reaction entity.ImageReaction) error
}

// ImageHandler 图像处理器
type ImageHandler struct {
	generator ImageGenerator
	reactions ReactionRecorder
}

// NewImageHandler 创建图像处理器
func NewImageHandler(generator ImageGenerator, reactions ReactionRecorder) *ImageHandler {
	return &ImageHandler{generator: generator, reactions: reactions}
}

// Generate 生成故事配图
// @Summary 生成故事配图
// @Tags Image
// @Accept json
// @Produce json
// @Param body body dto.ImageGenerationRequest true "生成请求"
// @Success 200 {object} dto.ImageResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/image/generate [post]
func (h *ImageHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	logger.Info(ctx, "received image generation request", "history", len(req.History))
	res, err := h.generator.Generate(ctx, req.ToServiceRequest())
	if err != nil {
		dto.FromError(c, err)
		return
	}

	logger.Info(ctx, "generated image response", "images", len(res.URLs))
	c.JSON(http.StatusOK, dto.NewImageResponse(res))
}

// GenerateComfy 通过 ComfyUI 工作流生成配图
// @Summary 通过 ComfyUI 工作流生成配图
// @Tags Image
// @Accept json
// @Produce json
// @Param body body dto.ComfyWorkflowRequest true "工作流请求"
// @Success 200 {object} dto.ImageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/image/comfyui [post]
func (h *ImageHandler) GenerateComfy(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ComfyWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	logger.Info(ctx, "received comfy workflow request", "history", len(req.History))
	res, err := h.generator.GenerateComfy(ctx, req.ToServiceRequest())
	if err != nil {
		dto.FromError(c, err)
		return
	}

	logger.Info(ctx, "generated comfy image response", "urls", res.URLs)
	c.JSON(http.StatusOK, dto.NewImageResponse(res))
}

// React 记录图片反馈
func (h *ImageHandler) React(c *gin.Context) {
	var req dto.ImageReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.reactions.React(c.Request.Context(), req.SessionID, req.ImageID, entity.ImageReaction(req.Reaction)); err != nil {
		dto.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
