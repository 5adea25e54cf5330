package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/interfaces/http/dto"
	"z-story-ai-api/pkg/logger"
)

// AudioGenerator 语音合成能力
type AudioGenerator interface {
	Generate(ctx context.Context, text string) (*entity.AudioAsset, error)
}

// AudioHandler 语音处理器
type AudioHandler struct {
	generator AudioGenerator
}

// NewAudioHandler 创建语音处理器
func NewAudioHandler(generator AudioGenerator) *AudioHandler {
	return &AudioHandler{generator: generator}
}

// Generate 将文本合成为语音
// @Summary 文本转语音
// @Tags Audio
// @Accept json
// @Produce json
// @Param body body dto.AudioGenerationRequest true "合成请求"
// @Success 200 {object} dto.AudioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/audio/generate [post]
func (h *AudioHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AudioGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	asset, err := h.generator.Generate(ctx, req.Text)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	logger.Info(ctx, "generated audio", "chars", len(req.Text))
	c.JSON(http.StatusOK, dto.AudioResponse{URL: asset.URL})
}
