// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/interfaces/http/dto"
	"z-story-ai-api/pkg/logger"
)

// StoryContinuer 故事续写能力，失败时返回兜底结果而非错误
type StoryContinuer interface {
	ContinueStory(ctx context.Context, req *entity.StoryContinuationRequest) *entity.StoryContinuationResponse
}

// StoryHandler 故事续写处理器
type StoryHandler struct {
	continuer StoryContinuer
}

// NewStoryHandler 创建故事续写处理器
func NewStoryHandler(continuer StoryContinuer) *StoryHandler {
	return &StoryHandler{continuer: continuer}
}

// Chat 续写故事
// @Summary 续写故事
// @Description 根据历史对话与选中的关键词续写故事，结果中第一条为调用方本轮输入
// @Tags Story
// @Accept json
// @Produce json
// @Param body body dto.ChatRequest true "续写请求"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/chat [post]
func (h *StoryHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	logger.Info(ctx, "received chat request",
		"history", len(req.History),
		"selected_keywords", len(req.SelectedKeywords),
	)

	storyReq := req.ToEntity()
	resp := h.continuer.ContinueStory(ctx, storyReq)

	logger.Info(ctx, "generated chat response", "messages", len(resp.Messages), "keywords", len(resp.Keywords))
	c.JSON(http.StatusOK, dto.NewChatResponse(storyReq, resp))
}
