package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/interfaces/http/dto"
)

// SessionStore 会话读写
type SessionStore interface {
	Create(ctx context.Context) (*entity.StorySession, error)
	Save(ctx context.Context, id string, sess *entity.StorySession) (*entity.StorySession, error)
	Get(ctx context.Context, id string) (*entity.StorySession, error)
	Delete(ctx context.Context, id string) error
}

// SessionHandler 故事会话处理器
type SessionHandler struct {
	store SessionStore
}

// NewSessionHandler 创建故事会话处理器
func NewSessionHandler(store SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

// CreateSession 创建会话
// @Summary 创建故事会话
// @Tags Sessions
// @Produce json
// @Success 201 {object} entity.StorySession
// @Router /api/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess, err := h.store.Create(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// GetSession 读取会话
// @Summary 读取故事会话
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} entity.StorySession
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/sessions/{sid} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.store.Get(c.Request.Context(), c.Param("sid"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// SaveSession 覆盖保存会话
// @Summary 保存故事会话
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SaveSessionRequest true "会话状态"
// @Success 200 {object} entity.StorySession
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/sessions/{sid} [put]
func (h *SessionHandler) SaveSession(c *gin.Context) {
	var req dto.SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.store.Save(c.Request.Context(), c.Param("sid"), req.ToEntity())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// DeleteSession 清除会话
// @Summary 清除故事会话
// @Tags Sessions
// @Param sid path string true "会话 ID"
// @Success 204
// @Router /api/sessions/{sid} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("sid")); err != nil {
		dto.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
