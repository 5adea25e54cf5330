// Package session 管理故事会话状态
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/domain/repository"
	apperrors "z-story-ai-api/pkg/errors"
	"z-story-ai-api/pkg/logger"
)

// Service 会话服务
type Service struct {
	repo repository.SessionRepository
	now  func() time.Time
}

// NewService 创建会话服务
func NewService(repo repository.SessionRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create 创建带默认设置的新会话
func (s *Service) Create(ctx context.Context) (*entity.StorySession, error) {
	sess := entity.NewStorySession(uuid.NewString())
	sess.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to create session")
	}
	logger.Info(logger.WithContext(ctx, logger.SessionIDKey, sess.ID), "story session created")
	return sess, nil
}

// Save 覆盖保存会话状态，ID 以路径参数为准
func (s *Service) Save(ctx context.Context, id string, sess *entity.StorySession) (*entity.StorySession, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "session state is required")
	}

	sess.ID = id
	sess.UpdatedAt = s.now().UTC()
	normalize(sess)

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to save session")
	}
	logger.Debug(logger.WithContext(ctx, logger.SessionIDKey, id), "story session saved",
		"chat_history", len(sess.ChatHistory),
		"image_history", len(sess.ImageHistory),
	)
	return sess, nil
}

// Get 读取会话并合并图片反馈
func (s *Service) Get(ctx context.Context, id string) (*entity.StorySession, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeSessionNotFound, "session not found").WithDetail(id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load session")
	}

	reactions, err := s.repo.Reactions(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load image reactions")
	}
	if len(reactions) > 0 {
		sess.Reactions = reactions
	}
	normalize(sess)
	return sess, nil
}

// Delete 清除会话，不存在时视为成功
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to delete session")
	}
	logger.Info(logger.WithContext(ctx, logger.SessionIDKey, id), "story session deleted")
	return nil
}

// React 记录对某张图片的反馈
func (s *Service) React(ctx context.Context, sessionID, imageID string, reaction entity.ImageReaction) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	if strings.TrimSpace(imageID) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "imageId is required")
	}
	if !reaction.Valid() {
		return apperrors.New(apperrors.CodeInvalidParam, "reaction must be one of like, dislike, style")
	}

	if err := s.repo.SetReaction(ctx, sessionID, imageID, reaction); err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to store image reaction")
	}
	logger.Info(logger.WithContext(ctx, logger.SessionIDKey, sessionID), "image reaction recorded", "image_id", imageID, "reaction", string(reaction))
	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "session id is required")
	}
	if strings.ContainsAny(id, ": \t\n") {
		return apperrors.New(apperrors.CodeInvalidParam, "session id contains invalid characters")
	}
	return nil
}

// normalize 将 nil 切片替换为空切片，保证 JSON 输出为 []
func normalize(sess *entity.StorySession) {
	if sess.ChatHistory == nil {
		sess.ChatHistory = []entity.Message{}
	}
	if sess.ImageHistory == nil {
		sess.ImageHistory = []entity.ImageHistoryEntry{}
	}
	if sess.Keywords == nil {
		sess.Keywords = []entity.Keyword{}
	}
	if sess.SelectedKeywords == nil {
		sess.SelectedKeywords = []string{}
	}
	if sess.ImageSettings.Mode == "" {
		sess.ImageSettings.Mode = entity.DefaultImageSettings().Mode
	}
}
