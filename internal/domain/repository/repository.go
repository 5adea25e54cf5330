// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"
	"io"
	"time"

	"z-story-ai-api/internal/domain/entity"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// SessionRepository 故事会话存储（外部键值存储）
type SessionRepository interface {
	Save(ctx context.Context, session *entity.StorySession) error
	Get(ctx context.Context, id string) (*entity.StorySession, error)
	Delete(ctx context.Context, id string) error
	SetReaction(ctx context.Context, sessionID, imageID string, reaction entity.ImageReaction) error
	Reactions(ctx context.Context, sessionID string) (map[string]entity.ImageReaction, error)
}

// ObjectStore 对象存储
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
