package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/domain/repository"
	"z-story-ai-api/pkg/metrics"
)

// SessionRepository 会话存储
// 会话状态以 JSON 存在 {prefix}:{id}，图片反馈存在哈希 {prefix}:{id}:reactions
type SessionRepository struct {
	client *Client
	prefix string
	ttl    time.Duration
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository 创建会话存储，ttl <= 0 表示不过期
func NewSessionRepository(client *Client, prefix string, ttl time.Duration) *SessionRepository {
	if prefix == "" {
		prefix = "story:session"
	}
	return &SessionRepository{client: client, prefix: prefix, ttl: ttl}
}

// Save 保存会话并刷新过期时间
func (r *SessionRepository) Save(ctx context.Context, s *entity.StorySession) (err error) {
	defer observe("save", &err)

	stored := *s
	stored.Reactions = nil
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.rdb.TxPipeline()
	pipe.Set(ctx, r.key(s.ID), data, r.ttl)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.reactionsKey(s.ID), r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Get 读取会话，不存在时返回 repository.ErrNotFound
func (r *SessionRepository) Get(ctx context.Context, id string) (_ *entity.StorySession, err error) {
	defer observe("get", &err)

	data, err := r.client.GetBytes(ctx, r.key(id))
	if err != nil {
		if IsNil(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var s entity.StorySession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	s.ID = id
	return &s, nil
}

// Delete 删除会话与其图片反馈
func (r *SessionRepository) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", &err)
	return r.client.Del(ctx, r.key(id), r.reactionsKey(id))
}

// SetReaction 写入单张图片的反馈
func (r *SessionRepository) SetReaction(ctx context.Context, sessionID, imageID string, reaction entity.ImageReaction) (err error) {
	defer observe("react", &err)

	ctx, span := tracer.Start(ctx, "redis.HSet",
		trace.WithAttributes(attribute.String("redis.key", r.reactionsKey(sessionID))))
	defer span.End()

	pipe := r.client.rdb.TxPipeline()
	pipe.HSet(ctx, r.reactionsKey(sessionID), imageID, string(reaction))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.reactionsKey(sessionID), r.ttl)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		span.RecordError(err)
	}
	return err
}

// Reactions 读取会话的全部图片反馈
func (r *SessionRepository) Reactions(ctx context.Context, sessionID string) (_ map[string]entity.ImageReaction, err error) {
	defer observe("reactions", &err)

	ctx, span := tracer.Start(ctx, "redis.HGetAll",
		trace.WithAttributes(attribute.String("redis.key", r.reactionsKey(sessionID))))
	defer span.End()

	raw, err := r.client.rdb.HGetAll(ctx, r.reactionsKey(sessionID)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make(map[string]entity.ImageReaction, len(raw))
	for k, v := range raw {
		out[k] = entity.ImageReaction(v)
	}
	return out, nil
}

func (r *SessionRepository) key(id string) string {
	return r.prefix + ":" + id
}

func (r *SessionRepository) reactionsKey(id string) string {
	return r.prefix + ":" + id + ":reactions"
}

func observe(op string, err *error) {
	status := metrics.StatusLabel(*err)
	if *err == repository.ErrNotFound {
		status = "not_found"
	}
	metrics.SessionOperationTotal.WithLabelValues(op, status).Inc()
}
