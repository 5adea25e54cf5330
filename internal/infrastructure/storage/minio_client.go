// Package storage 提供基于 MinIO 的对象存储实现
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-story-ai-api/internal/config"
	"z-story-ai-api/internal/domain/repository"
	"z-story-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("minio")

// Client MinIO 客户端
type Client struct {
	mc     *minio.Client
	config *config.MinIOConfig
}

var _ repository.ObjectStore = (*Client)(nil)

// NewClient 创建 MinIO 客户端，不在创建时探测连通性
func NewClient(cfg *config.MinIOConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Client{mc: mc, config: cfg}, nil
}

// BucketExists 检查存储桶是否存在
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ctx, span := c.start(ctx, "minio.BucketExists", bucket, "")
	start := time.Now()

	exists, err := c.mc.BucketExists(ctx, bucket)
	c.finish(span, "bucket_exists", start, err)
	return exists, err
}

// MakeBucket 创建存储桶
func (c *Client) MakeBucket(ctx context.Context, bucket string) error {
	ctx, span := c.start(ctx, "minio.MakeBucket", bucket, "")
	start := time.Now()

	err := c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region})
	c.finish(span, "make_bucket", start, err)
	return err
}

// PutObject 上传对象
func (c *Client) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	ctx, span := c.start(ctx, "minio.PutObject", bucket, key)
	span.SetAttributes(attribute.Int64("minio.size", size))
	start := time.Now()

	_, err := c.mc.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	c.finish(span, "put_object", start, err)
	return err
}

// PresignedGetObject 生成限时下载地址
func (c *Client) PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	ctx, span := c.start(ctx, "minio.PresignedGetObject", bucket, key)
	start := time.Now()

	u, err := c.mc.PresignedGetObject(ctx, bucket, key, expiry, nil)
	c.finish(span, "presign_get", start, err)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// HealthCheck 通过检查图片桶确认存储可达
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.BucketExists(ctx, c.config.ImageBucket); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (c *Client) start(ctx context.Context, name, bucket, key string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("minio.bucket", bucket)}
	if key != "" {
		attrs = append(attrs, attribute.String("minio.key", key))
	}
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func (c *Client) finish(span trace.Span, op string, start time.Time, err error) {
	metrics.StorageOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.StorageOperationTotal.WithLabelValues(op, metrics.StatusLabel(err)).Inc()
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
