// Package audio 实现文本转语音并转存到对象存储
package audio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/domain/repository"
	apperrors "z-story-ai-api/pkg/errors"
	"z-story-ai-api/pkg/logger"
	"z-story-ai-api/pkg/metrics"
	"z-story-ai-api/pkg/tracer"
)

const contentType = "audio/mpeg"

// Synthesizer 外部语音合成服务，返回分块的音频流
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice entity.VoiceSettings) (io.ReadCloser, error)
}

// Options 音频生成配置
type Options struct {
	Voice         entity.VoiceSettings
	Bucket        string
	PresignExpiry time.Duration
}

// Generator 音频生成请求器，整个流程要么全部成功要么整体失败
type Generator struct {
	synth Synthesizer
	store repository.ObjectStore
	opts  Options
}

// NewGenerator 创建音频生成器
func NewGenerator(synth Synthesizer, store repository.ObjectStore, opts Options) *Generator {
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = 7 * 24 * time.Hour
	}
	return &Generator{synth: synth, store: store, opts: opts}
}

// Generate 合成语音，上传为 audio_{uuid}.mp3 并返回预签名地址
func (g *Generator) Generate(ctx context.Context, text string) (*entity.AudioAsset, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "text is required")
	}

	ctx, span := tracer.Start(ctx, "audio.generate")
	asset, err := g.generate(ctx, text)
	tracer.End(span, err)
	metrics.AudioGenerationTotal.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		logger.Error(ctx, "error generating audio", err, "text_len", len(text))
		return nil, apperrors.Wrap(err, apperrors.CodeAudioGenFailed, "audio generation failed")
	}
	return asset, nil
}

func (g *Generator) generate(ctx context.Context, text string) (*entity.AudioAsset, error) {
	stream, err := g.synth.Synthesize(ctx, text, g.opts.Voice)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	// 将流式分块拼接为单个缓冲区
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return nil, err
	}
	metrics.AudioBytes.Observe(float64(buf.Len()))

	if err := g.ensureBucket(ctx); err != nil {
		return nil, err
	}

	key := entity.NewAssetKey("audio", ".mp3")
	if err := g.store.PutObject(ctx, g.opts.Bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), contentType); err != nil {
		return nil, err
	}
	url, err := g.store.PresignedGetObject(ctx, g.opts.Bucket, key, g.opts.PresignExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "generated audio", "bucket", g.opts.Bucket, "key", key, "size", buf.Len())
	return &entity.AudioAsset{URL: url}, nil
}

func (g *Generator) ensureBucket(ctx context.Context) error {
	exists, err := g.store.BucketExists(ctx, g.opts.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	logger.Info(ctx, "creating audio bucket", "bucket", g.opts.Bucket)
	return g.store.MakeBucket(ctx, g.opts.Bucket)
}
