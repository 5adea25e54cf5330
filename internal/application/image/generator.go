package image

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"z-story-ai-api/internal/domain/entity"
	apperrors "z-story-ai-api/pkg/errors"
	"z-story-ai-api/pkg/logger"
	"z-story-ai-api/pkg/metrics"
	"z-story-ai-api/pkg/tracer"
)

const sourceProvider = "provider"

// Provider 外部图像生成服务，返回远程图片地址
type Provider interface {
	GenerateImages(ctx context.Context, prompt string) ([]string, error)
}

// Downloader 将远程图片写入 w
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) error
}

// GeneratorOptions 图像生成配置
type GeneratorOptions struct {
	MaxParallel int
	TempDir     string
}

// Generator 调用图像服务并把结果转存到对象存储
type Generator struct {
	provider    Provider
	downloader  Downloader
	uploader    *Uploader
	maxParallel int
	tempDir     string
}

// NewGenerator 创建图像生成器
func NewGenerator(provider Provider, downloader Downloader, uploader *Uploader, opts GeneratorOptions) *Generator {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 1
	}
	return &Generator{
		provider:    provider,
		downloader:  downloader,
		uploader:    uploader,
		maxParallel: opts.MaxParallel,
		tempDir:     opts.TempDir,
	}
}

// GenerateImages 生成图片并返回预签名地址，顺序与服务返回的顺序一致。
// 图像服务本身的失败直接返回；单张图片的下载或上传失败只记录日志并跳过。
func (g *Generator) GenerateImages(ctx context.Context, prompt entity.ImagePrompt) ([]string, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "image.generate")
	var err error
	defer func() {
		tracer.End(span, err)
		metrics.ImageGenerationDuration.WithLabelValues(sourceProvider).Observe(time.Since(start).Seconds())
	}()

	logger.Info(ctx, "generating image", "prompt_len", len(prompt.Positive))

	remote, err := g.provider.GenerateImages(ctx, prompt.Positive)
	if err != nil {
		err = apperrors.Wrap(err, apperrors.CodeImageProvider, "image generation failed")
		return nil, err
	}
	if len(remote) == 0 {
		err = apperrors.New(apperrors.CodeImageProvider, "invalid response from image api").WithDetail("no images returned")
		return nil, err
	}

	urls := g.processAll(ctx, remote)
	logger.Info(ctx, "processed generated images", "returned", len(remote), "stored", len(urls))
	return urls, nil
}

// processAll 并发处理每张图片，结果按原始下标收集以保持顺序
func (g *Generator) processAll(ctx context.Context, remote []string) []string {
	results := make([]string, len(remote))

	var eg errgroup.Group
	eg.SetLimit(g.maxParallel)
	for i, u := range remote {
		eg.Go(func() error {
			url, err := g.processOne(ctx, u)
			if err != nil {
				logger.Error(ctx, "failed to process generated image", err, "index", i)
				return nil
			}
			results[i] = url
			return nil
		})
	}
	_ = eg.Wait()

	urls := make([]string, 0, len(results))
	for _, u := range results {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// processOne 下载到临时文件、上传、删除临时文件；删除与成败无关
func (g *Generator) processOne(ctx context.Context, remoteURL string) (string, error) {
	f, err := os.CreateTemp(g.tempDir, "image-*.png")
	if err != nil {
		metrics.ImageProcessedTotal.WithLabelValues(sourceProvider, "download", "error").Inc()
		return "", apperrors.Wrap(err, apperrors.CodeImageGenFailed, "failed to create temporary file")
	}
	path := f.Name()
	defer removeFile(ctx, path)
	defer f.Close()

	if err := g.downloader.Download(ctx, remoteURL, f); err != nil {
		metrics.ImageProcessedTotal.WithLabelValues(sourceProvider, "download", "error").Inc()
		return "", apperrors.Wrap(err, apperrors.CodeImageProvider, "failed to download image")
	}
	if err := f.Close(); err != nil {
		metrics.ImageProcessedTotal.WithLabelValues(sourceProvider, "download", "error").Inc()
		return "", apperrors.Wrap(err, apperrors.CodeImageGenFailed, "failed to flush temporary file")
	}

	asset, err := g.uploader.UploadFile(ctx, path)
	if err != nil {
		metrics.ImageProcessedTotal.WithLabelValues(sourceProvider, "upload", "error").Inc()
		return "", err
	}
	metrics.ImageProcessedTotal.WithLabelValues(sourceProvider, "done", "success").Inc()
	return asset.URL, nil
}
