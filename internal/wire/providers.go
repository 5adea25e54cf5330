package wire

import (
	"context"

	"z-story-ai-api/internal/application/audio"
	"z-story-ai-api/internal/application/image"
	"z-story-ai-api/internal/application/story"
	"z-story-ai-api/internal/config"
	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/domain/repository"
	"z-story-ai-api/internal/infrastructure/imagegen"
	"z-story-ai-api/internal/infrastructure/persistence/redis"
	"z-story-ai-api/internal/infrastructure/storage"
	"z-story-ai-api/internal/infrastructure/tts"
	"z-story-ai-api/internal/interfaces/http/handler"
	"z-story-ai-api/internal/workflow/port"
	workflowprompt "z-story-ai-api/internal/workflow/prompt"
	"z-story-ai-api/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideSessionRepository 提供会话存储
func ProvideSessionRepository(client *redis.Client, cfg *config.Config) *redis.SessionRepository {
	return redis.NewSessionRepository(client, cfg.Session.KeyPrefix, cfg.Session.TTL)
}

// ProvideStorageClient 提供对象存储客户端
func ProvideStorageClient(cfg *config.Config) (*storage.Client, error) {
	return storage.NewClient(&cfg.Storage.MinIO)
}

// ProvideContinuer 提供故事续写器
func ProvideContinuer(gen port.StructuredGenerator, prompts *workflowprompt.Registry, cfg *config.Config) *story.Continuer {
	return story.NewContinuer(gen, prompts, story.Options{
		Provider:          cfg.Story.Provider,
		KeywordCategories: cfg.Story.KeywordCategories,
		MaxTokens:         cfg.Story.MaxTokens,
	})
}

// ProvidePromptDeriver 提供图像提示词推导器
func ProvidePromptDeriver(gen port.StructuredGenerator, prompts *workflowprompt.Registry, cfg *config.Config) *image.PromptDeriver {
	return image.NewPromptDeriver(gen, prompts, image.PromptOptions{
		Provider:  cfg.Story.Provider,
		MaxTokens: cfg.Story.ImagePromptMaxTokens,
	})
}

// ProvideImageUploader 提供图片上传器
func ProvideImageUploader(store repository.ObjectStore, cfg *config.Config) *image.Uploader {
	return image.NewUploader(store, cfg.Storage.MinIO.ImageBucket, cfg.Storage.MinIO.PresignExpiry)
}

// ProvideImageGenerator 提供图像生成器（fal 接口 + 下载 + 上传）
func ProvideImageGenerator(cfg *config.Config, uploader *image.Uploader) *image.Generator {
	return image.NewGenerator(
		imagegen.NewClient(&cfg.Image),
		imagegen.NewDownloader(cfg.Image.Timeout),
		uploader,
		image.GeneratorOptions{
			MaxParallel: cfg.Image.MaxParallel,
			TempDir:     cfg.Image.TempDir,
		},
	)
}

// ProvideComfyRunner 提供 ComfyUI 工作流执行器，未启用时返回 nil
func ProvideComfyRunner(ctx context.Context, cfg *config.Config, uploader *image.Uploader) *image.ComfyRunner {
	comfy := cfg.Image.Comfy
	if !comfy.Enabled {
		logger.Info(ctx, "comfy workflow generation disabled")
		return nil
	}
	return image.NewComfyRunner(image.ExecRunner{}, uploader, image.ComfyOptions{
		Command:   comfy.Command,
		Host:      comfy.Host,
		Port:      comfy.Port,
		OutputDir: comfy.OutputDir,
		TempDir:   cfg.Image.TempDir,
		Timeout:   comfy.Timeout,
	})
}

// ProvideAudioGenerator 提供语音生成器
func ProvideAudioGenerator(cfg *config.Config, store repository.ObjectStore) *audio.Generator {
	a := cfg.Audio
	return audio.NewGenerator(tts.NewClient(&cfg.Audio), store, audio.Options{
		Voice: entity.VoiceSettings{
			VoiceID:         a.VoiceID,
			ModelID:         a.ModelID,
			OutputFormat:    a.OutputFormat,
			Stability:       a.Stability,
			SimilarityBoost: a.SimilarityBoost,
			Style:           a.Style,
			UseSpeakerBoost: a.UseSpeakerBoost,
		},
		Bucket:        cfg.Storage.MinIO.AudioBucket,
		PresignExpiry: cfg.Storage.MinIO.AudioPresignExpiry,
	})
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, redisClient *redis.Client, storageClient *storage.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, redisClient, storageClient)
}
