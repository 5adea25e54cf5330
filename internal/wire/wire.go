//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"z-story-ai-api/internal/application/audio"
	"z-story-ai-api/internal/application/image"
	"z-story-ai-api/internal/application/session"
	"z-story-ai-api/internal/application/story"
	"z-story-ai-api/internal/config"
	"z-story-ai-api/internal/domain/repository"
	"z-story-ai-api/internal/infrastructure/llm"
	"z-story-ai-api/internal/infrastructure/persistence/redis"
	"z-story-ai-api/internal/infrastructure/storage"
	"z-story-ai-api/internal/interfaces/http/handler"
	"z-story-ai-api/internal/interfaces/http/middleware"
	"z-story-ai-api/internal/interfaces/http/router"
	"z-story-ai-api/internal/workflow/port"
	workflowprompt "z-story-ai-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		StorageSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideSessionRepository,
	redis.NewRateLimiter,
	wire.Bind(new(repository.SessionRepository), new(*redis.SessionRepository)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// StorageSet 对象存储提供者集合
var StorageSet = wire.NewSet(
	ProvideStorageClient,
	wire.Bind(new(repository.ObjectStore), new(*storage.Client)),
)

// LLMSet 模型调用提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	llm.NewStructuredGenerator,
	workflowprompt.NewRegistry,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	wire.Bind(new(port.StructuredGenerator), new(*llm.StructuredGenerator)),
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	ProvideContinuer,
	ProvidePromptDeriver,
	ProvideImageUploader,
	ProvideImageGenerator,
	ProvideComfyRunner,
	image.NewService,
	ProvideAudioGenerator,
	session.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewStoryHandler,
	handler.NewImageHandler,
	handler.NewAudioHandler,
	handler.NewSessionHandler,
	wire.Bind(new(handler.StoryContinuer), new(*story.Continuer)),
	wire.Bind(new(handler.ImageGenerator), new(*image.Service)),
	wire.Bind(new(handler.ReactionRecorder), new(*session.Service)),
	wire.Bind(new(handler.AudioGenerator), new(*audio.Generator)),
	wire.Bind(new(handler.SessionStore), new(*session.Service)),
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
