// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// envPattern 匹配 ${VAR} 或 ${VAR:default}
// g1: 变量名, g2: 默认值部分（含冒号）, g3: 默认值内容
var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 加载配置文件
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
// 配置目录由 CONFIG_DIR 指定，缺省为 configs
func Load() (*Config, error) {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}
	return LoadFrom(dir)
}

// LoadFrom 从指定目录加载配置；config.yaml 不存在时仅使用默认值与环境变量
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), true); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，后续文件走 MergeConfig
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
// 未定义且无默认值的变量保留原样，便于识别
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPattern.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if len(c.Story.KeywordCategories) == 0 {
		return fmt.Errorf("story.keyword_categories must not be empty")
	}
	if c.Image.MaxParallel <= 0 {
		return fmt.Errorf("image.max_parallel must be positive")
	}
	if c.Storage.MinIO.ImageBucket == "" || c.Storage.MinIO.AudioBucket == "" {
		return fmt.Errorf("storage.minio buckets must be set")
	}
	return nil
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "z-story-ai-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值（生成类接口耗时较长，写超时放宽）
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8000)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "300s")
	v.SetDefault("server.http.idle_timeout", "120s")

	// Redis 默认值
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// 对象存储默认值
	v.SetDefault("storage.minio.endpoint", "minio:9000")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.image_bucket", "image-files")
	v.SetDefault("storage.minio.audio_bucket", "audio-files")
	v.SetDefault("storage.minio.presign_expiry", "168h")
	v.SetDefault("storage.minio.audio_presign_expiry", "168h")

	// LLM 默认值
	v.SetDefault("llm.default_provider", "openai")

	// 故事续写默认值
	v.SetDefault("story.keyword_categories", []string{"action", "emotion", "object", "plot"})
	v.SetDefault("story.max_tokens", 4096)
	v.SetDefault("story.image_prompt_max_tokens", 1024)

	// 图像生成默认值
	v.SetDefault("image.base_url", "https://fal.run")
	v.SetDefault("image.model", "fal-ai/flux/schnell")
	v.SetDefault("image.timeout", "120s")
	v.SetDefault("image.max_parallel", 4)
	v.SetDefault("image.comfy.enabled", false)
	v.SetDefault("image.comfy.command", "comfy")
	v.SetDefault("image.comfy.host", "0.0.0.0")
	v.SetDefault("image.comfy.port", 8188)
	v.SetDefault("image.comfy.output_dir", "/workspace/ComfyUI/output")
	v.SetDefault("image.comfy.timeout", "1200s")

	// 语音合成默认值
	v.SetDefault("audio.base_url", "https://api.elevenlabs.io")
	v.SetDefault("audio.voice_id", "pNInz6obpgDQGcFmaJgB")
	v.SetDefault("audio.model_id", "eleven_turbo_v2_5")
	v.SetDefault("audio.output_format", "mp3_22050_32")
	v.SetDefault("audio.stability", 0.0)
	v.SetDefault("audio.similarity_boost", 1.0)
	v.SetDefault("audio.style", 0.0)
	v.SetDefault("audio.use_speaker_boost", true)
	v.SetDefault("audio.timeout", "60s")

	// 会话默认值
	v.SetDefault("session.key_prefix", "story:session")
	v.SetDefault("session.ttl", "720h")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests_per_second", 20)
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
}
