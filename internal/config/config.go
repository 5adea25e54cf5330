// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Story         StoryConfig         `yaml:"story" mapstructure:"story"`
	Image         ImageConfig         `yaml:"image" mapstructure:"image"`
	Audio         AudioConfig         `yaml:"audio" mapstructure:"audio"`
	Session       SessionConfig       `yaml:"session" mapstructure:"session"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	MinIO MinIOConfig `yaml:"minio" mapstructure:"minio"`
}

// MinIOConfig MinIO / S3 兼容存储配置
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	Region    string `yaml:"region" mapstructure:"region"`

	ImageBucket string `yaml:"image_bucket" mapstructure:"image_bucket"`
	AudioBucket string `yaml:"audio_bucket" mapstructure:"audio_bucket"`

	// PresignExpiry 图片预签名 URL 有效期
	PresignExpiry time.Duration `yaml:"presign_expiry" mapstructure:"presign_expiry"`
	// AudioPresignExpiry 音频预签名 URL 有效期
	AudioPresignExpiry time.Duration `yaml:"audio_presign_expiry" mapstructure:"audio_presign_expiry"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig LLM 提供商配置
type ProviderConfig struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// StoryConfig 故事续写配置
type StoryConfig struct {
	// Provider 为空时使用 llm.default_provider
	Provider string `yaml:"provider" mapstructure:"provider"`
	// KeywordCategories 关键词分类闭集
	KeywordCategories []string `yaml:"keyword_categories" mapstructure:"keyword_categories"`
	// MaxTokens 续写调用的最大输出
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	// ImagePromptMaxTokens 图像提示词调用的最大输出
	ImagePromptMaxTokens int `yaml:"image_prompt_max_tokens" mapstructure:"image_prompt_max_tokens"`
}

// ImageConfig 图像生成配置
type ImageConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxParallel int           `yaml:"max_parallel" mapstructure:"max_parallel"`
	TempDir     string        `yaml:"temp_dir" mapstructure:"temp_dir"`
	Comfy       ComfyConfig   `yaml:"comfy" mapstructure:"comfy"`
}

// ComfyConfig ComfyUI 工作流配置
type ComfyConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Command   string        `yaml:"command" mapstructure:"command"`
	Host      string        `yaml:"host" mapstructure:"host"`
	Port      int           `yaml:"port" mapstructure:"port"`
	OutputDir string        `yaml:"output_dir" mapstructure:"output_dir"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// AudioConfig 语音合成配置
type AudioConfig struct {
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey          string        `yaml:"api_key" mapstructure:"api_key"`
	VoiceID         string        `yaml:"voice_id" mapstructure:"voice_id"`
	ModelID         string        `yaml:"model_id" mapstructure:"model_id"`
	OutputFormat    string        `yaml:"output_format" mapstructure:"output_format"`
	Stability       float64       `yaml:"stability" mapstructure:"stability"`
	SimilarityBoost float64       `yaml:"similarity_boost" mapstructure:"similarity_boost"`
	Style           float64       `yaml:"style" mapstructure:"style"`
	UseSpeakerBoost bool          `yaml:"use_speaker_boost" mapstructure:"use_speaker_boost"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SessionConfig 故事会话存储配置
type SessionConfig struct {
	KeyPrefix string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
