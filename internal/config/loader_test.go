package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("STORY_TEST_KEY", "secret")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "已定义变量", in: "key: ${STORY_TEST_KEY}", want: "key: secret"},
		{name: "默认值", in: "key: ${STORY_TEST_MISSING:fallback}", want: "key: fallback"},
		{name: "空默认值", in: "key: ${STORY_TEST_MISSING:}", want: "key: "},
		{name: "未定义保留原样", in: "key: ${STORY_TEST_MISSING}", want: "key: ${STORY_TEST_MISSING}"},
		{name: "已定义优先于默认值", in: "${STORY_TEST_KEY:other}", want: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.in); got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.HTTP.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.HTTP.Port)
	}
	if cfg.Storage.MinIO.AudioBucket != "audio-files" {
		t.Errorf("audio bucket = %q", cfg.Storage.MinIO.AudioBucket)
	}
	if cfg.Storage.MinIO.AudioPresignExpiry != 7*24*time.Hour {
		t.Errorf("audio presign expiry = %v, want 168h", cfg.Storage.MinIO.AudioPresignExpiry)
	}
	want := []string{"action", "emotion", "object", "plot"}
	if len(cfg.Story.KeywordCategories) != len(want) {
		t.Fatalf("keyword categories = %v, want %v", cfg.Story.KeywordCategories, want)
	}
	for i := range want {
		if cfg.Story.KeywordCategories[i] != want[i] {
			t.Errorf("keyword categories[%d] = %q, want %q", i, cfg.Story.KeywordCategories[i], want[i])
		}
	}
	if cfg.Audio.VoiceID != "pNInz6obpgDQGcFmaJgB" {
		t.Errorf("voice id = %q", cfg.Audio.VoiceID)
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "staging")
	t.Setenv("STORY_TEST_BUCKET", "from-env")

	base := []byte(`
app:
  name: story-test
storage:
  minio:
    image_bucket: ${STORY_TEST_BUCKET:unused}
story:
  keyword_categories: [event, atmosphere]
`)
	staging := []byte(`
server:
  http:
    port: 9001
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), base, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.staging.yaml"), staging, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.App.Name != "story-test" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.Storage.MinIO.ImageBucket != "from-env" {
		t.Errorf("image bucket = %q, want from-env", cfg.Storage.MinIO.ImageBucket)
	}
	if cfg.Server.HTTP.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Server.HTTP.Port)
	}
	if len(cfg.Story.KeywordCategories) != 2 || cfg.Story.KeywordCategories[1] != "atmosphere" {
		t.Errorf("keyword categories = %v", cfg.Story.KeywordCategories)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Story.KeywordCategories = []string{"plot"}
	cfg.Image.MaxParallel = 1
	cfg.Storage.MinIO.ImageBucket = "i"
	cfg.Storage.MinIO.AudioBucket = "a"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.Story.KeywordCategories = nil
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for empty keyword categories")
	}
}
