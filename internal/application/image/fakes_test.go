package image

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"z-story-ai-api/internal/workflow/port"
)

type fakeGenerator struct {
	GenerateFunc func(ctx context.Context, req *port.StructuredRequest, out any) error

	lastReq *port.StructuredRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req *port.StructuredRequest, out any) error {
	f.lastReq = req
	if f.GenerateFunc == nil {
		return errors.New("not configured")
	}
	return f.GenerateFunc(ctx, req, out)
}

type fakeProvider struct {
	urls []string
	err  error

	prompt string
}

func (f *fakeProvider) GenerateImages(ctx context.Context, prompt string) ([]string, error) {
	f.prompt = prompt
	return f.urls, f.err
}

// fakeDownloader 将 URL 本身写入文件，便于在上传时识别图片
type fakeDownloader struct {
	failURL string
}

func (f *fakeDownloader) Download(ctx context.Context, url string, w io.Writer) error {
	if url == f.failURL {
		return errors.New("status 404")
	}
	_, err := io.WriteString(w, url)
	return err
}

type putCall struct {
	bucket, key, contentType, body string
	size                            int64
}

type fakeStore struct {
	mu sync.Mutex

	// failBody 命中时 PutObject 返回错误
	failBody string
	exists   bool

	puts        []putCall
	madeBuckets []string
	calls       []string
}

func (s *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "exists")
	return s.exists, nil
}

func (s *fakeStore) MakeBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "make")
	s.madeBuckets = append(s.madeBuckets, bucket)
	return nil
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "put")
	if s.failBody != "" && string(body) == s.failBody {
		return errors.New("minio: access denied")
	}
	s.puts = append(s.puts, putCall{bucket: bucket, key: key, contentType: contentType, body: string(body), size: size})
	return nil
}

func (s *fakeStore) PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return "https://minio.local/" + bucket + "/" + key + "?sig", nil
}

func (s *fakeStore) keyFor(body string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.puts {
		if p.body == body {
			return p.key
		}
	}
	return ""
}
