package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Downloader 通过 HTTP GET 下载远程图片
type Downloader struct {
	httpClient *http.Client
}

func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Downloader{httpClient: &http.Client{Timeout: timeout}}
}

// Download 将响应体写入 w，非 200 状态视为失败
func (d *Downloader) Download(ctx context.Context, url string, w io.Writer) error {
	ctx, span := tracer.Start(ctx, "imagegen.Download", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("failed to download image: %d", resp.StatusCode)
		span.RecordError(err)
		return err
	}

	n, err := io.Copy(w, resp.Body)
	span.SetAttributes(attribute.Int64("imagegen.bytes", n))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}
