// Package tts 提供语音合成服务客户端
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-story-ai-api/internal/config"
	"z-story-ai-api/internal/domain/entity"
)

var tracer = otel.Tracer("tts")

// Client ElevenLabs 流式语音合成客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func NewClient(cfg *config.AudioConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize 请求流式合成，调用方负责关闭返回的音频流
func (c *Client) Synthesize(ctx context.Context, text string, voice entity.VoiceSettings) (io.ReadCloser, error) {
	ctx, span := tracer.Start(ctx, "tts.Synthesize",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("tts.voice_id", voice.VoiceID),
			attribute.String("tts.model_id", voice.ModelID),
			attribute.Int("tts.text_len", len(text)),
		))
	defer span.End()

	body, err := c.synthesize(ctx, text, voice)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return body, nil
}

func (c *Client) synthesize(ctx context.Context, text string, voice entity.VoiceSettings) (io.ReadCloser, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("tts base url is empty")
	}
	if voice.VoiceID == "" {
		return nil, fmt.Errorf("tts voice id is empty")
	}

	reqBody, err := json.Marshal(&speechRequest{
		Text:    text,
		ModelID: voice.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       voice.Stability,
			SimilarityBoost: voice.SimilarityBoost,
			Style:           voice.Style,
			UseSpeakerBoost: voice.UseSpeakerBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", c.baseURL, url.PathEscape(voice.VoiceID))
	if voice.OutputFormat != "" {
		endpoint += "?" + url.Values{"output_format": {voice.OutputFormat}}.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create tts request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	if c.apiKey != "" {
		httpReq.Header.Set("xi-api-key", c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return nil, fmt.Errorf("tts request failed: status=%d body=%s", httpResp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return httpResp.Body, nil
}
