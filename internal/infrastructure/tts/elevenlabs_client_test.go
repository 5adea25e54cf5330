package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"z-story-ai-api/internal/config"
	"z-story-ai-api/internal/domain/entity"
)

func TestClientSynthesize(t *testing.T) {
	var (
		gotPath, gotFormat, gotKey string
		gotReq                     speechRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("output_format")
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "audio/mpeg")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{"ID3", "chunk1", "chunk2"} {
			_, _ = w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewClient(&config.AudioConfig{BaseURL: srv.URL, APIKey: "xi-secret"})
	stream, err := c.Synthesize(context.Background(), "Hello there", entity.VoiceSettings{
		VoiceID:         "pNInz6obpgDQGcFmaJgB",
		ModelID:         "eleven_turbo_v2_5",
		OutputFormat:    "mp3_22050_32",
		SimilarityBoost: 1,
		UseSpeakerBoost: true,
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	defer stream.Close()

	body, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "ID3chunk1chunk2" {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/v1/text-to-speech/pNInz6obpgDQGcFmaJgB/stream" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFormat != "mp3_22050_32" || gotKey != "xi-secret" {
		t.Errorf("format = %q key = %q", gotFormat, gotKey)
	}
	want := speechRequest{
		Text:          "Hello there",
		ModelID:       "eleven_turbo_v2_5",
		VoiceSettings: voiceSettings{SimilarityBoost: 1, UseSpeakerBoost: true},
	}
	if gotReq != want {
		t.Errorf("request = %+v, want %+v", gotReq, want)
	}
}

func TestClientSynthesizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	c := NewClient(&config.AudioConfig{BaseURL: srv.URL})
	if _, err := c.Synthesize(context.Background(), "x", entity.VoiceSettings{VoiceID: "v"}); err == nil {
		t.Error("Synthesize() expected error")
	}
}
