package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"z-story-ai-api/internal/config"
)

func TestClientGenerateImages(t *testing.T) {
	var gotPath, gotAuth, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		_, _ = w.Write([]byte(`{"images":[{"url":"https://cdn/a.jpg","content_type":"image/jpeg"},{"url":"https://cdn/b.jpg"}],"seed":42}`))
	}))
	defer srv.Close()

	c := NewClient(&config.ImageConfig{BaseURL: srv.URL + "/", APIKey: "k-123", Model: "fal-ai/flux/schnell"})
	urls, err := c.GenerateImages(context.Background(), "a lighthouse")
	if err != nil {
		t.Fatalf("GenerateImages() error = %v", err)
	}
	if want := []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}; !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
	if gotPath != "/fal-ai/flux/schnell" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Key k-123" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotPrompt != "a lighthouse" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestClientGenerateImagesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "missing images", status: http.StatusOK, body: `{"detail":"queued"}`},
		{name: "empty images", status: http.StatusOK, body: `{"images":[]}`},
		{name: "server error", status: http.StatusUnprocessableEntity, body: `{"detail":"bad prompt"}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(&config.ImageConfig{BaseURL: srv.URL})
			if _, err := c.GenerateImages(context.Background(), "p"); err == nil {
				t.Error("GenerateImages() expected error")
			}
		})
	}
}

func TestDownloader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer srv.Close()

	d := NewDownloader(0)
	var buf bytes.Buffer
	if err := d.Download(context.Background(), srv.URL+"/img.png", &buf); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if buf.String() != "PNGDATA" {
		t.Errorf("body = %q", buf.String())
	}

	if err := d.Download(context.Background(), srv.URL+"/missing", &bytes.Buffer{}); err == nil {
		t.Error("Download() expected error for 404")
	}
}
