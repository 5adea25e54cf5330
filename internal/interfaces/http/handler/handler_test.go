package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"z-story-ai-api/internal/application/image"
	"z-story-ai-api/internal/domain/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

type fakeContinuer struct {
	ContinueFunc func(ctx context.Context, req *entity.StoryContinuationRequest) *entity.StoryContinuationResponse
}

func (f *fakeContinuer) ContinueStory(ctx context.Context, req *entity.StoryContinuationRequest) *entity.StoryContinuationResponse {
	return f.ContinueFunc(ctx, req)
}

type fakeImageGenerator struct {
	GenerateFunc      func(ctx context.Context, req *image.GenerateRequest) (*image.Result, error)
	GenerateComfyFunc func(ctx context.Context, req *image.ComfyRequest) (*image.Result, error)
}

func (f *fakeImageGenerator) Generate(ctx context.Context, req *image.GenerateRequest) (*image.Result, error) {
	return f.GenerateFunc(ctx, req)
}

func (f *fakeImageGenerator) GenerateComfy(ctx context.Context, req *image.ComfyRequest) (*image.Result, error) {
	return f.GenerateComfyFunc(ctx, req)
}

type fakeReactions struct {
	ReactFunc func(ctx context.Context, sessionID, imageID string, reaction entity.ImageReaction) error
}

func (f *fakeReactions) React(ctx context.Context, sessionID, imageID string, reaction entity.ImageReaction) error {
	return f.ReactFunc(ctx, sessionID, imageID, reaction)
}

type fakeAudio struct {
	GenerateFunc func(ctx context.Context, text string) (*entity.AudioAsset, error)
}

func (f *fakeAudio) Generate(ctx context.Context, text string) (*entity.AudioAsset, error) {
	return f.GenerateFunc(ctx, text)
}

type fakeSessions struct {
	CreateFunc func(ctx context.Context) (*entity.StorySession, error)
	SaveFunc   func(ctx context.Context, id string, sess *entity.StorySession) (*entity.StorySession, error)
	GetFunc    func(ctx context.Context, id string) (*entity.StorySession, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (f *fakeSessions) Create(ctx context.Context) (*entity.StorySession, error) {
	return f.CreateFunc(ctx)
}

func (f *fakeSessions) Save(ctx context.Context, id string, sess *entity.StorySession) (*entity.StorySession, error) {
	return f.SaveFunc(ctx, id, sess)
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*entity.StorySession, error) {
	return f.GetFunc(ctx, id)
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	return f.DeleteFunc(ctx, id)
}

type fakeChecker struct {
	err error
}

func (f fakeChecker) HealthCheck(context.Context) error {
	return f.err
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, want, w.Body.String())
	}
}

