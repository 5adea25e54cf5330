package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		redis      HealthChecker
		storage    HealthChecker
		wantStatus int
		wantBody   string
	}{
		{name: "all ok", redis: fakeChecker{}, storage: fakeChecker{}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "storage down", redis: fakeChecker{}, storage: fakeChecker{err: errors.New("bucket missing")}, wantStatus: http.StatusServiceUnavailable, wantBody: "not_ready"},
		{name: "redis missing", storage: fakeChecker{}, wantStatus: http.StatusServiceUnavailable, wantBody: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("test", tt.redis, tt.storage)
			engine := gin.New()
			engine.GET("/ready", h.Ready)

			w := performRequest(t, engine, http.MethodGet, "/ready", "")
			assertStatus(t, w, tt.wantStatus)

			var body struct {
				Status string `json:"status"`
			}
			decodeBody(t, w, &body)
			if body.Status != tt.wantBody {
				t.Errorf("status = %q, want %q", body.Status, tt.wantBody)
			}
		})
	}
}
