package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mikeboe/pdf-chat/pkg/translate"
)

type echoCompleter struct{}

func (echoCompleter) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "translated: " + userPrompt, nil
}

func (echoCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	return errors.New("not used")
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, nil, translate.NewTranslator(echoCompleter{}, nil), t.TempDir())
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSelectedTextValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, nil, translate.NewTranslator(echoCompleter{}, nil), t.TempDir())
	r := gin.New()
	h.RegisterRoutes(r)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `{"text":"hello"}`,
			wantStatus:  http.StatusUnsupportedMediaType,
			wantCode:    "unsupported_media_type",
		},
		{
			name:        "empty text",
			contentType: "application/json",
			body:        `{"text":"   "}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "empty_text",
		},
		{
			name:        "text too long",
			contentType: "application/json",
			body:        `{"text":"` + strings.Repeat("a", translate.MaxTextLength+1) + `"}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "text_too_long",
		},
		{
			name:        "unsupported language",
			contentType: "application/json",
			body:        `{"text":"hello","target_lang":"fr"}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "unsupported_language",
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"text":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "invalid_json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/selected-text", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantCode) {
				t.Errorf("body = %s, want error code %q", w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestSelectedTextTranslates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, nil, translate.NewTranslator(echoCompleter{}, nil), t.TempDir())
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/selected-text", strings.NewReader(`{"text":"hello world","target_lang":"zh-TW"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "translated: hello world") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadScreenshotRejectsBadPayloads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	svc := NewService(nil, nil, dir, nil)
	h := NewHandler(svc, nil, nil, nil, translate.NewTranslator(echoCompleter{}, nil), dir)
	r := gin.New()
	h.RegisterRoutes(r)

	for name, body := range map[string]string{
		"empty image":    `{"image":""}`,
		"invalid base64": `{"image":"!!!not-base64!!!"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/upload-screenshot", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
