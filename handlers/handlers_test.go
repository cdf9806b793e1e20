package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simratima/VidStegX/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(service.NewSteganographyService(), service.NewVideoService())

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/health", h.HealthHandler)
	v1.POST("/capacity", h.CalculateCapacityHandler)
	v1.POST("/embed", h.EmbedHandler)
	v1.POST("/extract", h.ExtractHandler)
	return r
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
}

func TestCapacityHandlerMissingFile(t *testing.T) {
	r := newTestRouter()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/capacity", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEmbedHandlerValidation(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name   string
		fields map[string]string
		file   bool
	}{
		{"missing_video", map[string]string{"message": "m", "key": "validkey"}, false},
		{"missing_message", map[string]string{"key": "validkey"}, true},
		{"missing_key", map[string]string{"message": "m"}, true},
		{"key_too_short", map[string]string{"message": "m", "key": "abc"}, true},
		{"key_too_long", map[string]string{"message": "m", "key": strings.Repeat("k", 33)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			if tc.file {
				fw, err := mw.CreateFormFile("video", "cover.mkv")
				if err != nil {
					t.Fatalf("CreateFormFile failed: %v", err)
				}
				fw.Write([]byte("stub"))
			}
			for k, v := range tc.fields {
				mw.WriteField(k, v)
			}
			mw.Close()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/embed", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestExtractHandlerMissingKey(t *testing.T) {
	r := newTestRouter()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("stego_video", "stego.mkv")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	fw.Write([]byte("stub"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
