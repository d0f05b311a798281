package previews_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/features/previews"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"go.uber.org/zap"
)

func TestServe_KnownHandle(t *testing.T) {
	store := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	data := []byte{0x89, 'P', 'N', 'G'}
	h := store.Acquire("sess/banners", imageprep.Processed{Name: "b.png", ContentType: "image/png", Data: data})

	router := previews.Routes(previews.NewHandler(store, zap.NewNop()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+string(h), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Error("body does not match preview data")
	}
}

func TestServe_ReleasedHandle(t *testing.T) {
	store := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	h := store.Acquire("sess/banners", imageprep.Processed{ContentType: "image/png", Data: []byte("x")})
	store.Release(h)

	router := previews.Routes(previews.NewHandler(store, zap.NewNop()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+string(h), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
