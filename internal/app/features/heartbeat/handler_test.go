package heartbeat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/features/heartbeat"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeHeartbeat_RequiresAdmin(t *testing.T) {
	h := heartbeat.NewHandler(crudeditor.NewRegistry(time.Hour, nil), nil, zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeHeartbeat(rec, httptest.NewRequest(http.MethodPost, "/heartbeat", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestServeHeartbeat_ExtendsSessionPreviews(t *testing.T) {
	previews := imageprep.NewPreviewStore(time.Hour, zap.NewNop())
	admin := testutil.Admin()
	previews.Acquire(crudeditor.OwnerKey(admin.SessionID, "banners"), imageprep.Processed{Name: "a.jpg"})
	previews.Acquire(crudeditor.OwnerKey("someone-else", "banners"), imageprep.Processed{Name: "b.jpg"})

	h := heartbeat.NewHandler(crudeditor.NewRegistry(time.Hour, nil), previews, zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeHeartbeat(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/heartbeat", admin))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp struct {
		Editors  int `json:"editors"`
		Previews int `json:"previews"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Editors != 0 || resp.Previews != 1 {
		t.Errorf("response = %+v, want 0 editors and 1 preview", resp)
	}
}
