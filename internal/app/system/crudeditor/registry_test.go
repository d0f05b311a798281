package crudeditor

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/domain/models"
	"go.uber.org/zap"
)

type nopAPI struct{}

func (nopAPI) List(context.Context) ([]models.Banner, error) { return nil, nil }
func (nopAPI) Create(context.Context, apiclient.Payload) (models.Banner, error) {
	return models.Banner{}, nil
}
func (nopAPI) Update(context.Context, models.ID, apiclient.Payload) (models.Banner, error) {
	return models.Banner{}, nil
}
func (nopAPI) Remove(context.Context, models.ID) error       { return nil }
func (nopAPI) ToggleActive(context.Context, models.ID) error { return nil }

func builder(previews *imageprep.PreviewStore, built *int) func(string) *Editor[models.Banner] {
	return func(owner string) *Editor[models.Banner] {
		*built++
		return New(Options[models.Banner]{
			Resource: "banners",
			Owner:    owner,
			Schema:   Schema{Fields: []FieldSpec{{Name: "title"}}},
			API:      nopAPI{},
			Previews: previews,
			Logger:   zap.NewNop(),
		})
	}
}

func TestRegistry_GetOrCreateReusesLiveEditor(t *testing.T) {
	reg := NewRegistry(time.Hour, zap.NewNop())
	previews := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	built := 0

	a := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	b := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	if a != b || built != 1 {
		t.Fatalf("expected the same editor, built=%d", built)
	}

	other := GetOrCreate(reg, "s2", "banners", builder(previews, &built))
	if other == a {
		t.Error("sessions must not share editors")
	}

	a.Close()
	c := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	if c == a || built != 3 {
		t.Errorf("closed editor should be replaced, built=%d", built)
	}
}

func TestRegistry_CloseSession(t *testing.T) {
	reg := NewRegistry(time.Hour, zap.NewNop())
	previews := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	built := 0

	ed := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	GetOrCreate(reg, "s1", "gallery", builder(previews, &built))
	GetOrCreate(reg, "s2", "banners", builder(previews, &built))
	previews.Acquire(OwnerKey("s1", "banners"), imageprep.Processed{Name: "x.jpg"})

	if n := reg.CloseSession("s1"); n != 2 {
		t.Errorf("closed %d editors, want 2", n)
	}
	if !ed.Closed() {
		t.Error("editor should be closed")
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
	if previews.Len() != 0 {
		t.Errorf("previews = %d, want 0", previews.Len())
	}
}

func TestRegistry_SweepClosesIdleEditors(t *testing.T) {
	reg := NewRegistry(time.Hour, zap.NewNop())
	previews := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	built := 0

	idle := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	fresh := GetOrCreate(reg, "s2", "banners", builder(previews, &built))

	idle.mu.Lock()
	idle.lastUsed = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	if n := reg.Sweep(); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if !idle.Closed() || fresh.Closed() {
		t.Errorf("idle closed=%v fresh closed=%v", idle.Closed(), fresh.Closed())
	}
}

func TestRegistry_TouchKeepsEditorsAlive(t *testing.T) {
	reg := NewRegistry(time.Hour, zap.NewNop())
	previews := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	built := 0

	ed := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	ed.mu.Lock()
	ed.lastUsed = time.Now().Add(-2 * time.Hour)
	ed.mu.Unlock()

	if n := reg.Touch("s1"); n != 1 {
		t.Errorf("touched %d, want 1", n)
	}
	if n := reg.Touch("nobody"); n != 0 {
		t.Errorf("touched %d for an unknown session", n)
	}
	if n := reg.Sweep(); n != 0 {
		t.Errorf("swept %d after touch, want 0", n)
	}
	if ed.Closed() {
		t.Error("touched editor was closed")
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	reg := NewRegistry(time.Hour, zap.NewNop())
	previews := imageprep.NewPreviewStore(time.Minute, zap.NewNop())
	built := 0

	ed := GetOrCreate(reg, "s1", "banners", builder(previews, &built))
	GetOrCreate(reg, "s2", "banners", builder(previews, &built))

	if n := reg.CloseAll(); n != 2 {
		t.Errorf("CloseAll = %d, want 2", n)
	}
	if !ed.Closed() || reg.Len() != 0 {
		t.Errorf("closed=%v len=%d", ed.Closed(), reg.Len())
	}
}
