// internal/app/system/imageprep/preview.go
package imageprep

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPreviewTTL bounds how long an unreleased preview stays in memory.
const DefaultPreviewTTL = 30 * time.Minute

// Handle identifies a preview held by a PreviewStore.
type Handle string

// URL is the path the previews feature serves the handle at.
func (h Handle) URL() string {
	if h == "" {
		return ""
	}
	return "/previews/" + string(h)
}

type preview struct {
	owner   string
	img     Processed
	expires time.Time
}

// PreviewStore holds processed images so the admin can see them before
// submitting. Every handle belongs to an owner (an editor) so all of an
// editor's previews can be released at once. Safe for concurrent use.
type PreviewStore struct {
	mu    sync.Mutex
	items map[Handle]*preview
	ttl   time.Duration
	now   func() time.Time
	log   *zap.Logger
}

// NewPreviewStore creates an empty store. A non-positive ttl uses DefaultPreviewTTL.
func NewPreviewStore(ttl time.Duration, logger *zap.Logger) *PreviewStore {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreviewStore{
		items: make(map[Handle]*preview),
		ttl:   ttl,
		now:   time.Now,
		log:   logger,
	}
}

// Acquire stores img and returns a new handle for it.
func (s *PreviewStore) Acquire(owner string, img Processed) Handle {
	h := Handle(uuid.NewString())
	s.mu.Lock()
	s.items[h] = &preview{owner: owner, img: img, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return h
}

// Get returns the image for h. Expired handles are reported as missing.
func (s *PreviewStore) Get(h Handle) (Processed, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[h]
	if !ok {
		return Processed{}, false
	}
	if s.now().After(p.expires) {
		delete(s.items, h)
		return Processed{}, false
	}
	return p.img, true
}

// Release frees h. Releasing an unknown handle is a no-op.
func (s *PreviewStore) Release(h Handle) {
	if h == "" {
		return
	}
	s.mu.Lock()
	delete(s.items, h)
	s.mu.Unlock()
}

// ReleaseOwner frees every handle held by owner and reports how many.
func (s *PreviewStore) ReleaseOwner(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for h, p := range s.items {
		if p.owner == owner {
			delete(s.items, h)
			n++
		}
	}
	if n > 0 {
		s.log.Debug("image previews released", zap.String("owner", owner), zap.Int("count", n))
	}
	return n
}

// ExtendPrefix pushes back the expiry of every live preview whose owner
// starts with prefix and reports how many were extended.
func (s *PreviewStore) ExtendPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, p := range s.items {
		if strings.HasPrefix(p.owner, prefix) && !now.After(p.expires) {
			p.expires = now.Add(s.ttl)
			n++
		}
	}
	return n
}

// Sweep drops expired previews and reports how many were removed.
func (s *PreviewStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for h, p := range s.items {
		if now.After(p.expires) {
			delete(s.items, h)
			n++
		}
	}
	return n
}

// Len reports how many previews are held.
func (s *PreviewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Slot is a single image field of a draft. Setting a new image releases the
// preview of the one it replaces. Slot is not safe for concurrent use; the
// owning editor serialises access.
type Slot struct {
	store  *PreviewStore
	owner  string
	file   *Processed
	handle Handle
}

// NewSlot returns an empty slot whose previews belong to owner.
func (s *PreviewStore) NewSlot(owner string) *Slot {
	return &Slot{store: s, owner: owner}
}

// Set replaces the slot's image and returns the new preview handle.
func (sl *Slot) Set(img Processed) Handle {
	old := sl.handle
	sl.file = &img
	sl.handle = sl.store.Acquire(sl.owner, img)
	sl.store.Release(old)
	return sl.handle
}

// Clear empties the slot and releases its preview.
func (sl *Slot) Clear() {
	sl.store.Release(sl.handle)
	sl.file = nil
	sl.handle = ""
}

// File returns the selected image, if any.
func (sl *Slot) File() (Processed, bool) {
	if sl.file == nil {
		return Processed{}, false
	}
	return *sl.file, true
}

// Handle returns the current preview handle, or "" when empty.
func (sl *Slot) Handle() Handle { return sl.handle }

// Empty reports whether no image is selected.
func (sl *Slot) Empty() bool { return sl.file == nil }
