// internal/app/system/crudeditor/registry.go
package crudeditor

import (
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/institutehub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultIdleTTL is how long an unused editor survives.
const DefaultIdleTTL = time.Hour

type closer interface {
	Close()
	Closed() bool
	idleSince() time.Time
	touch()
}

// Registry keeps one editor per (admin session, resource) so a draft
// survives across requests.
type Registry struct {
	mu      sync.Mutex
	editors map[string]closer
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// NewRegistry returns an empty registry. A non-positive ttl uses DefaultIdleTTL.
func NewRegistry(ttl time.Duration, logger *zap.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{editors: map[string]closer{}, ttl: ttl, now: time.Now, log: logger}
}

func registryKey(session, resource string) string { return session + "\x00" + resource }

// OwnerKey is the preview owner used for the editor of (session, resource).
func OwnerKey(session, resource string) string { return session + "/" + resource }

// GetOrCreate returns the live editor for (session, resource), building one
// with build when none exists or the previous one was closed.
func GetOrCreate[R models.Record](reg *Registry, session, resource string, build func(owner string) *Editor[R]) *Editor[R] {
	key := registryKey(session, resource)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if c, ok := reg.editors[key]; ok && !c.Closed() {
		if ed, ok := c.(*Editor[R]); ok {
			return ed
		}
		c.Close()
	}
	ed := build(OwnerKey(session, resource))
	reg.editors[key] = ed
	return ed
}

// CloseSession closes every editor belonging to session.
func (reg *Registry) CloseSession(session string) int {
	prefix := session + "\x00"
	reg.mu.Lock()
	defer reg.mu.Unlock()
	n := 0
	for k, c := range reg.editors {
		if strings.HasPrefix(k, prefix) {
			c.Close()
			delete(reg.editors, k)
			n++
		}
	}
	if n > 0 {
		reg.log.Debug("session editors closed", zap.Int("count", n))
	}
	return n
}

// Touch marks every editor of session as used now and reports how many
// are open.
func (reg *Registry) Touch(session string) int {
	prefix := session + "\x00"
	reg.mu.Lock()
	defer reg.mu.Unlock()
	n := 0
	for k, c := range reg.editors {
		if strings.HasPrefix(k, prefix) && !c.Closed() {
			c.touch()
			n++
		}
	}
	return n
}

// Sweep closes editors idle for longer than the TTL.
func (reg *Registry) Sweep() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	cutoff := reg.now().Add(-reg.ttl)
	n := 0
	for k, c := range reg.editors {
		if c.Closed() || c.idleSince().Before(cutoff) {
			c.Close()
			delete(reg.editors, k)
			n++
		}
	}
	return n
}

// Len reports how many editors are open.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.editors)
}

// CloseAll closes every editor and reports how many were open. Call it on
// shutdown.
func (reg *Registry) CloseAll() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	n := len(reg.editors)
	for k, c := range reg.editors {
		c.Close()
		delete(reg.editors, k)
	}
	return n
}
