// internal/app/system/crudeditor/notify.go
package crudeditor

import (
	"context"
	"sync"
)

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a transient message for the admin.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices from an editor.
type Notifier interface {
	Notify(Notice)
}

// Notices queues notices until the next page render drains them.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

// Notify appends n.
func (q *Notices) Notify(n Notice) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Drain returns and clears the queued notices.
func (q *Notices) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Confirmer asks the admin to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Confirmed is a Confirmer for requests that already carry the admin's
// explicit confirmation.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
