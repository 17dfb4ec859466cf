package ui

import (
	"sync"
	"time"
)

// Toast is a transient notification.
type Toast struct {
	Title   string
	Message string
	At      time.Time
}

// Toasts keeps notifications until they expire.
type Toasts struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Toast
}

// NewToasts creates a queue whose entries live for ttl.
func NewToasts(ttl time.Duration) *Toasts {
	return &Toasts{ttl: ttl, now: time.Now}
}

// Push adds a notification. Its signature matches actions.Toaster.
func (t *Toasts) Push(title, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, Toast{Title: title, Message: message, At: t.now()})
}

// Active drops expired notifications and returns the rest, oldest first.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-t.ttl)
	kept := t.items[:0]
	for _, it := range t.items {
		if it.At.After(cutoff) {
			kept = append(kept, it)
		}
	}
	t.items = kept
	return append([]Toast(nil), kept...)
}

// RenderToast draws one error notification.
func RenderToast(t Toast) string {
	return StyleDanger.Render(StyleError.Render(t.Title) + "\n" + t.Message)
}
