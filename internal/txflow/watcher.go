package txflow

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Modal is something that can be shown and hidden, such as a result dialog.
// Present must be idempotent.
type Modal interface {
	Present()
	Dismiss()
}

// Rule reacts to a state change. prev is the state seen on the previous
// Observe call.
type Rule func(prev, cur State)

// PresentOnHash presents m when the successful hash of kind changes to a new
// non-zero value.
func PresentOnHash(kind Kind, m Modal) Rule {
	return func(prev, cur State) {
		h := cur.Attempt(kind).Hash()
		if h != (common.Hash{}) && h != prev.Attempt(kind).Hash() {
			m.Present()
		}
	}
}

// DismissOnFailure dismisses m when the attempt of kind turns Failed.
func DismissOnFailure(kind Kind, m Modal) Rule {
	return func(prev, cur State) {
		if failedNow(kind, prev, cur) {
			m.Dismiss()
		}
	}
}

// OnFailure calls fn with the error when the attempt of kind turns Failed.
func OnFailure(kind Kind, fn func(error)) Rule {
	return func(prev, cur State) {
		if failedNow(kind, prev, cur) {
			fn(cur.Attempt(kind).Err)
		}
	}
}

func failedNow(kind Kind, prev, cur State) bool {
	c := cur.Attempt(kind)
	if c.Phase != Failed {
		return false
	}
	p := prev.Attempt(kind)
	return p.Phase != Failed || p.ID != c.ID
}

// Watcher evaluates rules against successive states. Observe is meant to be
// passed to Orchestrator.Subscribe.
type Watcher struct {
	mu    sync.Mutex
	rules []Rule
	prev  State
}

// NewWatcher creates a Watcher with rules.
func NewWatcher(rules ...Rule) *Watcher {
	return &Watcher{rules: rules}
}

// Observe runs every rule against the change from the previous state.
func (w *Watcher) Observe(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.rules {
		r(w.prev, s)
	}
	w.prev = s
}
