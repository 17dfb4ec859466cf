package ui

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ModalContent is the copy of a transaction result dialog.
type ModalContent struct {
	Title        string
	LoadingText  string
	LoadingLabel string
	SuccessLabel string
}

// ModalStack tracks which dialogs are open, topmost last. It is safe for
// concurrent use; orchestrator observers present and dismiss from command
// goroutines while the view reads it.
type ModalStack struct {
	mu  sync.Mutex
	ids []string
}

// Modal returns a handle for the dialog id on s.
func (s *ModalStack) Modal(id string) *Modal {
	return &Modal{id: id, stack: s}
}

// Top returns the topmost open dialog.
func (s *ModalStack) Top() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[len(s.ids)-1], true
}

// Pop closes the topmost dialog.
func (s *ModalStack) Pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) > 0 {
		s.ids = s.ids[:len(s.ids)-1]
	}
}

// Len is the number of open dialogs.
func (s *ModalStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *ModalStack) open(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.ids, id)
}

// Modal is one dialog on a ModalStack.
type Modal struct {
	id    string
	stack *ModalStack
}

// ID is the dialog id.
func (m *Modal) ID() string { return m.id }

// Present opens the dialog on top. Presenting an open dialog moves it to
// the top without duplicating it.
func (m *Modal) Present() {
	s := m.stack
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return id == m.id })
	s.ids = append(s.ids, m.id)
}

// Dismiss closes the dialog wherever it is in the stack.
func (m *Modal) Dismiss() {
	s := m.stack
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return id == m.id })
}

// Open reports whether the dialog is open.
func (m *Modal) Open() bool { return m.stack.open(m.id) }

// RenderResultModal draws a result dialog: a loading state while the
// transaction is pending, the hash and explorer link once it is mined.
func RenderResultModal(c ModalContent, loading bool, hash common.Hash, url string) string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(c.Title) + "\n")
	switch {
	case loading:
		sb.WriteString(StyleWarning.Render(c.LoadingText) + "\n\n")
		sb.WriteString(Button(c.LoadingLabel, false))
	case hash != (common.Hash{}):
		sb.WriteString(Success("Transaction confirmed") + "\n")
		sb.WriteString(Meta("Hash  ") + Addr(hash.Hex()) + "\n")
		if url != "" {
			sb.WriteString(Meta("View  ") + Addr(url) + "\n")
		}
		sb.WriteString("\n" + Button(c.SuccessLabel, true))
	default:
		sb.WriteString(Meta(c.LoadingText))
	}
	return StyleBorder.Render(sb.String())
}

// PrintModal presents a result dialog as terminal output for one-shot
// commands.
type PrintModal struct {
	Out     io.Writer
	Content ModalContent
	// Hash returns the mined hash, zero while pending.
	Hash func() common.Hash
	// TxURL links a hash to a block explorer. Optional.
	TxURL func(hash string) string

	mu      sync.Mutex
	printed common.Hash
	waiting bool
}

// Present prints the loading text once per attempt, then the result once
// per hash.
func (p *PrintModal) Present() {
	p.mu.Lock()
	defer p.mu.Unlock()

	var hash common.Hash
	if p.Hash != nil {
		hash = p.Hash()
	}
	if hash == (common.Hash{}) {
		if !p.waiting {
			fmt.Fprintln(p.Out, Info(p.Content.LoadingText))
			p.waiting = true
		}
		return
	}
	if hash == p.printed {
		return
	}
	p.printed = hash
	p.waiting = false

	pairs := [][2]string{{"Transaction", hash.Hex()}}
	if p.TxURL != nil {
		if url := p.TxURL(hash.Hex()); url != "" {
			pairs = append(pairs, [2]string{"Explorer", url})
		}
	}
	fmt.Fprintln(p.Out, KeyValueBlock(p.Content.Title, pairs))
}

// Dismiss ends the current attempt's output.
func (p *PrintModal) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waiting {
		fmt.Fprintln(p.Out, Warn(p.Content.Title+" cancelled"))
	}
	p.waiting = false
}
