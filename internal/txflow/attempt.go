// Package txflow sequences an optional approval transaction followed by a
// confirm transaction and publishes every state change to observers.
package txflow

import (
	"fmt"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Kind distinguishes the two transactions of a flow.
type Kind int

const (
	KindApprove Kind = iota
	KindConfirm
)

func (k Kind) String() string {
	if k == KindApprove {
		return "approve"
	}
	return "confirm"
}

// Phase is the lifecycle stage of an attempt.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Attempt is one approval or confirm transaction. Receipt is set only when
// Succeeded and Err only when Failed.
type Attempt struct {
	ID    uuid.UUID
	Kind  Kind
	Phase Phase
	Args  ConfirmArgs

	// Submitted is the broadcast hash, known once the gateway accepted the
	// transaction. It stays set on failure so a revert can be looked up.
	Submitted common.Hash
	Receipt   *contract.Receipt
	Err       error

	StartedAt time.Time
	EndedAt   time.Time
}

// Hash is the mined transaction hash of a successful attempt, or the zero
// hash otherwise.
func (a Attempt) Hash() common.Hash {
	if a.Phase != Succeeded || a.Receipt == nil {
		return common.Hash{}
	}
	return a.Receipt.TxHash
}

func idle(kind Kind) Attempt {
	return Attempt{Kind: kind}
}

func pending(kind Kind, now time.Time) Attempt {
	return Attempt{ID: uuid.New(), Kind: kind, Phase: Pending, StartedAt: now}
}

// State is the observable state of an Orchestrator.
type State struct {
	Approve  Attempt
	Confirm  Attempt
	approved bool
}

// Attempt returns the attempt of kind.
func (s State) Attempt(kind Kind) Attempt {
	if kind == KindApprove {
		return s.Approve
	}
	return s.Confirm
}

func (s *State) attempt(kind Kind) *Attempt {
	if kind == KindApprove {
		return &s.Approve
	}
	return &s.Confirm
}

// IsApproving reports whether an approval is in flight.
func (s State) IsApproving() bool { return s.Approve.Phase == Pending }

// IsApproved reports whether spending is approved. It latches on a
// successful approval and is cleared only by Reset.
func (s State) IsApproved() bool { return s.approved }

// IsConfirming reports whether a confirm is in flight.
func (s State) IsConfirming() bool { return s.Confirm.Phase == Pending }

// HasApproveFailed reports whether the last approval failed.
func (s State) HasApproveFailed() bool { return s.Approve.Phase == Failed }

// HasConfirmFailed reports whether the last confirm failed.
func (s State) HasConfirmFailed() bool { return s.Confirm.Phase == Failed }

// ApproveHash is the hash of the successful approval, if any.
func (s State) ApproveHash() common.Hash { return s.Approve.Hash() }

// ConfirmHash is the hash of the successful confirm, if any.
func (s State) ConfirmHash() common.Hash { return s.Confirm.Hash() }

// Busy reports whether either attempt is in flight.
func (s State) Busy() bool { return s.IsApproving() || s.IsConfirming() }
