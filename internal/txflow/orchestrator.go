package txflow

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoReceipt is recorded when a pending transaction resolves without a
// receipt or error.
var ErrNoReceipt = errors.New("transaction resolved without a receipt")

// ConfirmArgs parameterizes the confirm transaction.
type ConfirmArgs struct {
	Tickets   int
	Presale   bool
	TicketIDs []*big.Int
}

// Options are the caller callbacks. Only OnConfirm is required.
type Options struct {
	// OnRequiresApproval reports whether an earlier approval already covers
	// the action. Nil means no approval step. Errors count as not approved.
	OnRequiresApproval func(ctx context.Context) (bool, error)
	OnApprove          func(ctx context.Context) (contract.Pending, error)
	OnApproveSuccess   func(ctx context.Context, r *contract.Receipt)
	OnConfirm          func(ctx context.Context, args ConfirmArgs) (contract.Pending, error)
	OnSuccess          func(ctx context.Context, r *contract.Receipt)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

type subscriber struct {
	id int
	fn func(State)
}

// Orchestrator runs approve-then-confirm flows. At most one attempt of each
// kind is in flight; confirm is refused until approval is known.
//
// Observers run synchronously, in subscription order, after every
// transition. They must not call back into the Orchestrator's mutating
// methods.
type Orchestrator struct {
	opts Options
	log  *zap.Logger
	now  func() time.Time

	// deliver serializes transition+notify so observers see states in order.
	deliver sync.Mutex

	mu      sync.Mutex
	state   State
	subs    []subscriber
	nextSub int
}

// New creates an Orchestrator.
func New(opts Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		opts:  opts,
		log:   zap.NewNop(),
		now:   time.Now,
		state: State{Approve: idle(KindApprove), Confirm: idle(KindConfirm)},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers fn and returns a function that removes it.
func (o *Orchestrator) Subscribe(fn func(State)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextSub
	o.nextSub++
	o.subs = append(o.subs, subscriber{id: id, fn: fn})
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// Init checks whether approval is already in place and latches it if so.
func (o *Orchestrator) Init(ctx context.Context) {
	approved := true
	if o.opts.OnRequiresApproval != nil {
		var err error
		err = safely(func() error {
			approved, err = o.opts.OnRequiresApproval(ctx)
			return err
		})
		if err != nil {
			o.log.Debug("approval check failed, assuming not approved", zap.Error(err))
			approved = false
		}
	}
	if approved {
		o.transition(func(s *State) bool {
			if s.approved {
				return false
			}
			s.approved = true
			return true
		})
	}
}

// HandleApprove runs the approval transaction and waits for its receipt. It
// returns false without side effects when already approved, when an
// approval is in flight, or when the flow has no approval step.
func (o *Orchestrator) HandleApprove(ctx context.Context) bool {
	if o.opts.OnApprove == nil {
		return false
	}
	id, ok := o.begin(KindApprove, ConfirmArgs{}, func(s State) bool { return !s.approved })
	if !ok {
		return false
	}
	o.run(ctx, KindApprove, id, func() (contract.Pending, error) { return o.opts.OnApprove(ctx) }, o.opts.OnApproveSuccess)
	return true
}

// HandleConfirm runs the confirm transaction and waits for its receipt. It
// returns false without side effects when not approved or when a confirm is
// in flight.
func (o *Orchestrator) HandleConfirm(ctx context.Context, args ConfirmArgs) bool {
	if o.opts.OnConfirm == nil {
		return false
	}
	id, ok := o.begin(KindConfirm, args, func(s State) bool { return s.approved })
	if !ok {
		return false
	}
	o.run(ctx, KindConfirm, id, func() (contract.Pending, error) { return o.opts.OnConfirm(ctx, args) }, o.opts.OnSuccess)
	return true
}

// Dismiss returns a finished attempt of kind to Idle. In-flight attempts
// are left alone.
func (o *Orchestrator) Dismiss(kind Kind) {
	o.transition(func(s *State) bool {
		a := s.attempt(kind)
		if a.Phase == Idle || a.Phase == Pending {
			return false
		}
		*a = idle(kind)
		return true
	})
}

// Reset clears both attempts and the approval latch. Results of attempts
// still in flight are discarded when they arrive.
func (o *Orchestrator) Reset() {
	o.transition(func(s *State) bool {
		*s = State{Approve: idle(KindApprove), Confirm: idle(KindConfirm)}
		return true
	})
}

func (o *Orchestrator) begin(kind Kind, args ConfirmArgs, allowed func(State) bool) (uuid.UUID, bool) {
	var id uuid.UUID
	ok := o.transition(func(s *State) bool {
		if s.attempt(kind).Phase == Pending || !allowed(*s) {
			return false
		}
		a := pending(kind, o.now())
		a.Args = args
		id = a.ID
		*s.attempt(kind) = a
		return true
	})
	if ok {
		o.log.Info("transaction attempt started", zap.Stringer("kind", kind), zap.Stringer("attempt", id))
	}
	return id, ok
}

func (o *Orchestrator) run(
	ctx context.Context,
	kind Kind,
	id uuid.UUID,
	send func() (contract.Pending, error),
	onSuccess func(context.Context, *contract.Receipt),
) {
	var tx contract.Pending
	err := safely(func() error {
		var err error
		tx, err = send()
		if err == nil && tx == nil {
			err = ErrNoReceipt
		}
		return err
	})
	if err != nil {
		o.fail(kind, id, err)
		return
	}

	hash := tx.Hash()
	o.update(kind, id, func(a *Attempt) { a.Submitted = hash })

	var receipt *contract.Receipt
	err = safely(func() error {
		var err error
		receipt, err = tx.Wait(ctx)
		if err == nil && receipt == nil {
			err = ErrNoReceipt
		}
		return err
	})
	switch {
	case err != nil:
		o.fail(kind, id, err)
		return
	case !receipt.Status:
		o.fail(kind, id, fmt.Errorf("%w (hash: %s)", contract.ErrReverted, receipt.TxHash.Hex()))
		return
	}

	applied := o.transition(func(s *State) bool {
		a := s.attempt(kind)
		if a.ID != id {
			return false
		}
		a.Phase = Succeeded
		a.Receipt = receipt
		a.EndedAt = o.now()
		if kind == KindApprove {
			s.approved = true
		}
		return true
	})
	if !applied {
		o.log.Debug("dropping result of superseded attempt", zap.Stringer("attempt", id))
		return
	}
	o.log.Info("transaction confirmed",
		zap.Stringer("kind", kind),
		zap.String("hash", receipt.TxHash.Hex()),
		zap.Uint64("block", receipt.BlockNumber))

	if onSuccess != nil {
		if err := safely(func() error { onSuccess(ctx, receipt); return nil }); err != nil {
			o.log.Error("success callback failed", zap.Stringer("kind", kind), zap.Error(err))
		}
	}
}

func (o *Orchestrator) fail(kind Kind, id uuid.UUID, err error) {
	o.update(kind, id, func(a *Attempt) {
		a.Phase = Failed
		a.Err = err
		a.EndedAt = o.now()
	})
	o.log.Warn("transaction attempt failed", zap.Stringer("kind", kind), zap.Stringer("attempt", id), zap.Error(err))
}

// update mutates the attempt of kind if it is still attempt id.
func (o *Orchestrator) update(kind Kind, id uuid.UUID, fn func(*Attempt)) {
	o.transition(func(s *State) bool {
		a := s.attempt(kind)
		if a.ID != id {
			return false
		}
		fn(a)
		return true
	})
}

// transition applies fn under the state lock and, when fn reports a change,
// delivers the new state to every subscriber.
func (o *Orchestrator) transition(fn func(*State) bool) bool {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	o.mu.Lock()
	if !fn(&o.state) {
		o.mu.Unlock()
		return false
	}
	snapshot := o.state
	subs := append([]subscriber(nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn(snapshot)
	}
	return true
}

// safely runs fn, converting a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
