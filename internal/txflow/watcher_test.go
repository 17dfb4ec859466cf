package txflow

import (
	"context"
	"errors"
	"testing"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingModal struct {
	presented, dismissed int
}

func (m *countingModal) Present() { m.presented++ }
func (m *countingModal) Dismiss() { m.dismissed++ }

func succeededState(kind Kind, receipt *contract.Receipt) State {
	var s State
	a := Attempt{ID: uuid.New(), Kind: kind, Phase: Succeeded, Receipt: receipt}
	*s.attempt(kind) = a
	return s
}

func failedState(kind Kind, err error) State {
	var s State
	*s.attempt(kind) = Attempt{ID: uuid.New(), Kind: kind, Phase: Failed, Err: err}
	return s
}

func TestPresentOnHashFiresOncePerHash(t *testing.T) {
	m := &countingModal{}
	w := NewWatcher(PresentOnHash(KindConfirm, m))

	s := succeededState(KindConfirm, &contract.Receipt{TxHash: confirmHash, Status: true})
	w.Observe(State{})
	w.Observe(s)
	w.Observe(s)
	assert.Equal(t, 1, m.presented)

	w.Observe(State{})
	assert.Equal(t, 1, m.presented, "clearing the hash does not present")

	w.Observe(succeededState(KindConfirm, &contract.Receipt{TxHash: approveHash, Status: true}))
	assert.Equal(t, 2, m.presented)
}

func TestPresentOnHashIgnoresOtherKind(t *testing.T) {
	m := &countingModal{}
	w := NewWatcher(PresentOnHash(KindConfirm, m))
	w.Observe(succeededState(KindApprove, &contract.Receipt{TxHash: approveHash, Status: true}))
	assert.Zero(t, m.presented)
}

func TestFailureRules(t *testing.T) {
	m := &countingModal{}
	var got []error
	w := NewWatcher(
		DismissOnFailure(KindConfirm, m),
		OnFailure(KindConfirm, func(err error) { got = append(got, err) }),
	)

	first := failedState(KindConfirm, errors.New("one"))
	w.Observe(first)
	w.Observe(first)
	assert.Equal(t, 1, m.dismissed)
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "one")

	w.Observe(failedState(KindConfirm, errors.New("two")))
	assert.Equal(t, 2, m.dismissed, "a new failed attempt fires again")
	assert.Len(t, got, 2)

	w.Observe(failedState(KindApprove, errors.New("approve")))
	assert.Equal(t, 2, m.dismissed)
}

func TestWatcherWithOrchestrator(t *testing.T) {
	confirmModal := &countingModal{}
	var toasts []error
	o := New(Options{
		OnConfirm: func(_ context.Context, args ConfirmArgs) (contract.Pending, error) {
			if args.Tickets == 0 {
				return nil, errors.New("rejected")
			}
			return mined(confirmHash), nil
		},
	})
	w := NewWatcher(
		PresentOnHash(KindConfirm, confirmModal),
		DismissOnFailure(KindConfirm, confirmModal),
		OnFailure(KindConfirm, func(err error) { toasts = append(toasts, err) }),
	)
	o.Subscribe(w.Observe)
	ctx := context.Background()
	o.Init(ctx)

	o.HandleConfirm(ctx, ConfirmArgs{Tickets: 0})
	assert.Equal(t, 1, confirmModal.dismissed)
	assert.Len(t, toasts, 1)

	o.HandleConfirm(ctx, ConfirmArgs{Tickets: 1})
	assert.Equal(t, 1, confirmModal.presented)
	assert.Len(t, toasts, 1)
}
