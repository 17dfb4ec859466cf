package txflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	approveHash = common.HexToHash("0xaa")
	confirmHash = common.HexToHash("0xcc")
)

// fakeTx is a submitted transaction whose Wait optionally blocks until
// release is closed.
type fakeTx struct {
	hash    common.Hash
	receipt *contract.Receipt
	err     error
	release chan struct{}
}

func (f *fakeTx) Hash() common.Hash { return f.hash }

func (f *fakeTx) Wait(ctx context.Context) (*contract.Receipt, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.receipt, f.err
}

func mined(hash common.Hash) *fakeTx {
	return &fakeTx{hash: hash, receipt: &contract.Receipt{TxHash: hash, Status: true, BlockNumber: 10}}
}

func approveFlow(approveTx, confirmTx *fakeTx) Options {
	return Options{
		OnRequiresApproval: func(context.Context) (bool, error) { return false, nil },
		OnApprove:          func(context.Context) (contract.Pending, error) { return approveTx, nil },
		OnConfirm:          func(context.Context, ConfirmArgs) (contract.Pending, error) { return confirmTx, nil },
	}
}

func TestInitWithoutApprovalStepIsApproved(t *testing.T) {
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return mined(confirmHash), nil }})
	o.Init(context.Background())
	assert.True(t, o.State().IsApproved())
}

func TestInitApprovalCheck(t *testing.T) {
	tests := []struct {
		name  string
		check func(context.Context) (bool, error)
		want  bool
	}{
		{"already approved", func(context.Context) (bool, error) { return true, nil }, true},
		{"not approved", func(context.Context) (bool, error) { return false, nil }, false},
		{"query error", func(context.Context) (bool, error) { return true, errors.New("rpc down") }, false},
		{"query panic", func(context.Context) (bool, error) { panic("boom") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(Options{OnRequiresApproval: tt.check})
			o.Init(context.Background())
			assert.Equal(t, tt.want, o.State().IsApproved())
		})
	}
}

func TestApproveThenConfirm(t *testing.T) {
	var approvedReceipt, confirmedReceipt *contract.Receipt
	var gotArgs ConfirmArgs
	opts := approveFlow(mined(approveHash), mined(confirmHash))
	opts.OnApproveSuccess = func(_ context.Context, r *contract.Receipt) { approvedReceipt = r }
	opts.OnSuccess = func(_ context.Context, r *contract.Receipt) { confirmedReceipt = r }
	confirm := opts.OnConfirm
	opts.OnConfirm = func(ctx context.Context, args ConfirmArgs) (contract.Pending, error) {
		gotArgs = args
		return confirm(ctx, args)
	}
	o := New(opts)
	ctx := context.Background()
	o.Init(ctx)

	assert.False(t, o.HandleConfirm(ctx, ConfirmArgs{Tickets: 2}), "confirm refused before approval")

	require.True(t, o.HandleApprove(ctx))
	s := o.State()
	assert.True(t, s.IsApproved())
	assert.False(t, s.IsApproving())
	assert.Equal(t, approveHash, s.ApproveHash())
	require.NotNil(t, approvedReceipt)
	assert.Equal(t, approveHash, approvedReceipt.TxHash)

	require.True(t, o.HandleConfirm(ctx, ConfirmArgs{Tickets: 2}))
	s = o.State()
	assert.False(t, s.IsConfirming())
	assert.False(t, s.HasConfirmFailed())
	assert.Equal(t, confirmHash, s.ConfirmHash())
	assert.Equal(t, 2, gotArgs.Tickets)
	require.NotNil(t, confirmedReceipt)
	assert.Equal(t, confirmHash, confirmedReceipt.TxHash)
}

func TestConfirmRejected(t *testing.T) {
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) {
		return nil, errors.New("user rejected")
	}})
	ctx := context.Background()
	o.Init(ctx)

	require.True(t, o.HandleConfirm(ctx, ConfirmArgs{Tickets: 1}))
	s := o.State()
	assert.True(t, s.HasConfirmFailed())
	assert.False(t, s.IsConfirming())
	assert.Equal(t, common.Hash{}, s.ConfirmHash())
	assert.EqualError(t, s.Confirm.Err, "user rejected")
}

func TestConfirmReverted(t *testing.T) {
	reverted := &fakeTx{hash: confirmHash, receipt: &contract.Receipt{TxHash: confirmHash, Status: false}}
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return reverted, nil }})
	ctx := context.Background()
	o.Init(ctx)

	o.HandleConfirm(ctx, ConfirmArgs{})
	s := o.State()
	assert.True(t, s.HasConfirmFailed())
	assert.ErrorIs(t, s.Confirm.Err, contract.ErrReverted)
	assert.Equal(t, common.Hash{}, s.ConfirmHash())
	assert.Equal(t, confirmHash, s.Confirm.Submitted)
}

func TestWaitErrorAndPanicFail(t *testing.T) {
	o := New(Options{
		OnRequiresApproval: func(context.Context) (bool, error) { return false, nil },
		OnApprove: func(context.Context) (contract.Pending, error) {
			return &fakeTx{hash: approveHash, err: errors.New("dropped")}, nil
		},
		OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { panic("wallet exploded") },
	})
	ctx := context.Background()
	o.Init(ctx)

	o.HandleApprove(ctx)
	s := o.State()
	assert.True(t, s.HasApproveFailed())
	assert.False(t, s.IsApproved())
	assert.Equal(t, common.Hash{}, s.ApproveHash())

	o.Reset()
	o.transition(func(s *State) bool { s.approved = true; return true })
	o.HandleConfirm(ctx, ConfirmArgs{})
	s = o.State()
	assert.True(t, s.HasConfirmFailed())
	assert.Contains(t, s.Confirm.Err.Error(), "wallet exploded")
}

func TestNilPendingFails(t *testing.T) {
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return nil, nil }})
	ctx := context.Background()
	o.Init(ctx)
	o.HandleConfirm(ctx, ConfirmArgs{})
	assert.ErrorIs(t, o.State().Confirm.Err, ErrNoReceipt)
}

func TestHandleApproveIgnoredWhileApproving(t *testing.T) {
	tx := mined(approveHash)
	tx.release = make(chan struct{})
	var calls atomic.Int32
	opts := approveFlow(tx, mined(confirmHash))
	opts.OnApprove = func(context.Context) (contract.Pending, error) {
		calls.Add(1)
		return tx, nil
	}
	o := New(opts)
	ctx := context.Background()
	o.Init(ctx)

	done := make(chan bool)
	go func() { done <- o.HandleApprove(ctx) }()
	require.Eventually(t, func() bool { return o.State().IsApproving() }, time.Second, time.Millisecond)

	assert.False(t, o.HandleApprove(ctx))
	assert.False(t, o.HandleConfirm(ctx, ConfirmArgs{}))

	close(tx.release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, o.State().IsApproved())
}

func TestHandleConfirmIgnoredWhileConfirming(t *testing.T) {
	tx := mined(confirmHash)
	tx.release = make(chan struct{})
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return tx, nil }})
	ctx := context.Background()
	o.Init(ctx)

	done := make(chan bool)
	go func() { done <- o.HandleConfirm(ctx, ConfirmArgs{}) }()
	require.Eventually(t, func() bool { return o.State().IsConfirming() }, time.Second, time.Millisecond)
	assert.False(t, o.HandleConfirm(ctx, ConfirmArgs{}))
	assert.Equal(t, confirmHash, o.State().Confirm.Submitted)

	close(tx.release)
	assert.True(t, <-done)
	assert.Equal(t, confirmHash, o.State().ConfirmHash())
}

func TestApprovalLatchHoldsUntilReset(t *testing.T) {
	o := New(approveFlow(mined(approveHash), mined(confirmHash)))
	ctx := context.Background()
	o.Init(ctx)
	o.HandleApprove(ctx)

	o.Dismiss(KindApprove)
	s := o.State()
	assert.True(t, s.IsApproved())
	assert.Equal(t, Idle, s.Approve.Phase)
	assert.False(t, o.HandleApprove(ctx), "no second approval once latched")

	o.Reset()
	assert.False(t, o.State().IsApproved())
	assert.True(t, o.HandleApprove(ctx))
}

func TestDismiss(t *testing.T) {
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) {
		return nil, errors.New("rejected")
	}})
	ctx := context.Background()
	o.Init(ctx)
	o.HandleConfirm(ctx, ConfirmArgs{})
	require.True(t, o.State().HasConfirmFailed())

	o.Dismiss(KindConfirm)
	s := o.State()
	assert.False(t, s.HasConfirmFailed())
	assert.Nil(t, s.Confirm.Err)
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	tx := mined(confirmHash)
	tx.release = make(chan struct{})
	var succeeded atomic.Bool
	o := New(Options{
		OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return tx, nil },
		OnSuccess: func(context.Context, *contract.Receipt) { succeeded.Store(true) },
	})
	ctx := context.Background()
	o.Init(ctx)

	done := make(chan bool)
	go func() { done <- o.HandleConfirm(ctx, ConfirmArgs{}) }()
	require.Eventually(t, func() bool { return o.State().IsConfirming() }, time.Second, time.Millisecond)

	o.Reset()
	close(tx.release)
	<-done

	s := o.State()
	assert.Equal(t, Idle, s.Confirm.Phase)
	assert.Equal(t, common.Hash{}, s.ConfirmHash())
	assert.False(t, succeeded.Load())
}

func TestObserversSeeTransitionsInOrder(t *testing.T) {
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return mined(confirmHash), nil }})
	ctx := context.Background()

	var mu sync.Mutex
	var order []string
	var phases []Phase
	o.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "first")
		phases = append(phases, s.Confirm.Phase)
	})
	cancel := o.Subscribe(func(State) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "second")
	})

	o.Init(ctx)
	o.HandleConfirm(ctx, ConfirmArgs{})
	assert.Equal(t, []Phase{Idle, Pending, Pending, Succeeded}, phases)
	assert.Equal(t, "first", order[0])
	assert.Equal(t, "second", order[1])

	cancel()
	before := len(order)
	o.Reset()
	assert.Equal(t, before+1, len(order), "only the first observer remains")
}

func TestCancelledContextFailsWait(t *testing.T) {
	tx := mined(confirmHash)
	tx.release = make(chan struct{})
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) { return tx, nil }})
	ctx, cancel := context.WithCancel(context.Background())
	o.Init(ctx)
	cancel()

	o.HandleConfirm(ctx, ConfirmArgs{})
	assert.ErrorIs(t, o.State().Confirm.Err, context.Canceled)
}

func TestAttemptsGetDistinctIDs(t *testing.T) {
	o := New(Options{OnConfirm: func(context.Context, ConfirmArgs) (contract.Pending, error) {
		return nil, errors.New("no")
	}})
	ctx := context.Background()
	o.Init(ctx)
	o.HandleConfirm(ctx, ConfirmArgs{})
	first := o.State().Confirm.ID
	o.HandleConfirm(ctx, ConfirmArgs{})
	second := o.State().Confirm.ID
	assert.NotEqual(t, first, second)
	assert.False(t, o.State().Confirm.StartedAt.IsZero())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}
