package history

import (
	"strings"
	"sync"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/txflow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder is an orchestrator observer that writes every attempt change to
// a Store. Write errors are logged, never returned.
type Recorder struct {
	store   Store
	action  Action
	chainID int64
	account common.Address
	log     *zap.Logger
	now     func() time.Time

	mu sync.Mutex
	// last holds the attempts still present in the latest state.
	last map[uuid.UUID]txflow.Attempt
}

// NewRecorder creates a Recorder for one action and account.
func NewRecorder(store Store, action Action, chainID int64, account common.Address, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		store:   store,
		action:  action,
		chainID: chainID,
		account: account,
		log:     log,
		now:     time.Now,
		last:    map[uuid.UUID]txflow.Attempt{},
	}
}

// AccountKey is the form accounts are stored and queried in.
func AccountKey(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// Observe records the approve and confirm attempts of s if they changed.
func (r *Recorder) Observe(s txflow.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range []txflow.Attempt{s.Approve, s.Confirm} {
		if a.Phase == txflow.Idle || !r.changed(a) {
			continue
		}
		if err := r.store.Save(r.record(a)); err != nil {
			r.log.Warn("recording attempt failed", zap.Stringer("attempt", a.ID), zap.Error(err))
			continue
		}
		r.last[a.ID] = a
	}
	for id := range r.last {
		if id != s.Approve.ID && id != s.Confirm.ID {
			delete(r.last, id)
		}
	}
}

func (r *Recorder) changed(a txflow.Attempt) bool {
	prev, ok := r.last[a.ID]
	return !ok || prev.Phase != a.Phase || prev.Submitted != a.Submitted
}

func (r *Recorder) record(a txflow.Attempt) *Record {
	rec := &Record{
		ID:        a.ID.String(),
		Action:    r.action,
		Kind:      a.Kind.String(),
		Status:    a.Phase.String(),
		Account:   AccountKey(r.account),
		ChainID:   r.chainID,
		StartedAt: a.StartedAt,
		UpdatedAt: r.now(),
	}
	if a.Kind == txflow.KindConfirm {
		rec.Tickets = a.Args.Tickets
	}
	if a.Submitted != (common.Hash{}) {
		rec.TxHash = a.Submitted.Hex()
	}
	if a.Receipt != nil {
		rec.TxHash = a.Receipt.TxHash.Hex()
		rec.BlockNumber = a.Receipt.BlockNumber
	}
	if a.Err != nil {
		rec.Error = a.Err.Error()
	}
	return rec
}
