// Package actions builds the Buy and Mint controls of the sale page on top
// of the approve/confirm orchestrator.
package actions

import (
	"context"
	"errors"
	"math/big"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/Mohsinsiddi/squadcli/internal/i18n"
	"github.com/Mohsinsiddi/squadcli/internal/txflow"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Control ids.
const (
	ControlEnable = "enable"
	ControlBuy    = "buy"
	ControlMint   = "mint"
)

// Toast text shown when a confirm transaction fails.
const (
	FailureTitle   = "Error"
	FailureMessage = "Please try again. Confirm the transaction and make sure you are paying enough gas!"
)

var (
	ErrNotApproved     = errors.New("CAKE spending is not enabled")
	ErrAlreadyApproved = errors.New("CAKE spending is already enabled")
	ErrBusy            = errors.New("a transaction is already in progress")
	ErrNothingToMint   = errors.New("no tickets to mint")
	ErrNoAccount       = errors.New("no wallet connected")
)

// Sender submits contract transactions. *contract.Gateway implements it.
type Sender interface {
	Send(ctx context.Context, b contract.Bound, method string, args ...any) (contract.Pending, error)
}

// AllowanceReader reads ERC-20 allowances. *sale.Reader implements it.
type AllowanceReader interface {
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
}

// Toaster shows a transient notification.
type Toaster func(title, message string)

// Control is one button as rendered by a front end.
type Control struct {
	ID      string
	Label   string
	Enabled bool
	Busy    bool
}

// Deps are the collaborators shared by every action.
type Deps struct {
	Account   common.Address
	Sale      contract.Bound
	Cake      contract.Bound
	Sender    Sender
	Allowance AllowanceReader
	Toast     Toaster
	T         i18n.Func
	Log       *zap.Logger

	// Observers are subscribed to every orchestrator, after the watchers.
	Observers []func(txflow.State)
}

func (d *Deps) defaults() {
	if d.T == nil {
		d.T = i18n.English
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Toast == nil {
		d.Toast = func(string, string) {}
	}
}

func (d Deps) toastFailure(error) {
	d.Toast(d.T(FailureTitle, nil), d.T(FailureMessage, nil))
}

func (d Deps) subscribe(flow *txflow.Orchestrator) {
	for _, obs := range d.Observers {
		flow.Subscribe(obs)
	}
}

// attemptError is the error of the finished attempt of kind, if it failed.
func attemptError(s txflow.State, kind txflow.Kind) error {
	if a := s.Attempt(kind); a.Phase == txflow.Failed {
		return a.Err
	}
	return nil
}
