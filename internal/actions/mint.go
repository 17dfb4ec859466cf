package actions

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/txflow"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Mint turns the account's tickets into NFTs. It has no approval step.
type Mint struct {
	deps Deps
	flow *txflow.Orchestrator
}

// NewMint wires the mint flow. modal shows the mint result.
func NewMint(deps Deps, modal txflow.Modal) *Mint {
	deps.defaults()
	m := &Mint{deps: deps}
	m.flow = txflow.New(txflow.Options{
		OnConfirm: func(ctx context.Context, args txflow.ConfirmArgs) (contract.Pending, error) {
			return deps.Sender.Send(ctx, deps.Sale, "mint", args.TicketIDs)
		},
	}, txflow.WithLogger(deps.Log.Named("mint")))

	m.flow.Subscribe(txflow.NewWatcher(
		txflow.PresentOnHash(txflow.KindConfirm, modal),
		txflow.DismissOnFailure(txflow.KindConfirm, modal),
		txflow.OnFailure(txflow.KindConfirm, deps.toastFailure),
	).Observe)
	deps.subscribe(m.flow)
	m.flow.Init(context.Background())
	return m
}

// State is the orchestrator state.
func (m *Mint) State() txflow.State { return m.flow.State() }

// Dismiss clears the finished mint attempt.
func (m *Mint) Dismiss() { m.flow.Dismiss(txflow.KindConfirm) }

// Control returns the mint button, or false when minting is not possible.
func (m *Mint) Control(snap sale.Snapshot) (Control, bool) {
	if !snap.Eligibility(false).CanMintTickets {
		return Control{}, false
	}
	st := m.flow.State()
	label := sale.MintLabel(snap.Facts.TicketsOfUser, m.deps.T)
	if st.IsConfirming() {
		label = m.deps.T("Minting...", nil)
	}
	return Control{
		ID:      ControlMint,
		Label:   label,
		Enabled: !st.IsConfirming(),
		Busy:    st.IsConfirming(),
	}, true
}

// Mint mints every ticket in snap. It blocks until the mint is mined or
// fails.
func (m *Mint) Mint(ctx context.Context, snap sale.Snapshot) error {
	if m.deps.Account == (common.Address{}) {
		return ErrNoAccount
	}
	if !snap.Eligibility(false).CanMintTickets || len(snap.Facts.TicketIDs) == 0 {
		return ErrNothingToMint
	}
	ids := snap.Facts.TicketIDs
	m.deps.Log.Info("minting", zap.Int("tickets", len(ids)))
	if !m.flow.HandleConfirm(ctx, txflow.ConfirmArgs{Tickets: len(ids), TicketIDs: ids}) {
		return ErrBusy
	}
	if err := attemptError(m.flow.State(), txflow.KindConfirm); err != nil {
		return fmt.Errorf("minting: %w", err)
	}
	return nil
}
