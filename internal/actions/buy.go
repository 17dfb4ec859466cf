package actions

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/txflow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"go.uber.org/zap"
)

// BuyModals are the dialogs driven by the buy flow.
type BuyModals struct {
	// Enable shows approval progress and the approval hash.
	Enable txflow.Modal
	// Confirm shows purchase progress and the purchase hash.
	Confirm txflow.Modal
	// Buy is the ticket quantity form.
	Buy txflow.Modal
}

// BuyTickets enables CAKE spending and buys minting tickets.
type BuyTickets struct {
	deps   Deps
	modals BuyModals
	flow   *txflow.Orchestrator
}

// NewBuyTickets wires the buy flow. Call Init before use.
func NewBuyTickets(deps Deps, modals BuyModals) *BuyTickets {
	deps.defaults()
	b := &BuyTickets{deps: deps, modals: modals}
	b.flow = txflow.New(txflow.Options{
		OnRequiresApproval: b.hasAllowance,
		OnApprove:          b.approve,
		OnConfirm:          b.buy,
	}, txflow.WithLogger(deps.Log.Named("buy")))

	b.flow.Subscribe(txflow.NewWatcher(
		txflow.PresentOnHash(txflow.KindApprove, modals.Enable),
		txflow.PresentOnHash(txflow.KindConfirm, modals.Confirm),
		txflow.DismissOnFailure(txflow.KindApprove, modals.Enable),
		txflow.DismissOnFailure(txflow.KindConfirm, modals.Confirm),
		txflow.DismissOnFailure(txflow.KindConfirm, modals.Buy),
		txflow.OnFailure(txflow.KindConfirm, deps.toastFailure),
	).Observe)
	deps.subscribe(b.flow)
	return b
}

func (b *BuyTickets) hasAllowance(ctx context.Context) (bool, error) {
	allowance, err := b.deps.Allowance.Allowance(ctx, b.deps.Account, b.deps.Sale.Address)
	if err != nil {
		return false, err
	}
	return allowance.Sign() > 0, nil
}

func (b *BuyTickets) approve(ctx context.Context) (contract.Pending, error) {
	return b.deps.Sender.Send(ctx, b.deps.Cake, "approve", b.deps.Sale.Address, math.MaxBig256)
}

func (b *BuyTickets) buy(ctx context.Context, args txflow.ConfirmArgs) (contract.Pending, error) {
	b.modals.Confirm.Present()
	method := "buyTickets"
	if args.Presale {
		method = "buyTicketsInPreSaleForGen0"
	}
	return b.deps.Sender.Send(ctx, b.deps.Sale, method, big.NewInt(int64(args.Tickets)))
}

// Init checks the current allowance.
func (b *BuyTickets) Init(ctx context.Context) { b.flow.Init(ctx) }

// State is the orchestrator state.
func (b *BuyTickets) State() txflow.State { return b.flow.State() }

// Dismiss clears a finished attempt.
func (b *BuyTickets) Dismiss(kind txflow.Kind) { b.flow.Dismiss(kind) }

// Reset forgets all attempts and the approval, for example after the
// account changes.
func (b *BuyTickets) Reset() { b.flow.Reset() }

// Controls lists the buttons to show for snap.
func (b *BuyTickets) Controls(snap sale.Snapshot) []Control {
	st := b.flow.State()
	el := snap.Eligibility(st.IsApproved())
	t := b.deps.T

	var out []Control
	if !st.IsApproved() && !el.IsUserUnactiveProfile {
		label := t("Enable", nil)
		if st.IsApproving() {
			label = t("Enabling...", nil)
		}
		out = append(out, Control{
			ID:      ControlEnable,
			Label:   label,
			Enabled: !st.IsApproving(),
			Busy:    st.IsApproving(),
		})
	}
	if snap.SaleStatus.Buying() {
		out = append(out, Control{
			ID:      ControlBuy,
			Label:   sale.BuyButtonText(el.CanBuyTickets, snap.Facts.TicketsOfUser, snap.SaleStatus, t),
			Enabled: el.CanBuyTickets && !st.IsConfirming(),
			Busy:    st.IsConfirming(),
		})
	}
	return out
}

// Ready returns the ready banner when the user is ready and has enabled
// spending.
func (b *BuyTickets) Ready(snap sale.Snapshot) (string, bool) {
	st := b.flow.State()
	if !snap.Eligibility(st.IsApproved()).IsUserReady || !st.IsApproved() {
		return "", false
	}
	return sale.ReadyText(snap.UserStatus, b.deps.T), true
}

// Enable presents the enable modal and runs the approval. It blocks until
// the approval is mined or fails.
func (b *BuyTickets) Enable(ctx context.Context) error {
	st := b.flow.State()
	switch {
	case b.deps.Account == (common.Address{}):
		return ErrNoAccount
	case st.IsApproved():
		return ErrAlreadyApproved
	case st.IsApproving():
		return ErrBusy
	}
	b.modals.Enable.Present()
	if !b.flow.HandleApprove(ctx) {
		return ErrBusy
	}
	if err := attemptError(b.flow.State(), txflow.KindApprove); err != nil {
		return fmt.Errorf("enabling CAKE: %w", err)
	}
	return nil
}

// OpenBuy presents the ticket quantity form.
func (b *BuyTickets) OpenBuy() { b.modals.Buy.Present() }

// Buy validates the purchase of n tickets against snap and runs the
// purchase. It blocks until the purchase is mined or fails.
func (b *BuyTickets) Buy(ctx context.Context, snap sale.Snapshot, n int) error {
	if b.deps.Account == (common.Address{}) {
		return ErrNoAccount
	}
	if err := sale.ValidatePurchase(snap.SaleStatus, snap.Facts, n); err != nil {
		return err
	}
	st := b.flow.State()
	switch {
	case !st.IsApproved():
		return ErrNotApproved
	case st.IsConfirming():
		return ErrBusy
	}
	args := txflow.ConfirmArgs{Tickets: n, Presale: snap.SaleStatus == sale.Presale}
	b.deps.Log.Info("buying tickets",
		zap.Int("tickets", n),
		zap.Bool("presale", args.Presale),
		zap.String("cost", sale.Cost(snap.Facts, n).String()))
	if !b.flow.HandleConfirm(ctx, args) {
		return ErrBusy
	}
	if err := attemptError(b.flow.State(), txflow.KindConfirm); err != nil {
		return fmt.Errorf("buying tickets: %w", err)
	}
	return nil
}
