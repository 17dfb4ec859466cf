package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Mohsinsiddi/squadcli/internal/actions"
	"github.com/Mohsinsiddi/squadcli/internal/history"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/ethereum/go-ethereum/common"
)

var assumeYes bool

// nopModal stands in for dialogs a one-shot command does not show.
type nopModal struct{}

func (nopModal) Present() {}
func (nopModal) Dismiss() {}

// newBuyAction wires the buy flow with result output on out.
func newBuyAction(s *session, out io.Writer) *actions.BuyTickets {
	var buy *actions.BuyTickets
	state := func() (approve, confirm common.Hash) {
		if buy == nil {
			return common.Hash{}, common.Hash{}
		}
		st := buy.State()
		return st.ApproveHash(), st.ConfirmHash()
	}
	enable := &ui.PrintModal{
		Out:     out,
		Content: ui.ResultContent(ui.ModalEnable, s.t),
		Hash:    func() common.Hash { h, _ := state(); return h },
		TxURL:   s.TxURL,
	}
	confirm := &ui.PrintModal{
		Out:     out,
		Content: ui.ResultContent(ui.ModalConfirm, s.t),
		Hash:    func() common.Hash { _, h := state(); return h },
		TxURL:   s.TxURL,
	}
	buy = actions.NewBuyTickets(s.deps(history.ActionBuy, printToast), actions.BuyModals{
		Enable:  enable,
		Confirm: confirm,
		Buy:     nopModal{},
	})
	return buy
}

// newMintAction wires the mint flow with result output on out.
func newMintAction(s *session, out io.Writer) *actions.Mint {
	var mint *actions.Mint
	modal := &ui.PrintModal{
		Out:     out,
		Content: ui.ResultContent(ui.ModalMint, s.t),
		Hash: func() common.Hash {
			if mint == nil {
				return common.Hash{}
			}
			return mint.State().ConfirmHash()
		},
		TxURL: s.TxURL,
	}
	mint = actions.NewMint(s.deps(history.ActionMint, printToast), modal)
	return mint
}

// maxTicketChoices bounds the picker when the on-chain caps are unlimited.
const maxTicketChoices = 100

// ticketChoices lists every ticket count that can be bought now with its
// cost.
func ticketChoices(snap sale.Snapshot) []ui.PickerItem {
	limit := min(sale.MaxPurchase(snap.SaleStatus, snap.Facts), maxTicketChoices)
	items := make([]ui.PickerItem, 0, limit)
	for n := 1; n <= limit; n++ {
		sub := ui.FormatCake(sale.Cost(snap.Facts, n))
		if sale.ValidatePurchase(snap.SaleStatus, snap.Facts, n) != nil {
			sub += "  insufficient balance"
		}
		items = append(items, ui.PickerItem{
			Label:    fmt.Sprintf("%d ticket(s)", n),
			SubLabel: sub,
			Value:    strconv.Itoa(n),
		})
	}
	return items
}

// confirmed asks before a transaction unless --yes was given.
func confirmed(out io.Writer, prompt string) bool {
	return assumeYes || ui.Confirm(out, prompt)
}
