package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/i18n"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sale phase, caps and your position",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.ReadTimeout)
		defer cancel()

		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		spin := ui.NewSpinner(os.Stderr, "Loading sale…")
		spin.Start()
		snap, err := s.Load(ctx)
		if err != nil {
			spin.Stop()
			return fmt.Errorf("loading sale: %w", err)
		}
		approved := false
		if s.wallet != nil {
			allowance, err := s.reader.Allowance(ctx, s.Account(), s.addrs.Sale)
			if err != nil {
				log.Debug("allowance check failed, assuming not enabled", zap.Error(err))
			} else {
				approved = allowance.Sign() > 0
			}
		}
		spin.Stop()

		report := newStatusReport(snap, approved)
		if statusJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n\n", ui.ChainName(s.Network()), ui.Addr(s.Account().Hex()))
		fmt.Fprintln(out, ui.SaleBlock(snap, s.t))
		if s.wallet == nil {
			fmt.Fprintln(out, ui.Hint("Add a wallet to see your position: squad wallet add <name> <address>"))
			return nil
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Eligibility", report.pairs()))
		if next := nextStep(snap, approved); next != "" {
			fmt.Fprintln(out, ui.Hint(next))
		}
		return nil
	},
}

// statusReport is the machine-readable form of `squad status`.
type statusReport struct {
	Account        string `json:"account"`
	Phase          string `json:"phase"`
	Profile        string `json:"profile"`
	Approved       bool   `json:"cake_enabled"`
	PricePerTicket string `json:"price_per_ticket"`
	CakeBalance    string `json:"cake_balance"`
	TicketsOfUser  int    `json:"tickets"`
	MaxPurchase    int    `json:"max_purchase"`

	sale.Eligibility
}

func newStatusReport(snap sale.Snapshot, approved bool) statusReport {
	return statusReport{
		Account:        snap.Account.Hex(),
		Phase:          snap.SaleStatus.String(),
		Profile:        snap.UserStatus.String(),
		Approved:       approved,
		PricePerTicket: bigString(snap.Facts.PricePerTicket),
		CakeBalance:    bigString(snap.Facts.CakeBalance),
		TicketsOfUser:  snap.Facts.TicketsOfUser,
		MaxPurchase:    sale.MaxPurchase(snap.SaleStatus, snap.Facts),
		Eligibility:    snap.Eligibility(approved),
	}
}

func (r statusReport) pairs() [][2]string {
	return [][2]string{
		{"CAKE spending", yesNo(r.Approved, "enabled", "not enabled")},
		{"Can buy (public sale)", yesNo(r.CanBuySaleTicket, "yes", "no")},
		{"Can buy now", yesNo(r.CanBuyTickets, "yes", "no")},
		{"Ready", yesNo(r.IsUserReady, "yes", "no")},
		{"Can mint", yesNo(r.CanMintTickets, "yes", "no")},
		{"Max this purchase", fmt.Sprint(r.MaxPurchase)},
	}
}

// nextStep suggests the command that moves the account forward.
func nextStep(snap sale.Snapshot, approved bool) string {
	el := snap.Eligibility(approved)
	switch sale.HeaderButton(snap.UserStatus, snap.SaleStatus, snap.Facts) {
	case sale.ButtonActivate:
		return "Activate a Pancake profile before buying tickets."
	case sale.ButtonMint:
		return "Mint your NFTs: squad mint"
	case sale.ButtonBuy:
		switch {
		case !approved:
			return "Enable CAKE spending first: squad enable"
		case el.CanBuyTickets:
			return "Buy tickets: squad buy --tickets <n>"
		case el.IsUserReady:
			return sale.ReadyText(snap.UserStatus, i18n.English)
		}
	}
	return ""
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return ui.StyleSuccess.Render(yes)
	}
	return ui.Meta(no)
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the status as JSON")
}
