package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Mohsinsiddi/squadcli/internal/actions"
	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	buyTickets int
	buyEnable  bool
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy minting tickets",
	Long: `Buy minting tickets with CAKE. During the pre-sale only gen0 profile
holders can buy, up to their allocation; in the public sale every active
profile can buy up to the per-address cap.

Without --tickets a picker lists the counts you can buy now.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.TxConfirmTimeout)
		defer cancel()

		s, err := openSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.Close()

		spin := ui.NewSpinner(os.Stderr, "Loading sale…")
		spin.Start()
		snap, err := s.Load(ctx)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("loading sale: %w", err)
		}
		if !snap.SaleStatus.Buying() {
			return fmt.Errorf("%w (phase: %s)", sale.ErrSaleClosed, snap.SaleStatus)
		}

		n := buyTickets
		if n == 0 {
			if n, err = pickTickets(snap); err != nil || n == 0 {
				return err
			}
		}
		if err := sale.ValidatePurchase(snap.SaleStatus, snap.Facts, n); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		buy := newBuyAction(s, out)
		buy.Init(ctx)

		fmt.Fprintln(out, ui.KeyValueBlock("Buy Minting Tickets", [][2]string{
			{"Wallet", ui.Addr(s.Account().Hex())},
			{"Phase", snap.SaleStatus.String()},
			{"Tickets", strconv.Itoa(n)},
			{"Cost", ui.FormatCake(sale.Cost(snap.Facts, n))},
			{"Balance", ui.FormatCake(snap.Facts.CakeBalance)},
			{"Network", s.Network()},
		}))

		if !buy.State().IsApproved() {
			if !buyEnable {
				return fmt.Errorf("%w: run `squad enable` or pass --enable", actions.ErrNotApproved)
			}
			if !confirmed(out, "CAKE spending is not enabled. Send the approval first?") {
				fmt.Fprintln(out, ui.Meta("Cancelled."))
				return nil
			}
			if err := buy.Enable(ctx); err != nil {
				return err
			}
		}

		if !confirmed(out, fmt.Sprintf("Buy %d ticket(s)?", n)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		if err := buy.Buy(ctx, snap, n); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Bought %d ticket(s).", n)))
		return nil
	},
}

// pickTickets asks for a ticket count. Zero means the user cancelled.
func pickTickets(snap sale.Snapshot) (int, error) {
	items := ticketChoices(snap)
	if len(items) == 0 {
		return 0, errors.New("no tickets left to buy for this wallet")
	}
	picked, err := ui.PickItem("Buy Minting Tickets", items, "1")
	if err != nil || picked == "" {
		return 0, err
	}
	return strconv.Atoi(picked)
}

func init() {
	buyCmd.Flags().IntVarP(&buyTickets, "tickets", "n", 0, "number of tickets (default: pick interactively)")
	buyCmd.Flags().BoolVar(&buyEnable, "enable", false, "enable CAKE spending first when needed")
	buyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
