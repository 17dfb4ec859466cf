package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/squadcli/internal/actions"
	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint an NFT for every ticket you hold",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.TxConfirmTimeout)
		defer cancel()

		s, err := openSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.Close()

		spin := ui.NewSpinner(os.Stderr, "Loading tickets…")
		spin.Start()
		snap, err := s.Load(ctx)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("loading sale: %w", err)
		}

		out := cmd.OutOrStdout()
		mint := newMintAction(s, out)
		if _, ok := mint.Control(snap); !ok {
			return fmt.Errorf("%w (phase: %s, tickets: %d)", actions.ErrNothingToMint, snap.SaleStatus, snap.Facts.TicketsOfUser)
		}

		ids := make([]string, len(snap.Facts.TicketIDs))
		for i, id := range snap.Facts.TicketIDs {
			ids[i] = id.String()
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Mint NFTs", [][2]string{
			{"Wallet", ui.Addr(s.Account().Hex())},
			{"Tickets", fmt.Sprint(snap.Facts.TicketsOfUser)},
			{"Ticket ids", strings.Join(ids, ", ")},
			{"Network", s.Network()},
		}))
		if !confirmed(out, fmt.Sprintf("Mint %d NFT(s)?", len(ids))) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}

		if err := mint.Mint(ctx, snap); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Minted %d NFT(s).", len(ids))))
		return nil
	},
}

func init() {
	mintCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
