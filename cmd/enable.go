package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Allow the sale contract to spend your CAKE",
	Long: `Send an ERC-20 approve for the ticket sale contract. This is needed once
per wallet before tickets can be bought.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.TxConfirmTimeout)
		defer cancel()

		s, err := openSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		buy := newBuyAction(s, out)
		buy.Init(ctx)
		if buy.State().IsApproved() {
			fmt.Fprintln(out, ui.Success("CAKE spending is already enabled."))
			return nil
		}

		fmt.Fprintln(out, ui.KeyValueBlock("Enable CAKE", [][2]string{
			{"Wallet", ui.Addr(s.Account().Hex())},
			{"Spender", ui.Addr(s.addrs.Sale.Hex())},
			{"Network", s.Network()},
		}))
		if !confirmed(out, "Send the approval transaction?") {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}

		if err := buy.Enable(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("CAKE spending enabled."))
		return nil
	},
}

func init() {
	enableCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
