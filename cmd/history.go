package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/Mohsinsiddi/squadcli/internal/history"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent enable, buy and mint transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		name := walletFlag
		if name == "" {
			name = cfg.DefaultWallet
		}
		w, err := mgr.Resolve(name)
		if err != nil {
			return err
		}

		c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
		if err != nil {
			return fmt.Errorf("network %q: %w", cfg.DefaultNetwork, err)
		}

		store, err := history.Open(cfg.HistoryPath(), log.Named("history"))
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(history.AccountKey(w.Account()), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, ui.Info("No transactions recorded for "+w.Name+" yet."))
			return nil
		}

		rows := historyRows(records, func(chainID int64, hash string) string {
			if hash == "" {
				return ""
			}
			for _, mode := range []string{"mainnet", "testnet"} {
				if c.ChainID(mode) == chainID {
					return c.TxURL(mode, hash)
				}
			}
			return ""
		})
		title := ui.StyleTitle.Render("History") + "  " + ui.Addr(w.Account().Hex())
		if historyPlain {
			fmt.Fprintln(out, title)
			fmt.Fprintln(out, ui.HistoryTable(rows).Render())
			return nil
		}
		return ui.RunHistory(title, rows)
	},
}

// historyRows converts records for display. txURL links a hash on a chain.
func historyRows(records []*history.Record, txURL func(chainID int64, hash string) string) []ui.HistoryRow {
	rows := make([]ui.HistoryRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ui.HistoryRow{
			Started:     r.StartedAt,
			Action:      r.Action,
			Kind:        r.Kind,
			Status:      r.Status,
			Tickets:     r.Tickets,
			Hash:        r.TxHash,
			ExplorerURL: txURL(r.ChainID, r.TxHash),
			Error:       r.Error,
		})
	}
	return rows
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "number of attempts to show")
	historyCmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive list")
}
