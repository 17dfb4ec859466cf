package cmd

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/actions"
	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/history"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const toastTTL = 8 * time.Second

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Live sale view with enable, buy and mint",
	Long: `Open a live view of the sale. It refreshes on every new block when a
websocket endpoint is configured (config ws_urls or SQUAD_WS_URL) and every
refresh_seconds otherwise.

Watch-only wallets see the sale without the buy and mint controls.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		openCtx, openCancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
		s, err := openSession(openCtx, false)
		openCancel()
		if err != nil {
			return err
		}
		defer s.Close()

		modals := &ui.ModalStack{}
		toasts := ui.NewToasts(toastTTL)

		var buy *actions.BuyTickets
		var mint *actions.Mint
		if s.gateway != nil {
			buy = actions.NewBuyTickets(s.deps(history.ActionBuy, toasts.Push), actions.BuyModals{
				Enable:  modals.Modal(ui.ModalEnable),
				Confirm: modals.Modal(ui.ModalConfirm),
				Buy:     modals.Modal(ui.ModalBuy),
			})
			buy.Init(ctx)
			mint = actions.NewMint(s.deps(history.ActionMint, toasts.Push), modals.Modal(ui.ModalMint))
		}

		var heads <-chan uint64
		if url := cfg.WSURL(); url != "" {
			ch := make(chan uint64, 1)
			go chain.NewHeadSubscriber(url, log.Named("heads")).Run(ctx, ch)
			heads = ch
			log.Debug("refreshing on new heads", zap.String("ws", url))
		}

		return ui.RunDashboard(ctx, ui.DashboardConfig{
			Network: s.Network(),
			Account: s.Account(),
			Load: func(ctx context.Context) (sale.Snapshot, error) {
				ctx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
				defer cancel()
				return s.Load(ctx)
			},
			Buy:      buy,
			Mint:     mint,
			Modals:   modals,
			Toasts:   toasts,
			Heads:    heads,
			Interval: cfg.RefreshInterval(),
			TxURL:    s.TxURL,
			T:        s.t,
		})
	},
}
