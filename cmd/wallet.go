package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/Mohsinsiddi/squadcli/internal/wallet"
	"github.com/spf13/cobra"
)

var walletKeyFlag string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a signing wallet with --key, or a watch-only wallet with an address.

Private keys are kept in the OS keychain (or an encrypted file keyring under
the config directory when no keychain is available). Pass --key - to read
the key from stdin instead of the command line.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}

		if walletKeyFlag != "" {
			key := walletKeyFlag
			if key == "-" {
				line, err := bufio.NewReader(ui.Input).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key from stdin: %w", err)
				}
				key = strings.TrimSpace(line)
			}
			if err := mgr.AddWithKey(name, key); err != nil {
				return err
			}
			w, err := mgr.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
		} else {
			if len(args) < 2 {
				return fmt.Errorf("address required for watch-only wallet\n  Usage: squad wallet add <name> <address>\n  Or for signing: squad wallet add <name> --key <private-key>")
			}
			if err := mgr.AddWatchOnly(name, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(args[1]))))
		}
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Set as default with: squad wallet use %s", name)))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		if len(wallets) == 0 {
			fmt.Fprintln(out, ui.Info("No wallets configured yet."))
			fmt.Fprintln(out, ui.Hint("Add one with: squad wallet add main --key -"))
			return nil
		}
		fmt.Fprintln(out, walletTable(wallets, cfg.DefaultWallet).Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		if !ui.ConfirmDanger(out, fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		} else if name, err = pickWallet(mgr); err != nil || name == "" {
			return err
		}
		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		return nil
	},
}

func pickWallet(mgr *wallet.Manager) (string, error) {
	wallets, err := mgr.List()
	if err != nil {
		return "", err
	}
	items := make([]ui.PickerItem, len(wallets))
	for i, w := range wallets {
		items[i] = ui.PickerItem{
			Label:    w.Name,
			SubLabel: ui.TruncateAddr(w.Address) + "  " + walletTypeLabel(w.Type),
			Value:    w.Name,
		}
	}
	return ui.PickItem("Default Wallet", items, cfg.DefaultWallet)
}

func walletTable(wallets []*wallet.Wallet, current string) *ui.Table {
	t := ui.NewTable([]ui.Column{
		{Title: "Name", Width: 16},
		{Title: "Address", Width: 44},
		{Title: "Type", Width: 12},
		{Title: "Default", Width: 8},
	})
	for _, w := range wallets {
		def := ""
		if w.Name == current || (current == "" && w.IsDefault) {
			def = ui.StyleSuccess.Render("✓")
		}
		t.AddRow(ui.Row{
			ui.Val(w.Name),
			ui.Addr(w.Address),
			ui.Meta(walletTypeLabel(w.Type)),
			def,
		})
	}
	return t
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	if t == wallet.TypeSigning {
		return "read-write"
	}
	return t
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet, or - to read it from stdin")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}
