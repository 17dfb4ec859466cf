package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the configuration and resolved contract addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Fprintln(out, string(data))

		c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
		if err != nil {
			return fmt.Errorf("network %q: %w", cfg.DefaultNetwork, err)
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Contracts on "+c.NetworkLabel(cfg.NetworkMode),
			contractPairs(cfg, c.ChainID(cfg.NetworkMode))))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetRPCCmd = &cobra.Command{
	Use:   "set-rpc <url>",
	Short: "Add a custom RPC endpoint for the current network mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("invalid RPC URL %q (want http:// or https://)", url)
		}
		out := cmd.OutOrStdout()
		if err := cfg.AddRPC(cfg.NetworkMode, url); err != nil {
			fmt.Fprintln(out, ui.Warn(err.Error()))
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("RPC for %s set to %s", cfg.NetworkMode, url)))
		return nil
	},
}

var configSetAddressCmd = &cobra.Command{
	Use:   "set-address <contract> <address>",
	Short: "Override a contract address for the current network",
	Long: fmt.Sprintf(`Override the address of a contract on the current network.

Contracts: %s`, strings.Join(config.ContractNames, ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
		if err != nil {
			return fmt.Errorf("network %q: %w", cfg.DefaultNetwork, err)
		}
		chainID := c.ChainID(cfg.NetworkMode)
		if err := cfg.SetContractAddress(args[0], chainID, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s on chain %d set to %s", args[0], chainID, ui.Addr(args[1]))))
		return nil
	},
}

var configSetModeCmd = &cobra.Command{
	Use:       "set-mode <mainnet|testnet>",
	Short:     "Persist the network mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"mainnet", "testnet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := args[0]
		if mode != "mainnet" && mode != "testnet" {
			return fmt.Errorf("invalid mode %q (choose mainnet or testnet)", mode)
		}
		cfg.NetworkMode = mode
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Network mode set to %s", mode)))
		return nil
	},
}

// contractPairs lists every known contract address on chainID.
func contractPairs(c *config.Config, chainID int64) [][2]string {
	pairs := make([][2]string, 0, len(config.ContractNames))
	for _, name := range config.ContractNames {
		addr, err := c.ContractAddress(name, chainID)
		value := ui.Addr(addr.Hex())
		if err != nil {
			value = ui.Meta("not configured")
		}
		pairs = append(pairs, [2]string{name, value})
	}
	return pairs
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetRPCCmd, configSetAddressCmd, configSetModeCmd)
}
