package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/rpc"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Inspect RPC endpoints",
}

var rpcListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the RPC endpoints for the current network mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
		if err != nil {
			return fmt.Errorf("network %q: %w", cfg.DefaultNetwork, err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.StyleTitle.Render("RPCs for "+c.NetworkLabel(cfg.NetworkMode)))
		for _, r := range cfg.GetRPCs(cfg.NetworkMode) {
			fmt.Fprintf(out, "  %s %s\n", ui.Meta("(custom) "), r)
		}
		for _, r := range c.RPCs(cfg.NetworkMode) {
			fmt.Fprintf(out, "  %s %s\n", ui.Meta("(built-in)"), r)
		}
		return nil
	},
}

var rpcBenchCmd = &cobra.Command{
	Use:     "bench",
	Aliases: []string{"benchmark"},
	Short:   "Benchmark the RPC endpoints and show which one would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
		if err != nil {
			return fmt.Errorf("network %q: %w", cfg.DefaultNetwork, err)
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}
		urls := append(append([]string(nil), cfg.GetRPCs(cfg.NetworkMode)...), c.RPCs(cfg.NetworkMode)...)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Benchmarking "+c.NetworkLabel(cfg.NetworkMode)+" RPCs..."))

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout+config.ReadTimeout)
		defer cancel()
		results := rpc.Benchmark(ctx, urls, config.RPCSelectTimeout)
		winner, pickErr := rpc.NewPicker(algo).Pick(results)

		fmt.Fprintln(out, benchTable(results, winner.URL).Render())
		if pickErr != nil {
			return pickErr
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s picks %s", algo, winner.URL)))
		return nil
	},
}

func benchTable(results []rpc.Endpoint, selected string) *ui.Table {
	t := ui.NewTable([]ui.Column{
		{Title: "RPC URL", Width: 48},
		{Title: "Latency", Width: 10},
		{Title: "Block #", Width: 12},
		{Title: "Status", Width: 34},
	})
	for _, r := range results {
		status := ui.StyleSuccess.Render("healthy")
		latency := fmt.Sprintf("%dms", r.Latency.Milliseconds())
		block := fmt.Sprintf("%d", r.BlockNumber)
		if r.Err != nil {
			status = ui.StyleError.Render(r.Err.Error())
			latency, block = "-", "-"
		}
		url := r.URL
		if url == selected {
			url = "▸ " + url
		}
		t.AddRow(ui.Row{url, latency, block, status})
	}
	t.SelIdx = slices.IndexFunc(results, func(e rpc.Endpoint) bool { return e.URL == selected })
	return t
}

var rpcAlgorithmCmd = &cobra.Command{
	Use:       "algorithm <fastest|round-robin|failover>",
	Short:     "Set the RPC selection algorithm",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(rpc.AlgorithmFastest), string(rpc.AlgorithmRoundRobin), string(rpc.AlgorithmFailover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, err := rpc.ParseAlgorithm(args[0])
		if err != nil {
			return err
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("RPC algorithm set to %q", algo)))
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcListCmd, rpcBenchCmd, rpcAlgorithmCmd)
}
