package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/logger"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/squadcli/cmd.Version=1.2.3" .
var Version = ui.Version

var (
	cfgDir     string
	cfg        *config.Config
	log        = zap.NewNop()
	verbose    bool
	testnet    bool
	mainnet    bool
	walletFlag string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "squad",
	Short: "Pancake Squad sale client",
	Long: `squad buys Pancake Squad minting tickets and mints the NFTs from the terminal.

  squad status              sale phase, caps and your position
  squad enable              allow the sale contract to spend CAKE
  squad buy --tickets 2     buy minting tickets
  squad mint                mint every ticket you hold
  squad dashboard           live view with the same actions

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. Persist with: squad config set-mode <mode>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}

		log, err = logger.New(logger.Configuration{
			LogFile: cfg.LogPath(),
			Level:   logLevel(),
			Console: verbose,
		})
		if err != nil {
			return err
		}
		log.Debug("config loaded",
			zap.String("dir", cfg.Dir()),
			zap.String("mode", cfg.NetworkMode),
			zap.String("command", cmd.CommandPath()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		log.Error("command failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func logLevel() string {
	if verbose {
		return "debug"
	}
	return cfg.LogLevel
}

func init() {
	// SQUAD_CONFIG_DIR overrides the default of ~/.squad.
	if envDir := os.Getenv("SQUAD_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.squad)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr at debug level")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use BSC testnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use BSC mainnet")
	rootCmd.PersistentFlags().StringVarP(&walletFlag, "wallet", "w", "", "wallet name (default: configured wallet)")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		statusCmd,
		enableCmd,
		buyCmd,
		mintCmd,
		dashboardCmd,
		walletCmd,
		configCmd,
		historyCmd,
		rpcCmd,
	)
}
