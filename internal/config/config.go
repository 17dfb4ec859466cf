package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const (
	defaultNetwork   = "bnb"
	defaultMode      = "testnet"
	defaultAlgorithm = "fastest"
	defaultRefresh   = 6
	defaultLogLevel  = "info"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	historyFile = "history.db"
	logFile     = "squad.log"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.squad.
// Environment overrides (see ApplyEnv) are applied on top of the file.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".squad")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = defaultRefresh
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddRPC adds a custom RPC URL for a network mode.
func (c *Config) AddRPC(mode, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[mode], url) {
		return fmt.Errorf("RPC %s already exists for %s", url, mode)
	}
	c.CustomRPCs[mode] = append(c.CustomRPCs[mode], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a network mode.
func (c *Config) RemoveRPC(mode, url string) error {
	rpcs := c.CustomRPCs[mode]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for %s", url, mode)
	}
	c.CustomRPCs[mode] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a network mode.
func (c *Config) GetRPCs(mode string) []string {
	return c.CustomRPCs[mode]
}

// WSURL returns the websocket endpoint for the current network mode, if any.
func (c *Config) WSURL() string {
	return c.WSURLs[c.NetworkMode]
}

// RefreshInterval is the dashboard polling interval used when no websocket
// endpoint is configured.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is the wallets.json location.
func (c *Config) WalletsPath() string { return filepath.Join(c.configDir, walletsFile) }

// HistoryPath is the sqlite database holding transaction attempts.
func (c *Config) HistoryPath() string { return filepath.Join(c.configDir, historyFile) }

// LogPath is the JSON log file.
func (c *Config) LogPath() string { return filepath.Join(c.configDir, logFile) }

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork: defaultNetwork,
		NetworkMode:    defaultMode,
		RPCAlgorithm:   defaultAlgorithm,
		RefreshSeconds: defaultRefresh,
		LogLevel:       defaultLogLevel,
		CustomRPCs:     make(map[string][]string),
		configDir:      dir,
	}
}
