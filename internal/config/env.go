package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvNetworkMode = "SQUAD_NETWORK_MODE"
	EnvWallet      = "SQUAD_WALLET"
	EnvRPCURL      = "SQUAD_RPC_URL"
	EnvWSURL       = "SQUAD_WS_URL"
	EnvLogLevel    = "SQUAD_LOG_LEVEL"
	EnvRefresh     = "SQUAD_REFRESH_SECONDS"
)

// ApplyEnv overlays SQUAD_* variables (and a .env file in the working
// directory, if present) on top of the loaded file config.
// Priority: environment > .env > config.json > defaults.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvNetworkMode); v == "mainnet" || v == "testnet" {
		c.NetworkMode = v
	}
	if v := os.Getenv(EnvWallet); v != "" {
		c.DefaultWallet = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getEnvInt(EnvRefresh, 0); v > 0 {
		c.RefreshSeconds = v
	}
	if v := os.Getenv(EnvRPCURL); v != "" {
		// Env RPC takes precedence over every configured endpoint.
		c.CustomRPCs[c.NetworkMode] = []string{v}
	}
	if v := os.Getenv(EnvWSURL); v != "" {
		if c.WSURLs == nil {
			c.WSURLs = make(map[string]string)
		}
		c.WSURLs[c.NetworkMode] = v
	}
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
