package config

// Config holds all squad configuration.
type Config struct {
	DefaultNetwork string              `json:"default_network"`
	DefaultWallet  string              `json:"default_wallet"`
	NetworkMode    string              `json:"network_mode"`  // "mainnet" | "testnet"
	RPCAlgorithm   string              `json:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	RefreshSeconds int                 `json:"refresh_seconds"`
	LogLevel       string              `json:"log_level"`
	CustomRPCs     map[string][]string `json:"custom_rpcs"`
	WSURLs         map[string]string   `json:"ws_urls,omitempty"` // keyed by network mode

	// Contracts overrides the built-in address table, keyed by contract
	// name then chain ID ("97", "56").
	Contracts map[string]map[string]string `json:"contracts,omitempty"`

	// internal: config dir path used for Save()
	configDir string
}
