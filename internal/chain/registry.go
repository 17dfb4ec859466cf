package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds all metadata for a single chain.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	MainnetChainID  int64    `json:"mainnet_chain_id"`
	TestnetChainID  int64    `json:"testnet_chain_id"`
	NativeCurrency  string   `json:"native_currency"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	TestnetName     string   `json:"testnet_name"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
}

// NewRegistry returns the registry of chains the sale is deployed on.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
	}
	for i := range r.chains {
		r.byName[r.chains[i].Name] = &r.chains[i]
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "bnb").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// RPCs returns the RPC list for a chain in the given mode ("mainnet"/"testnet").
func (c *Chain) RPCs(mode string) []string {
	if mode == "testnet" {
		return c.TestnetRPCs
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer URL for a chain in the given mode.
func (c *Chain) Explorer(mode string) string {
	if mode == "testnet" {
		return c.TestnetExplorer
	}
	return c.MainnetExplorer
}

// TxURL links a transaction hash on the explorer for mode.
func (c *Chain) TxURL(mode, hash string) string {
	return c.Explorer(mode) + "/tx/" + hash
}

// ChainID returns the numeric chain ID for mode.
func (c *Chain) ChainID(mode string) int64 {
	if mode == "testnet" {
		return c.TestnetChainID
	}
	return c.MainnetChainID
}

// NetworkLabel is a display label such as "BNB Chain (BSC Testnet)".
func (c *Chain) NetworkLabel(mode string) string {
	if mode == "testnet" {
		return c.DisplayName + " (" + c.TestnetName + ")"
	}
	return c.DisplayName
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "bnb", DisplayName: "BNB Chain",
			MainnetChainID: 56, TestnetChainID: 97,
			NativeCurrency:  "BNB",
			MainnetRPCs:     []string{"https://bsc-dataseed.binance.org", "https://bsc-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://data-seed-prebsc-1-s1.binance.org:8545", "https://bsc-testnet-rpc.publicnode.com"},
			MainnetExplorer: "https://bscscan.com",
			TestnetExplorer: "https://testnet.bscscan.com",
			TestnetName:     "BSC Testnet",
		},
	}
}
