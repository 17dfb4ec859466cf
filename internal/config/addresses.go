package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// ErrAddressNotConfigured is returned when no address is known for a
// contract on the requested chain.
var ErrAddressNotConfigured = errors.New("contract address not configured")

// Contract names understood by ContractAddress.
const (
	ContractSquad   = "squad"   // Pancake Squad ERC-721 collection
	ContractNFTSale = "nftSale" // ticket sale / mint contract
	ContractCake    = "cake"    // CAKE ERC-20, the payment token
	ContractProfile = "profile" // Pancake profile registry
)

// ContractNames lists every contract name in display order.
var ContractNames = []string{ContractNFTSale, ContractCake, ContractProfile, ContractSquad}

// builtinAddresses is keyed by contract name then chain ID. An empty string
// means the deployment is not known and must come from config.
var builtinAddresses = map[string]map[int64]string{
	ContractSquad: {
		56: "",
		97: "0x7F9F37Ddcaa33893F9bEB3D8748c8D6BfbDE6AB2",
	},
	ContractNFTSale: {
		56: "",
		97: "",
	},
	ContractCake: {
		56: "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82",
		97: "",
	},
	ContractProfile: {
		56: "0xDf4dBf6536201370F95e06A0F8a7a70fE40E388a",
		97: "",
	},
}

// ContractAddress resolves a contract address for chainID. A config
// override wins over the built-in table.
func (c *Config) ContractAddress(name string, chainID int64) (common.Address, error) {
	id := strconv.FormatInt(chainID, 10)
	if byChain, ok := c.Contracts[name]; ok {
		if addr := byChain[id]; addr != "" {
			return parseAddress(name, addr)
		}
	}
	if addr := builtinAddresses[name][chainID]; addr != "" {
		return parseAddress(name, addr)
	}
	return common.Address{}, fmt.Errorf("%w: %s on chain %d (set it with `squad config set-address %s <address>`)",
		ErrAddressNotConfigured, name, chainID, name)
}

// SetContractAddress stores an override for name on chainID.
func (c *Config) SetContractAddress(name string, chainID int64, addr string) error {
	if _, ok := builtinAddresses[name]; !ok {
		return fmt.Errorf("unknown contract %q", name)
	}
	if !common.IsHexAddress(addr) {
		return fmt.Errorf("invalid address %q", addr)
	}
	if c.Contracts == nil {
		c.Contracts = make(map[string]map[string]string)
	}
	if c.Contracts[name] == nil {
		c.Contracts[name] = make(map[string]string)
	}
	c.Contracts[name][strconv.FormatInt(chainID, 10)] = common.HexToAddress(addr).Hex()
	return nil
}

func parseAddress(name, addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, addr)
	}
	return common.HexToAddress(addr), nil
}
