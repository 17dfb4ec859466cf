package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs transactions for a signing wallet. The key is fetched from
// Keys on every call and never cached.
type Signer struct {
	wallet *Wallet
	keys   Keys
}

// NewSigner creates a signer for the given wallet.
func NewSigner(w *Wallet, keys Keys) *Signer {
	return &Signer{wallet: w, keys: keys}
}

// Address returns the wallet's address.
func (s *Signer) Address() common.Address {
	return s.wallet.Account()
}

// SignTx signs tx for chainID.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if !s.wallet.CanSign() {
		return nil, fmt.Errorf("%w: %s", ErrWatchOnly, s.wallet.Name)
	}

	hexKey, err := s.keys.Retrieve(s.wallet.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if got := crypto.PubkeyToAddress(privKey.PublicKey); got != s.Address() {
		return nil, fmt.Errorf("stored key for %s belongs to %s", s.wallet.Name, got.Hex())
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}
