package wallet_test

import (
	"errors"
	"testing"

	"github.com/Mohsinsiddi/squadcli/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0. Never fund on mainnet.
const (
	testKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	require.NoError(t, mgr.AddWatchOnly("watcher", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))

	w, err := mgr.Get("watcher")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.Equal(t, testAddr, w.Address, "address is stored checksummed")
	assert.False(t, w.CanSign())
}

func TestAddWatchOnlyRejectsBadAddress(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	err := mgr.AddWatchOnly("bad", "0x123")
	assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWatchOnly("dup", testAddr))

	assert.ErrorIs(t, mgr.AddWatchOnly("dup", testAddr), wallet.ErrWalletExists)
	assert.ErrorIs(t, mgr.AddWithKey("dup", testKey), wallet.ErrWalletExists)
}

func TestAddSigningWallet(t *testing.T) {
	keys := wallet.NewMemoryKeys()
	mgr := wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeys(keys))

	require.NoError(t, mgr.AddWithKey("signer", testKey))

	w, err := mgr.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, testAddr, w.Address)
	assert.NotEmpty(t, w.CreatedAt)

	stored, err := keys.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testKey, stored)
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	err := mgr.AddWithKey("bad", "not-a-valid-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestListWalletsSorted(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	for _, n := range []string{"w3", "w1", "w2"} {
		require.NoError(t, mgr.AddWatchOnly(n, testAddr))
	}

	wallets, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	assert.Equal(t, "w1", wallets[0].Name)
	assert.Equal(t, "w3", wallets[2].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	keys := wallet.NewMemoryKeys()
	mgr := wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeys(keys))
	require.NoError(t, mgr.AddWithKey("w1", testKey))
	w, _ := mgr.Get("w1")
	ref := w.KeyRef

	require.NoError(t, mgr.Remove("w1"))

	_, err := mgr.Get("w1")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = keys.Retrieve(ref)
	assert.ErrorIs(t, err, wallet.ErrKeyNotFound)
}

func TestRemoveNonExistentWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.ErrorIs(t, mgr.Remove("ghost"), wallet.ErrWalletNotFound)
}

func TestFirstWalletBecomesDefault(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWatchOnly("first", testAddr))
	require.NoError(t, mgr.AddWatchOnly("second", testAddr))

	w, err := mgr.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "first", w.Name)
}

func TestSetDefault(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWatchOnly("w1", testAddr))
	require.NoError(t, mgr.AddWatchOnly("w2", testAddr))

	require.NoError(t, mgr.SetDefault("w2"))

	def, err := mgr.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "w2", def.Name)

	assert.ErrorIs(t, mgr.SetDefault("ghost"), wallet.ErrWalletNotFound)
}

func TestResolveByNameAndEmpty(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.Resolve("")
	assert.ErrorIs(t, err, wallet.ErrNoWallet)

	require.NoError(t, mgr.AddWatchOnly("named", testAddr))
	w, err := mgr.Resolve("named")
	require.NoError(t, err)
	assert.Equal(t, "named", w.Name)
}

func TestSignerRequiresSigningWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWatchOnly("watch", testAddr))
	w, _ := mgr.Get("watch")

	_, err := mgr.Signer(w)
	assert.True(t, errors.Is(err, wallet.ErrWatchOnly))
}
