package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keySigner struct{ key *ecdsa.PrivateKey }

func (k keySigner) Address() common.Address { return crypto.PubkeyToAddress(k.key.PublicKey) }

func (k keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), k.key)
}

type fakeBackend struct {
	estimateErr error
	sendErr     error
	receipt     *chain.TxReceipt
	receiptErr  error

	sent *types.Transaction
}

func (f *fakeBackend) GasPrice(context.Context) (*big.Int, error) { return big.NewInt(5e9), nil }

func (f *fakeBackend) PendingNonce(context.Context, common.Address) (uint64, error) { return 11, nil }

func (f *fakeBackend) EstimateGas(context.Context, common.Address, common.Address, []byte) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return 50_000, nil
}

func (f *fakeBackend) SendRawTransaction(_ context.Context, tx *types.Transaction) (common.Hash, error) {
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	f.sent = tx
	return tx.Hash(), nil
}

func (f *fakeBackend) WaitForReceipt(context.Context, common.Hash, time.Duration) (*chain.TxReceipt, error) {
	return f.receipt, f.receiptErr
}

func newSigner(t *testing.T) keySigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return keySigner{key: key}
}

func TestGatewaySendBuildsSignedLegacyTx(t *testing.T) {
	fb := &fakeBackend{}
	signer := newSigner(t)
	chainID := big.NewInt(97)
	sale := NFTSale(common.HexToAddress("0x00000000000000000000000000000000000000ee"))

	p, err := NewGateway(fb, signer, chainID).Send(context.Background(), sale, "buyTickets", big.NewInt(3))
	require.NoError(t, err)
	require.NotNil(t, fb.sent)

	tx := fb.sent
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, uint64(11), tx.Nonce())
	assert.Equal(t, uint64(60_000), tx.Gas(), "estimate plus a fifth")
	assert.Equal(t, big.NewInt(5e9), tx.GasPrice())
	assert.Equal(t, sale.Address, *tx.To())
	assert.Equal(t, p.Hash(), tx.Hash())

	from, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), from)

	want, err := sale.Pack("buyTickets", big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, want, tx.Data())
}

func TestGatewayFallsBackWhenEstimateFails(t *testing.T) {
	fb := &fakeBackend{estimateErr: errors.New("execution reverted")}
	gw := NewGateway(fb, newSigner(t), big.NewInt(97), WithGasLimit("mint", 1_200_000))

	_, err := gw.Send(context.Background(), NFTSale(common.Address{}), "mint", []*big.Int{big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1_200_000), fb.sent.Gas())

	_, err = gw.Send(context.Background(), NFTSale(common.Address{}), "buyTickets", big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(defaultGasLimit), fb.sent.Gas())
}

func TestGatewayRejectsViewMethod(t *testing.T) {
	_, err := NewGateway(&fakeBackend{}, newSigner(t), big.NewInt(97)).
		Send(context.Background(), ERC20(common.Address{}), "allowance", common.Address{}, common.Address{})
	assert.ErrorIs(t, err, ErrNotWriteMethod)
}

func TestGatewayBroadcastError(t *testing.T) {
	boom := errors.New("insufficient funds for gas")
	_, err := NewGateway(&fakeBackend{sendErr: boom}, newSigner(t), big.NewInt(97)).
		Send(context.Background(), ERC20(common.Address{}), "approve", common.Address{}, big.NewInt(1))
	assert.ErrorIs(t, err, boom)
}

func TestPendingWaitStatuses(t *testing.T) {
	hash := common.HexToHash("0x01")
	tests := []struct {
		name       string
		receipt    *chain.TxReceipt
		receiptErr error
		wantStatus bool
		wantErr    bool
	}{
		{"success", &chain.TxReceipt{Hash: hash, Status: 1, BlockNumber: 5, GasUsed: 42}, nil, true, false},
		{"reverted", &chain.TxReceipt{Hash: hash, Status: 0}, fmt.Errorf("%w (hash: x)", chain.ErrReverted), false, false},
		{"timeout", nil, context.DeadlineExceeded, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pendingTx{hash: hash, backend: &fakeBackend{receipt: tt.receipt, receiptErr: tt.receiptErr}}
			r, err := p.Wait(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, r.Status)
			assert.Equal(t, hash, r.TxHash)
		})
	}
}
