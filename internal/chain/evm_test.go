package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcMock creates a test HTTP server that responds to JSON-RPC calls.
// responses maps method name → result value.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
	}))
}

// rpcBadJSON creates a server that returns malformed JSON.
func rpcBadJSON(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
}

// ---------------------------------------------------------------------------
// Simple reads
// ---------------------------------------------------------------------------

func TestChainID(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0x61"})
	defer srv.Close()

	id, err := NewEVMClient(srv.URL).ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(97), id.Int64())
}

func TestBlockNumberAndPing(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_blockNumber": "0x100"})
	defer srv.Close()

	c := NewEVMClient(srv.URL)
	n, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(256), n)

	latency, block, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(256), block)
	assert.Greater(t, latency, time.Duration(0))
}

func TestGasPriceAndNonce(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_gasPrice":            "0x12a05f200",
		"eth_getTransactionCount": "0x7",
		"eth_getBalance":          "0xde0b6b3a7640000",
	})
	defer srv.Close()

	c := NewEVMClient(srv.URL)
	gp, err := c.GasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5_000_000_000), gp)

	nonce, err := c.PendingNonce(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)

	bal, err := c.Balance(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}

func TestCallReturnsBytes(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_call": "0x000000000000000000000000000000000000000000000000000000000000002a"})
	defer srv.Close()

	out, err := NewEVMClient(srv.URL).Call(context.Background(), common.HexToAddress("0x02"), []byte{0x01})
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.Equal(t, byte(42), out[31])
}

func TestEstimateGas(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_estimateGas": "0x5208"})
	defer srv.Close()

	gas, err := NewEVMClient(srv.URL).EstimateGas(context.Background(), common.HexToAddress("0x01"), common.HexToAddress("0x02"), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gas)
}

func TestSendRawTransaction(t *testing.T) {
	want := "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
	srv := rpcMock(t, map[string]interface{}{"eth_sendRawTransaction": want})
	defer srv.Close()

	to := common.HexToAddress("0x02")
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
	hash, err := NewEVMClient(srv.URL).SendRawTransaction(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(want), hash)
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestRPCErrorIsTyped(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{})
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).GasPrice(context.Background())
	require.Error(t, err)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestBadJSONErrors(t *testing.T) {
	srv := rpcBadJSON(t)
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).BlockNumber(context.Background())
	assert.Error(t, err)
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).BlockNumber(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestRateLimitedRequestIsRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x10"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	n, err := NewEVMClient(srv.URL).BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)
	assert.Equal(t, int32(2), hits.Load())
}

// ---------------------------------------------------------------------------
// Receipts
// ---------------------------------------------------------------------------

func TestTransactionReceiptSuccess(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x1",
			"blockNumber": "0x100",
			"gasUsed":     "0x5208",
		},
	})
	defer srv.Close()

	hash := common.HexToHash("0xaa")
	receipt, err := NewEVMClient(srv.URL).TransactionReceipt(context.Background(), hash)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, uint64(256), receipt.BlockNumber)
	assert.Equal(t, uint64(21000), receipt.GasUsed)
	assert.Equal(t, hash, receipt.Hash)
}

func TestTransactionReceiptPending(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getTransactionReceipt": nil})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).TransactionReceipt(context.Background(), common.HexToHash("0xbb"))
	require.NoError(t, err)
	assert.Nil(t, receipt, "pending tx should return nil receipt")
}

func TestWaitForReceiptReverted(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{"status": "0x0", "blockNumber": "0x2", "gasUsed": "0x1"},
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).WaitForReceipt(context.Background(), common.HexToHash("0xcc"), 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrReverted)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(0), receipt.Status)
}

func TestWaitForReceiptPollsUntilMined(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"status":"0x1","blockNumber":"0x9","gasUsed":"0x1"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).WaitForReceipt(context.Background(), common.HexToHash("0xdd"), 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), receipt.BlockNumber)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitForReceiptContextCancelled(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getTransactionReceipt": nil})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := NewEVMClient(srv.URL).WaitForReceipt(ctx, common.HexToHash("0xee"), 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistryBNB(t *testing.T) {
	c, err := NewRegistry().GetByName("BNB")
	require.NoError(t, err)

	assert.Equal(t, int64(97), c.ChainID("testnet"))
	assert.Equal(t, int64(56), c.ChainID("mainnet"))
	assert.NotEmpty(t, c.RPCs("testnet"))
	assert.Equal(t, "https://testnet.bscscan.com/tx/0xabc", c.TxURL("testnet", "0xabc"))
	assert.Equal(t, "BNB Chain (BSC Testnet)", c.NetworkLabel("testnet"))
	assert.Equal(t, "BNB Chain", c.NetworkLabel("mainnet"))
}

func TestRegistryUnknownChain(t *testing.T) {
	_, err := NewRegistry().GetByName("ethereum")
	assert.ErrorIs(t, err, ErrChainNotFound)
}
