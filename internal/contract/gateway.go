package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ErrReverted marks a transaction that was mined with a failure status.
var ErrReverted = chain.ErrReverted

// ErrNotWriteMethod is returned when Send is asked to call a view function.
var ErrNotWriteMethod = errors.New("not a state-changing method")

const (
	defaultGasLimit     = 300_000
	defaultPollInterval = 2 * time.Second
)

// Backend is the slice of the JSON-RPC client the gateway needs.
type Backend interface {
	GasPrice(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	EstimateGas(ctx context.Context, from, to common.Address, data []byte) (uint64, error)
	SendRawTransaction(ctx context.Context, tx *types.Transaction) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash, poll time.Duration) (*chain.TxReceipt, error)
}

// TxSigner signs transactions for a single account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Receipt is the outcome of a mined transaction.
type Receipt struct {
	TxHash      common.Hash
	Status      bool
	BlockNumber uint64
	GasUsed     uint64
}

// Pending is a broadcast transaction awaiting inclusion.
type Pending interface {
	Hash() common.Hash
	// Wait blocks until the transaction is mined or ctx is done. A reverted
	// transaction yields a receipt with Status false and a nil error.
	Wait(ctx context.Context) (*Receipt, error)
}

// Gateway signs and broadcasts contract calls.
type Gateway struct {
	backend   Backend
	signer    TxSigner
	chainID   *big.Int
	poll      time.Duration
	gasLimits map[string]uint64
	log       *zap.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithPollInterval sets how often receipts are polled.
func WithPollInterval(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.poll = d }
}

// WithGasLimit sets the gas limit used for method when estimation fails.
func WithGasLimit(method string, gas uint64) GatewayOption {
	return func(g *Gateway) { g.gasLimits[method] = gas }
}

// WithLogger sets the gateway logger.
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGateway creates a Gateway sending from signer's account on chainID.
func NewGateway(backend Backend, signer TxSigner, chainID *big.Int, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		backend:   backend,
		signer:    signer,
		chainID:   chainID,
		poll:      defaultPollInterval,
		gasLimits: make(map[string]uint64),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// From is the sending account.
func (g *Gateway) From() common.Address { return g.signer.Address() }

// Send encodes method(args...) on b, signs it as a legacy transaction priced
// at eth_gasPrice, and broadcasts it.
func (g *Gateway) Send(ctx context.Context, b Bound, method string, args ...any) (Pending, error) {
	if !b.IsWrite(method) {
		return nil, fmt.Errorf("%w: %s", ErrNotWriteMethod, method)
	}
	data, err := b.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	from := g.signer.Address()

	gas, err := g.backend.EstimateGas(ctx, from, b.Address, data)
	if err != nil {
		gas = g.fallbackGas(method)
		g.log.Warn("gas estimation failed, using fallback limit",
			zap.String("method", method), zap.Uint64("gas", gas), zap.Error(err))
	} else {
		gas += gas / 5
	}

	gasPrice, err := g.backend.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}
	nonce, err := g.backend.PendingNonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	to := b.Address
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    new(big.Int),
		Data:     data,
	})
	signed, err := g.signer.SignTx(tx, g.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := g.backend.SendRawTransaction(ctx, signed)
	if err != nil {
		return nil, fmt.Errorf("broadcasting %s: %w", method, err)
	}
	g.log.Info("transaction sent",
		zap.String("method", method),
		zap.String("selector", b.MethodSelector(method)),
		zap.String("to", to.Hex()),
		zap.String("hash", hash.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas))

	return &pendingTx{hash: hash, backend: g.backend, poll: g.poll}, nil
}

func (g *Gateway) fallbackGas(method string) uint64 {
	if gas, ok := g.gasLimits[method]; ok {
		return gas
	}
	return defaultGasLimit
}

type pendingTx struct {
	hash    common.Hash
	backend Backend
	poll    time.Duration
}

func (p *pendingTx) Hash() common.Hash { return p.hash }

func (p *pendingTx) Wait(ctx context.Context) (*Receipt, error) {
	r, err := p.backend.WaitForReceipt(ctx, p.hash, p.poll)
	if r == nil {
		return nil, err
	}
	if err != nil && !errors.Is(err, chain.ErrReverted) {
		return nil, err
	}
	return &Receipt{
		TxHash:      r.Hash,
		Status:      r.Status == 1,
		BlockNumber: r.BlockNumber,
		GasUsed:     r.GasUsed,
	}, nil
}
