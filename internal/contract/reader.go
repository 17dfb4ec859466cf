package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoContract is returned when a read hits an address with no code, which
// shows up as empty return data.
var ErrNoContract = errors.New("no contract at address")

// Caller executes read-only eth_call requests.
type Caller interface {
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Reader calls view functions on bound contracts.
type Reader struct {
	client Caller
}

// NewReader creates a Reader on top of client.
func NewReader(client Caller) *Reader {
	return &Reader{client: client}
}

// Read calls method and returns its decoded outputs.
func (r *Reader) Read(ctx context.Context, b Bound, method string, args ...any) ([]any, error) {
	data, err := b.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	out, err := r.client.Call(ctx, b.Address, data)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoContract, b.Address.Hex(), method)
	}
	values, err := b.ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	return values, nil
}

// Big reads a single uint256 output.
func (r *Reader) Big(ctx context.Context, b Bound, method string, args ...any) (*big.Int, error) {
	v, err := r.first(ctx, b, method, args...)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, want uint256", method, v)
	}
	return n, nil
}

// Bool reads a single bool output.
func (r *Reader) Bool(ctx context.Context, b Bound, method string, args ...any) (bool, error) {
	v, err := r.first(ctx, b, method, args...)
	if err != nil {
		return false, err
	}
	ok, isBool := v.(bool)
	if !isBool {
		return false, fmt.Errorf("%s returned %T, want bool", method, v)
	}
	return ok, nil
}

// Uint8 reads a single uint8 output.
func (r *Reader) Uint8(ctx context.Context, b Bound, method string, args ...any) (uint8, error) {
	v, err := r.first(ctx, b, method, args...)
	if err != nil {
		return 0, err
	}
	n, ok := v.(uint8)
	if !ok {
		return 0, fmt.Errorf("%s returned %T, want uint8", method, v)
	}
	return n, nil
}

func (r *Reader) first(ctx context.Context, b Bound, method string, args ...any) (any, error) {
	values, err := r.Read(ctx, b, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values[0], nil
}
