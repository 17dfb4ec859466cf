package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Reconnect backoff bounds for HeadSubscriber.
const (
	headsInitialBackoff = 1 * time.Second
	headsMaxBackoff     = 30 * time.Second
)

// HeadSubscriber streams new block numbers from an eth_subscribe("newHeads")
// websocket, reconnecting with exponential backoff.
type HeadSubscriber struct {
	url    string
	dialer websocket.Dialer
	log    *zap.Logger
}

// NewHeadSubscriber creates a subscriber for the websocket endpoint url.
func NewHeadSubscriber(url string, log *zap.Logger) *HeadSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &HeadSubscriber{
		url:    url,
		dialer: websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    log,
	}
}

// Run delivers block numbers on out until ctx is cancelled. Sends never block:
// a head is dropped when the consumer has not drained the previous one.
func (s *HeadSubscriber) Run(ctx context.Context, out chan<- uint64) {
	backoff := headsInitialBackoff
	for {
		err := s.subscribeOnce(ctx, out, func() { backoff = headsInitialBackoff })
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("head subscription dropped", zap.Error(err), zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > headsMaxBackoff {
			backoff = headsMaxBackoff
		}
	}
}

type subscriptionMsg struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	Params *struct {
		Subscription string `json:"subscription"`
		Result       struct {
			Number hexutil.Uint64 `json:"number"`
		} `json:"result"`
	} `json:"params"`
}

func (s *HeadSubscriber) subscribeOnce(ctx context.Context, out chan<- uint64, connected func()) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", s.url, err)
	}
	defer conn.Close()

	// Unblock ReadJSON when the caller goes away.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	req := rpcRequest{JSONRPC: "2.0", Method: "eth_subscribe", Params: []any{"newHeads"}, ID: 1}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}

	var ack subscriptionMsg
	if err := conn.ReadJSON(&ack); err != nil {
		return fmt.Errorf("reading subscription ack: %w", err)
	}
	if ack.Error != nil {
		return ack.Error
	}
	connected()
	s.log.Debug("subscribed to new heads", zap.String("url", s.url), zap.ByteString("subscription", ack.Result))

	for {
		var msg subscriptionMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		if msg.Params == nil {
			continue
		}
		select {
		case out <- uint64(msg.Params.Result.Number):
		default:
		}
	}
}
