package sale

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Addresses locates the contracts the reader queries. A zero Profile address
// disables the profile check and every connected account counts as active.
type Addresses struct {
	Sale    common.Address
	Cake    common.Address
	Profile common.Address
}

// Reader loads snapshots from chain.
type Reader struct {
	calls        *contract.Reader
	sale         contract.Bound
	cake         contract.Bound
	profile      contract.Bound
	checkProfile bool
	log          *zap.Logger
}

// NewReader creates a Reader issuing eth_calls through caller.
func NewReader(caller contract.Caller, addrs Addresses, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{
		calls:        contract.NewReader(caller),
		sale:         contract.NFTSale(addrs.Sale),
		cake:         contract.ERC20(addrs.Cake),
		profile:      contract.Profile(addrs.Profile),
		checkProfile: addrs.Profile != (common.Address{}),
		log:          log,
	}
}

// SaleContract is the bound sale contract.
func (r *Reader) SaleContract() contract.Bound { return r.sale }

// CakeContract is the bound CAKE token.
func (r *Reader) CakeContract() contract.Bound { return r.cake }

// Allowance returns how much CAKE spender may move on owner's behalf.
func (r *Reader) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return r.calls.Big(ctx, r.cake, "allowance", owner, spender)
}

// Load reads the sale phase and caps and, for a non-zero account, its
// counters, balance and profile state. Reads run concurrently.
func (r *Reader) Load(ctx context.Context, account common.Address) (Snapshot, error) {
	snap := Snapshot{Account: account}
	f := &snap.Facts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := r.calls.Uint8(gctx, r.sale, "currentStatus")
		snap.SaleStatus = SaleStatusFromChain(v)
		return err
	})
	r.readInt(g, gctx, &f.MaxPerAddress, "maxPerAddress")
	r.readInt(g, gctx, &f.MaxPerTransaction, "maxPerTransaction")
	g.Go(func() error {
		var err error
		f.PricePerTicket, err = r.calls.Big(gctx, r.sale, "pricePerTicket")
		return err
	})

	connected := account != (common.Address{})
	active := true
	if connected {
		r.readInt(g, gctx, &f.TicketsOfUser, "viewNumberTicketsOfUser", account)
		r.readInt(g, gctx, &f.TicketsForGen0, "numberTicketsForGen0", account)
		r.readInt(g, gctx, &f.TicketsUsedForGen0, "numberTicketsUsedForGen0", account)
		g.Go(func() error {
			var err error
			f.CanClaimForGen0, err = r.calls.Bool(gctx, r.sale, "canClaimForGen0", account)
			return err
		})
		g.Go(func() error {
			var err error
			f.CakeBalance, err = r.calls.Big(gctx, r.cake, "balanceOf", account)
			return err
		})
		if r.checkProfile {
			g.Go(func() error {
				var err error
				active, err = r.calls.Bool(gctx, r.profile, "getUserStatus", account)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("loading sale state: %w", err)
	}

	switch {
	case !connected:
		snap.UserStatus = Unconnected
	case !active:
		snap.UserStatus = NoProfile
	case f.TicketsForGen0 > 0:
		snap.UserStatus = ProfileActiveGen0
	default:
		snap.UserStatus = ProfileActive
	}

	if connected && f.TicketsOfUser > 0 {
		ids, err := r.ticketIDs(ctx, account, f.TicketsOfUser)
		if err != nil {
			return Snapshot{}, err
		}
		f.TicketIDs = ids
	}

	r.log.Debug("sale snapshot loaded",
		zap.Stringer("sale_status", snap.SaleStatus),
		zap.Stringer("user_status", snap.UserStatus),
		zap.Int("tickets", f.TicketsOfUser))
	return snap, nil
}

func (r *Reader) readInt(g *errgroup.Group, ctx context.Context, dst *int, method string, args ...any) {
	g.Go(func() error {
		n, err := r.calls.Big(ctx, r.sale, method, args...)
		if err != nil {
			return err
		}
		*dst = clampInt(n)
		return nil
	})
}

func (r *Reader) ticketIDs(ctx context.Context, account common.Address, n int) ([]*big.Int, error) {
	values, err := r.calls.Read(ctx, r.sale, "ticketsOfUserBySize", account, new(big.Int), big.NewInt(int64(n)))
	if err != nil {
		return nil, fmt.Errorf("loading ticket ids: %w", err)
	}
	ids, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("ticketsOfUserBySize returned %T", values[0])
	}
	return ids, nil
}

// clampInt converts an on-chain counter. Caps such as an unlimited
// maxPerAddress can exceed int range.
func clampInt(n *big.Int) int {
	if !n.IsInt64() || n.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(n.Int64())
}
