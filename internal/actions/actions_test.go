package actions

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/ethereum/go-ethereum/common"
)

var (
	saleAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	cakeAddr = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	user     = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

type sentTx struct {
	to     common.Address
	method string
	args   []any
}

type fakeTx struct {
	hash     common.Hash
	reverted bool
}

func (f fakeTx) Hash() common.Hash { return f.hash }
func (f fakeTx) Wait(context.Context) (*contract.Receipt, error) {
	return &contract.Receipt{TxHash: f.hash, Status: !f.reverted, BlockNumber: 1}, nil
}

// fakeSender records transactions and answers with per-method outcomes.
type fakeSender struct {
	mu       sync.Mutex
	sent     []sentTx
	fail     map[string]error
	reverted map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{fail: map[string]error{}, reverted: map[string]bool{}}
}

func (f *fakeSender) Send(_ context.Context, b contract.Bound, method string, args ...any) (contract.Pending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentTx{to: b.Address, method: method, args: args})
	if err := f.fail[method]; err != nil {
		return nil, err
	}
	return fakeTx{hash: common.BytesToHash([]byte(method)), reverted: f.reverted[method]}, nil
}

type fakeAllowance struct {
	value *big.Int
	err   error
}

func (f fakeAllowance) Allowance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return f.value, f.err
}

type modal struct{ presented, dismissed int }

func (m *modal) Present() { m.presented++ }
func (m *modal) Dismiss() { m.dismissed++ }

type toasts struct{ messages []string }

func (t *toasts) toast(_, msg string) { t.messages = append(t.messages, msg) }

type buyFixture struct {
	sender                *fakeSender
	enable, confirm, form *modal
	toasts                *toasts
	buy                   *BuyTickets
}

func newBuyFixture(t *testing.T, allowance fakeAllowance) *buyFixture {
	t.Helper()
	f := &buyFixture{
		sender:  newFakeSender(),
		enable:  &modal{},
		confirm: &modal{},
		form:    &modal{},
		toasts:  &toasts{},
	}
	f.buy = NewBuyTickets(Deps{
		Account:   user,
		Sale:      contract.NFTSale(saleAddr),
		Cake:      contract.ERC20(cakeAddr),
		Sender:    f.sender,
		Allowance: allowance,
		Toast:     f.toasts.toast,
	}, BuyModals{Enable: f.enable, Confirm: f.confirm, Buy: f.form})
	f.buy.Init(context.Background())
	return f
}

func saleSnapshot(s sale.SaleStatus, u sale.UserStatus) sale.Snapshot {
	return sale.Snapshot{
		Account:    user,
		SaleStatus: s,
		UserStatus: u,
		Facts: sale.Facts{
			MaxPerAddress:     10,
			MaxPerTransaction: 5,
			TicketsOfUser:     1,
			PricePerTicket:    big.NewInt(10),
			CakeBalance:       big.NewInt(1000),
		},
	}
}

func controlIDs(cs []Control) []string {
	var ids []string
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}
