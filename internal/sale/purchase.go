package sale

import (
	"errors"
	"fmt"
	"math/big"
)

// Purchase validation errors.
var (
	ErrSaleClosed          = errors.New("tickets are not on sale")
	ErrTooFewTickets       = errors.New("must buy at least one ticket")
	ErrOverTransactionCap  = errors.New("too many tickets for one transaction")
	ErrOverAddressCap      = errors.New("ticket allowance for this address exceeded")
	ErrInsufficientBalance = errors.New("insufficient CAKE balance")
)

// Cost is the CAKE price of tickets.
func Cost(f Facts, tickets int) *big.Int {
	if f.PricePerTicket == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(f.PricePerTicket, big.NewInt(int64(tickets)))
}

// Remaining is how many more tickets the account may buy in phase s. In the
// pre-sale this is the unused gen0 allocation; in the public sale it is the
// per-address cap minus tickets bought outside the gen0 allocation.
func Remaining(s SaleStatus, f Facts) int {
	var n int
	switch s {
	case Presale:
		n = f.TicketsForGen0 - f.TicketsUsedForGen0
	case Sale:
		n = f.MaxPerAddress - (f.TicketsOfUser - f.TicketsUsedForGen0)
	}
	return max(n, 0)
}

// MaxPurchase is the largest ticket count ValidatePurchase would accept,
// ignoring balance.
func MaxPurchase(s SaleStatus, f Facts) int {
	return max(min(Remaining(s, f), f.MaxPerTransaction), 0)
}

// ValidatePurchase checks a ticket count against phase, caps and balance.
func ValidatePurchase(s SaleStatus, f Facts, tickets int) error {
	if !s.Buying() {
		return fmt.Errorf("%w (phase: %s)", ErrSaleClosed, s)
	}
	if tickets < 1 {
		return ErrTooFewTickets
	}
	if tickets > f.MaxPerTransaction {
		return fmt.Errorf("%w: %d > %d", ErrOverTransactionCap, tickets, f.MaxPerTransaction)
	}
	if left := Remaining(s, f); tickets > left {
		return fmt.Errorf("%w: %d requested, %d left", ErrOverAddressCap, tickets, left)
	}
	balance := f.CakeBalance
	if balance == nil {
		balance = new(big.Int)
	}
	if cost := Cost(f, tickets); cost.Cmp(balance) > 0 {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientBalance, cost, balance)
	}
	return nil
}
