package sale

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/Mohsinsiddi/squadcli/internal/i18n"
	"github.com/ethereum/go-ethereum/common"
)

// Facts is a read-only snapshot of sale parameters and per-account counters.
type Facts struct {
	MaxPerAddress      int
	MaxPerTransaction  int
	TicketsOfUser      int
	TicketsForGen0     int
	TicketsUsedForGen0 int
	CanClaimForGen0    bool
	PricePerTicket     *big.Int
	CakeBalance        *big.Int
	TicketIDs          []*big.Int
}

// Snapshot is everything loaded for one account at one instant. It is
// replaced wholesale on refresh.
type Snapshot struct {
	Account    common.Address
	SaleStatus SaleStatus
	UserStatus UserStatus
	Facts      Facts
}

// Eligibility holds the derived flags.
type Eligibility struct {
	CanBuySaleTicket      bool
	IsUserReady           bool
	CanBuyTickets         bool
	IsUserUnactiveProfile bool
	CanMintTickets        bool
}

// Derive computes eligibility. approved is whether CAKE spending is enabled.
func Derive(s SaleStatus, u UserStatus, f Facts, approved bool) Eligibility {
	canBuySale := s == Sale && f.TicketsOfUser-f.TicketsUsedForGen0 < f.MaxPerAddress
	return Eligibility{
		CanBuySaleTicket: canBuySale,
		IsUserReady: (u == ProfileActive && s < Sale) ||
			(u == ProfileActiveGen0 && s == Pending),
		CanBuyTickets:         (f.CanClaimForGen0 || canBuySale) && approved,
		IsUserUnactiveProfile: u == NoProfile || u == Unconnected,
		CanMintTickets:        s == Claim && f.TicketsOfUser > 0,
	}
}

// Eligibility derives flags for the snapshot.
func (s Snapshot) Eligibility(approved bool) Eligibility {
	return Derive(s.SaleStatus, s.UserStatus, s.Facts, approved)
}

// BuyButtonText labels the buy control.
func BuyButtonText(canBuy bool, ticketsOfUser int, s SaleStatus, t i18n.Func) string {
	switch {
	case canBuy:
		return t("Buy Tickets", nil)
	case ticketsOfUser > 0 && s == Presale:
		return t("Pre-Sale max purchased", nil)
	case ticketsOfUser > 0 && s == Sale:
		return t("Max tickets purchased", nil)
	default:
		return t("Buy Tickets", nil)
	}
}

// ReadyText is shown once a ready user has enabled spending.
func ReadyText(u UserStatus, t i18n.Func) string {
	if u == ProfileActiveGen0 {
		return t("Ready for Pre-Sale!", nil)
	}
	return t("Ready for Public Sale!", nil)
}

// MintLabel labels the mint control.
func MintLabel(ticketsOfUser int, t i18n.Func) string {
	return t("Mint NFTs (%tickets%)", i18n.Subs{"tickets": strconv.Itoa(ticketsOfUser)})
}

// Button is the primary call to action shown in the header.
type Button int

const (
	ButtonConnect Button = iota
	ButtonActivate
	ButtonBuy
	ButtonMint
	ButtonEnd
	ButtonNone
)

func (b Button) String() string {
	switch b {
	case ButtonConnect:
		return "Connect Wallet"
	case ButtonActivate:
		return "Activate Profile"
	case ButtonBuy:
		return "Buy Tickets"
	case ButtonMint:
		return "Mint NFTs"
	case ButtonEnd:
		return "Sold Out"
	case ButtonNone:
		return ""
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// HeaderButton picks the header call to action.
func HeaderButton(u UserStatus, s SaleStatus, f Facts) Button {
	switch {
	case u == Unconnected:
		return ButtonConnect
	case u == NoProfile:
		return ButtonActivate
	case s == Finished:
		return ButtonEnd
	case s == Claim:
		if f.TicketsOfUser > 0 {
			return ButtonMint
		}
		return ButtonNone
	default:
		return ButtonBuy
	}
}
