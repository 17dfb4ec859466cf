package sale

import (
	"testing"

	"github.com/Mohsinsiddi/squadcli/internal/i18n"
	"github.com/stretchr/testify/assert"
)

func TestCanBuySaleTicketScenarios(t *testing.T) {
	tests := []struct {
		name  string
		s     SaleStatus
		owned int
		used  int
		max   int
		want  bool
	}{
		{"under cap", Sale, 2, 0, 5, true},
		{"at cap", Sale, 5, 0, 5, false},
		{"gen0 tickets do not count", Sale, 7, 3, 5, true},
		{"presale never", Presale, 0, 0, 5, false},
		{"claim never", Claim, 0, 0, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Facts{TicketsOfUser: tt.owned, TicketsUsedForGen0: tt.used, MaxPerAddress: tt.max}
			assert.Equal(t, tt.want, Derive(tt.s, ProfileActive, f, true).CanBuySaleTicket)
		})
	}
}

func TestIsUserReady(t *testing.T) {
	tests := []struct {
		u    UserStatus
		s    SaleStatus
		want bool
	}{
		{ProfileActive, Pending, true},
		{ProfileActive, Presale, true},
		{ProfileActive, Sale, false},
		{ProfileActiveGen0, Pending, true},
		{ProfileActiveGen0, Presale, false},
		{NoProfile, Pending, false},
		{Unconnected, Pending, false},
	}
	for _, tt := range tests {
		t.Run(tt.u.String()+"/"+tt.s.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.s, tt.u, Facts{}, false).IsUserReady)
		})
	}
}

func TestCanBuyTicketsNeedsApproval(t *testing.T) {
	gen0 := Facts{CanClaimForGen0: true}
	assert.False(t, Derive(Presale, ProfileActiveGen0, gen0, false).CanBuyTickets)
	assert.True(t, Derive(Presale, ProfileActiveGen0, gen0, true).CanBuyTickets)

	open := Facts{MaxPerAddress: 5}
	assert.False(t, Derive(Sale, ProfileActive, open, false).CanBuyTickets)
	assert.True(t, Derive(Sale, ProfileActive, open, true).CanBuyTickets)

	assert.False(t, Derive(Presale, ProfileActive, Facts{}, true).CanBuyTickets)
}

func TestUnactiveProfileAndMint(t *testing.T) {
	assert.True(t, Derive(Sale, NoProfile, Facts{}, false).IsUserUnactiveProfile)
	assert.True(t, Derive(Sale, Unconnected, Facts{}, false).IsUserUnactiveProfile)
	assert.False(t, Derive(Sale, ProfileActive, Facts{}, false).IsUserUnactiveProfile)

	assert.True(t, Derive(Claim, ProfileActive, Facts{TicketsOfUser: 1}, false).CanMintTickets)
	assert.False(t, Derive(Claim, ProfileActive, Facts{}, false).CanMintTickets)
	assert.False(t, Derive(Sale, ProfileActive, Facts{TicketsOfUser: 1}, false).CanMintTickets)
}

func TestSaleStatusFromChain(t *testing.T) {
	assert.Equal(t, Pending, SaleStatusFromChain(0))
	assert.Equal(t, Claim, SaleStatusFromChain(3))
	assert.Equal(t, Finished, SaleStatusFromChain(4))
	assert.Equal(t, Finished, SaleStatusFromChain(9))
	assert.True(t, Pending < Presale && Presale < Sale && Sale < Claim && Claim < Finished)
}

func TestBuyButtonText(t *testing.T) {
	tr := i18n.English
	assert.Equal(t, "Buy Tickets", BuyButtonText(true, 3, Sale, tr))
	assert.Equal(t, "Pre-Sale max purchased", BuyButtonText(false, 2, Presale, tr))
	assert.Equal(t, "Max tickets purchased", BuyButtonText(false, 5, Sale, tr))
	assert.Equal(t, "Buy Tickets", BuyButtonText(false, 0, Sale, tr))
}

func TestReadyTextUsesMembership(t *testing.T) {
	assert.Equal(t, "Ready for Pre-Sale!", ReadyText(ProfileActiveGen0, i18n.English))
	assert.Equal(t, "Ready for Public Sale!", ReadyText(ProfileActive, i18n.English))
}

func TestMintLabel(t *testing.T) {
	assert.Equal(t, "Mint NFTs (4)", MintLabel(4, i18n.English))
}

func TestHeaderButton(t *testing.T) {
	withTickets := Facts{TicketsOfUser: 2}
	assert.Equal(t, ButtonConnect, HeaderButton(Unconnected, Sale, Facts{}))
	assert.Equal(t, ButtonActivate, HeaderButton(NoProfile, Sale, Facts{}))
	assert.Equal(t, ButtonEnd, HeaderButton(ProfileActive, Finished, withTickets))
	assert.Equal(t, ButtonMint, HeaderButton(ProfileActive, Claim, withTickets))
	assert.Equal(t, ButtonNone, HeaderButton(ProfileActive, Claim, Facts{}))
	assert.Equal(t, ButtonBuy, HeaderButton(ProfileActiveGen0, Presale, Facts{}))
	assert.Equal(t, "Mint NFTs", ButtonMint.String())
	assert.Equal(t, "", ButtonNone.String())
	assert.Equal(t, "Button(42)", Button(42).String())
}
