package contract

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestSelectorKnownValues(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"balanceOf(address)", "0x70a08231"},
		{"allowance(address,address)", "0xdd62ed3e"},
		{"approve(address,uint256)", "0x095ea7b3"},
		{"transfer(address,uint256)", "0xa9059cbb"},
		{"decimals()", "0x313ce567"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectorHex(tt.sig))
		})
	}
}

func TestMethodSelectorMatchesABI(t *testing.T) {
	for _, b := range []Bound{
		ERC20(common.Address{}),
		NFTSale(common.Address{}),
		Profile(common.Address{}),
	} {
		for name, m := range b.ABI.Methods {
			assert.Equal(t, "0x"+common.Bytes2Hex(m.ID), b.MethodSelector(name), name)
		}
	}
}

func TestMethodSelectorUnknown(t *testing.T) {
	assert.Equal(t, "", ERC20(common.Address{}).MethodSelector("mint"))
}
