package ui

import (
	"math/big"
	"strings"
)

// FormatToken renders a raw token amount with decimals, dropping trailing
// zeros and keeping at most maxFrac fractional digits.
func FormatToken(raw *big.Int, decimals, maxFrac int) string {
	if raw == nil {
		return "0"
	}
	if decimals <= 0 {
		return raw.String()
	}
	neg := raw.Sign() < 0
	abs := new(big.Int).Abs(raw)
	div := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, div, new(big.Int))

	fs := frac.String()
	fs = strings.Repeat("0", decimals-len(fs)) + fs
	if maxFrac >= 0 && len(fs) > maxFrac {
		fs = fs[:maxFrac]
	}
	fs = strings.TrimRight(fs, "0")

	out := whole.String()
	if fs != "" {
		out += "." + fs
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatCake renders an 18-decimal CAKE amount with the symbol.
func FormatCake(raw *big.Int) string {
	return FormatToken(raw, 18, 4) + " CAKE"
}
