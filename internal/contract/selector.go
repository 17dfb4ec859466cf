package contract

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Selector computes the 4-byte function selector for a canonical signature
// such as "approve(address,uint256)".
func Selector(signature string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var sel [4]byte
	copy(sel[:], h.Sum(nil))
	return sel
}

// SelectorHex is Selector formatted as 0x-prefixed hex.
func SelectorHex(signature string) string {
	sel := Selector(signature)
	return "0x" + hex.EncodeToString(sel[:])
}

// MethodSelector returns the 0x-prefixed selector of method on b, or "" when
// the ABI has no such method.
func (b Bound) MethodSelector(method string) string {
	m, ok := b.ABI.Methods[method]
	if !ok {
		return ""
	}
	return SelectorHex(m.Sig)
}
