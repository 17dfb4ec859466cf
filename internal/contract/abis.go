package contract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Built-in ABI identifiers.
const (
	KindERC20   = "erc20"
	KindNFTSale = "nftSale"
	KindProfile = "profile"
)

// BuiltinKind describes a contract whose ABI is embedded in the binary. Each
// built-in registers itself via init() in its own <name>_abi.go file.
type BuiltinKind struct {
	ID          string // machine key, e.g. "erc20"
	Name        string // human label
	Description string
	ABI         abi.ABI
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin parses abiJSON and adds it to the registry. It panics on a
// malformed ABI since built-ins are compiled in.
func RegisterBuiltin(id, name, description, abiJSON string) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("contract: built-in %s: %v", id, err))
	}
	builtinRegistry[id] = BuiltinKind{ID: id, Name: name, Description: description, ABI: parsed}
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Bound is a contract ABI bound to a deployed address.
type Bound struct {
	Address common.Address
	ABI     abi.ABI
}

// Bind binds the built-in id to addr.
func Bind(id string, addr common.Address) (Bound, error) {
	b, ok := GetBuiltin(id)
	if !ok {
		return Bound{}, fmt.Errorf("unknown built-in ABI %q", id)
	}
	return Bound{Address: addr, ABI: b.ABI}, nil
}

// ERC20 binds the ERC-20 ABI to addr.
func ERC20(addr common.Address) Bound { return mustBind(KindERC20, addr) }

// NFTSale binds the squad sale ABI to addr.
func NFTSale(addr common.Address) Bound { return mustBind(KindNFTSale, addr) }

// Profile binds the profile ABI to addr.
func Profile(addr common.Address) Bound { return mustBind(KindProfile, addr) }

func mustBind(id string, addr common.Address) Bound {
	b, err := Bind(id, addr)
	if err != nil {
		panic(err)
	}
	return b
}

// Pack encodes a call to method with args.
func (b Bound) Pack(method string, args ...any) ([]byte, error) {
	data, err := b.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	return data, nil
}

// IsWrite reports whether method changes state.
func (b Bound) IsWrite(method string) bool {
	m, ok := b.ABI.Methods[method]
	return ok && !m.IsConstant()
}
