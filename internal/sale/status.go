// Package sale derives buying and minting eligibility for the squad sale and
// loads the on-chain facts those rules depend on.
package sale

import "fmt"

// SaleStatus is the phase of the sale. Phases are ordered.
type SaleStatus int

const (
	Pending SaleStatus = iota
	Presale
	Sale
	Claim
	Finished
)

// SaleStatusFromChain maps the contract's currentStatus() value. Values past
// the last known phase are treated as Finished.
func SaleStatusFromChain(v uint8) SaleStatus {
	if v > uint8(Finished) {
		return Finished
	}
	return SaleStatus(v)
}

// Buying reports whether tickets are on sale in this phase.
func (s SaleStatus) Buying() bool { return s == Presale || s == Sale }

func (s SaleStatus) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Presale:
		return "Pre-Sale"
	case Sale:
		return "Public Sale"
	case Claim:
		return "Claim"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("SaleStatus(%d)", int(s))
	}
}

// UserStatus classifies the loaded account.
type UserStatus int

const (
	Unconnected UserStatus = iota
	NoProfile
	ProfileActiveGen0
	ProfileActive
)

func (u UserStatus) String() string {
	switch u {
	case Unconnected:
		return "No wallet"
	case NoProfile:
		return "No active profile"
	case ProfileActiveGen0:
		return "Gen0 profile"
	case ProfileActive:
		return "Active profile"
	default:
		return fmt.Sprintf("UserStatus(%d)", int(u))
	}
}
