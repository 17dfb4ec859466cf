// Package history persists transaction attempts made by the sale actions.
package history

import "time"

// Action names the control that started an attempt.
type Action = string

const (
	ActionBuy  Action = "buy"
	ActionMint Action = "mint"
)

// Record is one approve or confirm attempt. It is upserted on every phase
// change, keyed by the attempt id.
type Record struct {
	ID          string `gorm:"primaryKey"`
	Action      Action `gorm:"index;not null"`
	Kind        string `gorm:"not null"`
	Status      string `gorm:"not null"`
	Account     string `gorm:"index;not null"`
	ChainID     int64  `gorm:"not null"`
	Tickets     int    `gorm:"default:0"`
	TxHash      string
	BlockNumber uint64 `gorm:"default:0"`
	Error       string
	StartedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}
