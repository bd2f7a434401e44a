// models/receipt.go
package models

import (
	"time"
)

const (
	PayoutKindPrize      = "PRIZE"
	PayoutKindRefund     = "REFUND"      // host refund on cancel
	PayoutKindDrawRefund = "DRAW_REFUND" // stake returned to each side on a draw
)

// PayoutReceipt is the audit row for every token transfer the engine asked
// the chain gateway to make. It is inserted in the same transaction as the
// room transition it belongs to, so a committed receipt always has a matching
// committed room state (and vice versa). Confirmation is synced afterwards by
// the receipt sync worker.
type PayoutReceipt struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	RoomID    string `json:"room_id" gorm:"type:uuid;not null;index"`
	Recipient string `json:"recipient" gorm:"type:varchar(64);not null;index"`
	Amount    int64  `json:"amount" gorm:"not null"` // base token units
	Kind      string `json:"kind" gorm:"type:varchar(16);not null"`

	// Signature returned by the gateway when the payout was submitted.
	TxSignature string `json:"tx_signature" gorm:"type:varchar(128);not null;uniqueIndex"`

	Confirmed   bool       `json:"confirmed" gorm:"not null;default:false;index"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (PayoutReceipt) TableName() string {
	return "payout_receipts"
}
