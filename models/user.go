// models/user.go
package models

import (
	"time"
)

// MaxUsernameLen is enforced at the API boundary (rune count after NFC
// normalization, so composed and decomposed input measure the same).
const MaxUsernameLen = 12

// WalletUser is the per-wallet record, keyed by address. Created lazily on a
// wallet's first interaction and never deleted. LastCancelAt feeds the cancel
// cooldown gate; it is only ever advanced inside the cancel transaction.
type WalletUser struct {
	Address  string `json:"address" gorm:"primaryKey;type:varchar(64)"`
	Username string `json:"username" gorm:"type:varchar(32)"`
	Handle   string `json:"handle" gorm:"type:varchar(32);index"` // slugified username, URL/lookup safe

	LastCancelAt *time.Time `json:"last_cancel_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (WalletUser) TableName() string {
	return "wallet_users"
}
