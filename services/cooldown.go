// services/cooldown.go
package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"token-wager-system/models"
)

// DefaultCancelCooldown is the minimum gap between a wallet's successful
// cancels. Overridable via CANCEL_COOLDOWN_SECONDS.
const DefaultCancelCooldown = 300 * time.Second

// AllowCancel reports whether a wallet is outside its cancel cooldown window.
// A wallet with no record (or no recorded cancel) is always allowed.
//
// This read is advisory — it gives the caller a fast, friendly rejection.
// The authoritative check is the conditional cooldown upsert inside the
// cancel transaction, which closes the race between two cancels issued by
// the same wallet against different rooms.
func AllowCancel(db *gorm.DB, walletAddress string, now time.Time, cooldown time.Duration) (bool, error) {
	var user models.WalletUser
	err := db.Select("last_cancel_at").First(&user, "address = ?", walletAddress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if user.LastCancelAt == nil {
		return true, nil
	}
	return now.Sub(*user.LastCancelAt) >= cooldown, nil
}
