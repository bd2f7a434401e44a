// services/user.go
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm/clause"

	"token-wager-system/models"
)

// SetUsername stores a wallet's display name, creating the wallet-user row if
// this is its first interaction. Input is NFC-normalized first so composed
// and decomposed forms of the same name measure (and store) identically;
// the 12-char cap counts runes, not bytes.
func (s *WagerService) SetUsername(ctx context.Context, walletAddress, newUsername string) (string, error) {
	name := strings.TrimSpace(norm.NFC.String(newUsername))
	if name == "" || utf8.RuneCountInString(name) > models.MaxUsernameLen {
		return "", ErrInvalidUsername
	}

	// Handle is the URL/lookup-safe form (ascii, lowercase, hyphenated).
	handle := slug.Make(name)

	user := models.WalletUser{
		Address:  walletAddress,
		Username: name,
		Handle:   handle,
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"username": name, "handle": handle}),
	}).Create(&user).Error
	if err != nil {
		return "", err
	}
	return name, nil
}
