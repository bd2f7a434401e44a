// services/wager_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"token-wager-system/models"
)

// WagerService owns the room lifecycle: create, join (settle), cancel.
// It keeps no state between calls — the room row and the wallet-user row are
// the only shared mutable resources, and both are touched only inside the
// store's transaction primitive. Exclusivity between concurrent Join/Cancel
// on the same room is enforced by conditional writes guarded on
// status = WAITING, not by any in-process lock, so it holds across replicas.
type WagerService struct {
	DB      *gorm.DB
	Gateway ChainGateway

	FeeBps         int64
	CancelCooldown time.Duration
}

func NewWagerService(db *gorm.DB, gateway ChainGateway) *WagerService {
	feeBps := int64(DefaultFeeBps)
	if v := os.Getenv("FEE_BPS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 && n < FeeBpsDenominator {
			feeBps = n
		} else {
			log.Printf("⚠️  Ignoring invalid FEE_BPS=%q, keeping %d", v, feeBps)
		}
	}

	cooldown := DefaultCancelCooldown
	if v := os.Getenv("CANCEL_COOLDOWN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cooldown = time.Duration(n) * time.Second
		} else {
			log.Printf("⚠️  Ignoring invalid CANCEL_COOLDOWN_SECONDS=%q, keeping %s", v, cooldown)
		}
	}

	return &WagerService{
		DB:             db,
		Gateway:        gateway,
		FeeBps:         feeBps,
		CancelCooldown: cooldown,
	}
}

// JoinResult is what the settling call returns to the joiner.
type JoinResult struct {
	Winner     string
	HostMove   string
	JoinerMove string
}

// CreateRoom opens a new WAITING room after the host's deposit checks out.
// Nothing is persisted when verification fails or errors.
func (s *WagerService) CreateRoom(ctx context.Context, hostAddress, rawMove string, amount int64, txHash string) (string, error) {
	move, err := ParseMove(rawMove)
	if err != nil {
		return "", err
	}
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	ok, err := s.Gateway.VerifyDeposit(ctx, hostAddress, amount, txHash)
	if err != nil {
		return "", fmt.Errorf("host deposit: %w", err)
	}
	if !ok {
		return "", ErrDepositUnverified
	}

	room := models.GameRoom{
		ID:          uuid.NewString(),
		HostAddress: hostAddress,
		HostMove:    move,
		BetAmount:   amount,
		Status:      models.RoomStatusWaiting,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return "", err
	}

	s.touchWalletUser(ctx, hostAddress)
	return room.ID, nil
}

// JoinRoom settles a room: verifies the joiner's deposit, resolves the match,
// pays out and flips the room to FINISHED — all under one transaction.
//
// The conditional UPDATE guarded on status = WAITING is the exclusivity
// check: of two concurrent joins, the first to claim the row wins and the
// second matches zero rows (its read of WAITING notwithstanding) and fails
// with ErrRoomUnavailable. Payouts are submitted only after the claim, so a
// gateway failure rolls everything back and leaves the room WAITING — the
// caller can safely retry the whole join.
func (s *WagerService) JoinRoom(ctx context.Context, roomID, joinerAddress, rawMove, txHash string) (*JoinResult, error) {
	joinerMove, err := ParseMove(rawMove)
	if err != nil {
		return nil, err
	}

	var result *JoinResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.GameRoom
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomUnavailable
			}
			return err
		}
		if room.Status != models.RoomStatusWaiting {
			return ErrRoomUnavailable
		}
		if room.HostAddress == joinerAddress {
			// A host playing against itself would launder the fee-free refund path.
			return ErrRoomUnavailable
		}

		ok, err := s.Gateway.VerifyDeposit(ctx, joinerAddress, room.BetAmount, txHash)
		if err != nil {
			return fmt.Errorf("joiner deposit: %w", err)
		}
		if !ok {
			return ErrDepositUnverified
		}

		winner := ResolveWinner(room.HostMove, joinerMove, room.HostAddress, joinerAddress)
		instructions, err := ComputePayouts(room.BetAmount, winner, room.HostAddress, joinerAddress, s.FeeBps)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.GameRoom{}).
			Where("id = ? AND status = ?", room.ID, models.RoomStatusWaiting).
			Updates(map[string]interface{}{
				"status":         models.RoomStatusFinished,
				"joiner_address": joinerAddress,
				"joiner_move":    joinerMove,
				"winner":         winner,
				"settled_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoomUnavailable
		}

		if err := s.submitPayouts(ctx, tx, room.ID, instructions); err != nil {
			return fmt.Errorf("%w: %v", ErrSettlementFailed, err)
		}

		result = &JoinResult{Winner: winner, HostMove: room.HostMove, JoinerMove: joinerMove}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.touchWalletUser(ctx, joinerAddress)
	return result, nil
}

// CancelRoom refunds the host's stake and deletes the room. Only the host may
// cancel, only while the room is WAITING, and only outside the cancel
// cooldown window.
func (s *WagerService) CancelRoom(ctx context.Context, roomID, requesterAddress string) error {
	now := time.Now().UTC()

	// Advisory fast path; the upsert inside the transaction is authoritative.
	allowed, err := AllowCancel(s.DB.WithContext(ctx), requesterAddress, now, s.CancelCooldown)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrCooldownActive
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.GameRoom
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomUnavailable
			}
			return err
		}
		if room.Status != models.RoomStatusWaiting || room.HostAddress != requesterAddress {
			return ErrRoomUnavailable
		}

		// Cooldown is re-validated here so two cancels by the same wallet
		// against different rooms inside the window can't both refund: the
		// upsert only advances last_cancel_at when the previous one is
		// outside the window, and a zero-row update aborts the transaction.
		cutoff := now.Add(-s.CancelCooldown)
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "address"}},
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Or(
					clause.Eq{Column: clause.Column{Table: "wallet_users", Name: "last_cancel_at"}, Value: nil},
					clause.Lte{Column: clause.Column{Table: "wallet_users", Name: "last_cancel_at"}, Value: cutoff},
				),
			}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_cancel_at": now}),
		}).Create(&models.WalletUser{Address: requesterAddress, LastCancelAt: &now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCooldownActive
		}

		return s.refundAndClose(ctx, tx, &room)
	})
}

// SweepStaleRooms expires WAITING rooms older than maxAge: stake refunded,
// room deleted. Server-initiated, so the cancel cooldown does not apply.
// Each room closes in its own transaction; one failure doesn't stop the sweep.
func (s *WagerService) SweepStaleRooms(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var stale []models.GameRoom
	err := s.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.RoomStatusWaiting, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		room := stale[i]
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.refundAndClose(ctx, tx, &room)
		})
		if err != nil {
			if errors.Is(err, ErrRoomUnavailable) {
				continue // settled or cancelled between the listing and now
			}
			log.Printf("❌ Sweep failed for room %s: %v", room.ID, err)
			continue
		}
		swept++
	}
	return swept, nil
}

// refundAndClose deletes a WAITING room and refunds the host's stake, in that
// order, inside the caller's transaction. The guarded delete is the same
// exclusivity check as the join path: whichever of Join/Cancel claims the row
// first wins, the other sees zero rows.
func (s *WagerService) refundAndClose(ctx context.Context, tx *gorm.DB, room *models.GameRoom) error {
	res := tx.Where("id = ? AND status = ?", room.ID, models.RoomStatusWaiting).
		Delete(&models.GameRoom{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomUnavailable
	}

	refund := []PayoutInstruction{
		{Recipient: room.HostAddress, Amount: room.BetAmount, Kind: models.PayoutKindRefund},
	}
	if err := s.submitPayouts(ctx, tx, room.ID, refund); err != nil {
		return fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}
	return nil
}

// submitPayouts sends each instruction through the gateway and records a
// receipt row in the enclosing transaction. No retries here: if the gateway
// fails the whole settlement aborts, and the (possibly submitted) transfers
// are reconciled against the gateway by signature — it is idempotent per
// (wallet, amount, room).
func (s *WagerService) submitPayouts(ctx context.Context, tx *gorm.DB, roomID string, instructions []PayoutInstruction) error {
	for _, ins := range instructions {
		sig, err := s.Gateway.SendPayout(ctx, ins.Recipient, ins.Amount)
		if err != nil {
			return err
		}
		receipt := models.PayoutReceipt{
			ID:          uuid.NewString(),
			RoomID:      roomID,
			Recipient:   ins.Recipient,
			Amount:      ins.Amount,
			Kind:        ins.Kind,
			TxSignature: sig,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListOpenRooms returns every WAITING room, newest first. Hidden host moves
// stay hidden — GameRoom keeps HostMove out of its JSON form.
func (s *WagerService) ListOpenRooms(ctx context.Context) ([]models.GameRoom, error) {
	var rooms []models.GameRoom
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.RoomStatusWaiting).
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

// touchWalletUser lazily creates the wallet's user row on first interaction.
// Best effort — a failure here never fails the wager operation.
func (s *WagerService) touchWalletUser(ctx context.Context, address string) {
	user := models.WalletUser{Address: address}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "address"}}, DoNothing: true}).
		Create(&user).Error
	if err != nil {
		log.Printf("⚠️  Failed to ensure wallet user %s: %v", address, err)
	}
}
