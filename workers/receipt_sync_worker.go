package workers

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"token-wager-system/models"
	"token-wager-system/services"
)

// ReceiptSyncWorker reconciles payout receipts against the chain gateway:
// every submitted transfer eventually flips to confirmed once its signature
// lands on-chain. Settlement never waits on confirmation — this is the
// after-the-fact audit trail.
type ReceiptSyncWorker struct {
	DB      *gorm.DB
	Gateway services.ChainGateway
}

func NewReceiptSyncWorker(db *gorm.DB, gateway services.ChainGateway) *ReceiptSyncWorker {
	return &ReceiptSyncWorker{DB: db, Gateway: gateway}
}

// PollReceipts checks unconfirmed receipts on each tick until ctx is done.
func (w *ReceiptSyncWorker) PollReceipts(ctx context.Context, pollInterval time.Duration) {
	log.Println("Starting payout receipt polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Receipt polling stopped.")
			return
		case <-ticker.C:
			if err := w.syncOnce(ctx); err != nil {
				log.Printf("❌ Error syncing receipts: %v", err)
			}
		}
	}
}

func (w *ReceiptSyncWorker) syncOnce(ctx context.Context) error {
	var pending []models.PayoutReceipt
	err := w.DB.WithContext(ctx).
		Where("confirmed = ?", false).
		Order("created_at ASC").
		Limit(100).
		Find(&pending).Error
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	confirmed := 0
	for _, receipt := range pending {
		ok, err := w.Gateway.PayoutStatus(ctx, receipt.TxSignature)
		if err != nil {
			// Gateway hiccup: leave the receipt for the next tick.
			log.Printf("⚠️  Status check failed for %s: %v", receipt.TxSignature, err)
			continue
		}
		if !ok {
			continue
		}

		now := time.Now().UTC()
		err = w.DB.WithContext(ctx).Model(&models.PayoutReceipt{}).
			Where("id = ? AND confirmed = ?", receipt.ID, false).
			Updates(map[string]interface{}{"confirmed": true, "confirmed_at": now}).Error
		if err != nil {
			return err
		}
		confirmed++
	}

	if confirmed > 0 {
		log.Printf("📥 Confirmed %d payout receipt(s).", confirmed)
	}
	return nil
}
