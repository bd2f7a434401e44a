package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"token-wager-system/models"
	"token-wager-system/utils"
)

// SettlementArchiver exports settled rooms and their payout receipts to the
// R2 archive bucket once a day. Cancelled rooms are deleted outright, so the
// receipts captured here (REFUND rows included) are the durable audit trail.
type SettlementArchiver struct {
	DB      *gorm.DB
	lastRun time.Time
}

func NewSettlementArchiver(db *gorm.DB) *SettlementArchiver {
	// First export picks up everything settled in the last day.
	return &SettlementArchiver{DB: db, lastRun: time.Now().UTC().Add(-24 * time.Hour)}
}

type archiveEntry struct {
	Room     *models.GameRoom       `json:"room,omitempty"` // nil for cancelled (deleted) rooms
	RoomID   string                 `json:"room_id"`
	HostMove string                 `json:"host_move,omitempty"` // hidden in live listings, preserved for audit
	Receipts []models.PayoutReceipt `json:"receipts"`
}

// Start schedules the daily export. No-op (with a log line) when the R2 env
// vars are absent.
func (a *SettlementArchiver) Start(ctx context.Context) {
	if !utils.R2Configured() {
		log.Println("⚠️  R2 archive not configured — settlement archive export disabled")
		return
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if err := a.exportOnce(ctx); err != nil {
				log.Printf("❌ [Archiver] export failed: %v", err)
			}
		}),
	)

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
}

func (a *SettlementArchiver) exportOnce(ctx context.Context) error {
	since := a.lastRun
	now := time.Now().UTC()

	// Receipts are the anchor: they exist for joins, cancels and sweeps alike.
	var receipts []models.PayoutReceipt
	err := a.DB.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", since, now).
		Order("created_at ASC").
		Find(&receipts).Error
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		a.lastRun = now
		return nil
	}

	byRoom := make(map[string]*archiveEntry)
	order := make([]string, 0, len(receipts))
	for _, r := range receipts {
		entry, ok := byRoom[r.RoomID]
		if !ok {
			entry = &archiveEntry{RoomID: r.RoomID}
			byRoom[r.RoomID] = entry
			order = append(order, r.RoomID)
		}
		entry.Receipts = append(entry.Receipts, r)
	}

	// Attach the room row where it still exists (FINISHED rooms).
	for _, id := range order {
		var room models.GameRoom
		if err := a.DB.WithContext(ctx).First(&room, "id = ?", id).Error; err == nil {
			byRoom[id].Room = &room
			byRoom[id].HostMove = room.HostMove
		}
	}

	entries := make([]archiveEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byRoom[id])
	}

	body, err := json.Marshal(map[string]interface{}{
		"exported_at": now,
		"since":       since,
		"settlements": entries,
	})
	if err != nil {
		return err
	}

	key := fmt.Sprintf("settlements/%s.json", now.Format("2006-01-02T15-04-05Z"))
	if err := utils.UploadJSONToR2(ctx, key, body); err != nil {
		return err
	}

	log.Printf("📦 Archived %d settlement(s) to %s", len(entries), key)
	a.lastRun = now
	return nil
}
