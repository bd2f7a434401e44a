// services/scheduler.go
package services

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const defaultRoomMaxAgeHours = 24

// StartRoomSweeper runs the hourly stale-room sweep: WAITING rooms nobody
// joined within ROOM_MAX_AGE_HOURS get their stake refunded and are deleted,
// through the same guarded transaction as a host cancel. Keeps the open-room
// list from silting up with abandoned wagers.
func (s *WagerService) StartRoomSweeper(ctx context.Context) {
	maxAge := time.Duration(defaultRoomMaxAgeHours) * time.Hour
	if v := os.Getenv("ROOM_MAX_AGE_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxAge = time.Duration(n) * time.Hour
		} else {
			log.Printf("⚠️  Ignoring invalid ROOM_MAX_AGE_HOURS=%q, keeping %s", v, maxAge)
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			swept, err := s.SweepStaleRooms(ctx, maxAge)
			if err != nil {
				log.Printf("[Sweeper] DB error: %v", err)
				return
			}
			if swept > 0 {
				log.Printf("🧹 Swept %d stale room(s) older than %s", swept, maxAge)
			}
		}),
	)

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
}
