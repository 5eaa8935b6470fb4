package jobs

import (
	"context"
	"log"
	"time"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/config"
	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/db"
)

// StartTokenReaper periodically deletes expired, unreferenced QR tokens.
// Redemption checks expiry itself; the reaper only keeps the table small.
func StartTokenReaper(ctx context.Context, cfg config.Config, store *db.Store) {
	if !cfg.TokenReaperEnabled {
		return
	}
	interval := cfg.TokenReaperInterval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := cfg.TokenReaperTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				deleted, err := store.DeleteExpiredTokens(tickCtx, time.Now().UTC())
				cancel()
				if err != nil {
					log.Printf("token reaper error: %v", err)
					continue
				}
				if deleted > 0 {
					log.Printf("token reaper deleted %d expired tokens", deleted)
				}
			}
		}
	}()
}
