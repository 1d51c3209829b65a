package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"gorm.io/gorm"
)

const Retention = 30 * 24 * time.Hour

// StartCleanup runs a daily goroutine that deletes system_logs older than
// the retention window.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PurgeBefore(db, time.Now().Add(-Retention))
				if err != nil {
					slog.Error("log cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}

func PurgeBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}
