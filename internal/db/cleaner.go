package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartPlanEntryCleaner periodically deletes plan entries that ended more
// than retention ago. It returns immediately; the job stops with ctx.
func StartPlanEntryCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `DELETE FROM plan_entries WHERE end_time < $1`, cutoff)
				if err != nil {
					log.Error("failed to clean expired plan entries", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired plan entries", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
