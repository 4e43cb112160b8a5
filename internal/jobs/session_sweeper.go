package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"StokCollect/api/constants"
)

// RunSessionSweeper schedules the nightly demotion of stale active
// sessions and returns the running scheduler so the owner can stop it.
// A session abandoned mid-collection keeps reserving stock in the
// derived ledger forever; the sweep moves it to abandoned so the
// quantities free up. Claims are kept for history.
func RunSessionSweeper(cfg SweepConfig, db *pgxpool.Pool) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.TimeZone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := sweepStaleSessions(context.Background(), db, cfg); err != nil {
			log.Printf("[SWEEP] failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	c.Start()
	log.Printf("[SWEEP] scheduled %q, cutoff %dh", cfg.Schedule, cfg.StaleHours)
	return c, nil
}

func sweepStaleSessions(ctx context.Context, db *pgxpool.Pool, cfg SweepConfig) error {
	cutoff := time.Now().Add(-time.Duration(cfg.StaleHours) * time.Hour)

	tag, err := db.Exec(ctx, `
		UPDATE collection_sessions SET status = $1, updated_at = now()
		WHERE session_id IN (
			SELECT session_id FROM collection_sessions
			WHERE status = $2 AND updated_at < $3
			ORDER BY updated_at
			LIMIT $4
		)`,
		constants.SessionAbandoned, constants.SessionActive, cutoff, cfg.BatchSize)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		log.Printf("[SWEEP] demoted %d stale sessions", tag.RowsAffected())
	}
	return nil
}
