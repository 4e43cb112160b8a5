package jobs

import (
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"StokCollect/internal/config"
	"StokCollect/internal/logger"
	"StokCollect/internal/serviceiface"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	sweepCfg := NewDefaultSweepConfig()

	// Override sweep config from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["sweep_schedule"].(string); ok && schedule != "" {
			sweepCfg.Schedule = schedule
		}
		if hours, ok := s.config["stale_hours"].(int); ok && hours > 0 {
			sweepCfg.StaleHours = hours
		}
		if hours, ok := s.config["stale_hours"].(float64); ok && hours > 0 {
			sweepCfg.StaleHours = int(hours)
		}
	}

	c, err := RunSessionSweeper(sweepCfg, s.db)
	if err != nil {
		return fmt.Errorf("failed to start session sweeper: %v", err)
	}
	s.cron = c

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started with session sweeper")
	}
	log.Println("Cron service started — session sweeper scheduled")
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.cron = nil
	}
	log.Println("Cron service stopped")
	return nil
}

// SweepConfig drives the stale session sweep.
type SweepConfig struct {
	Schedule   string
	StaleHours int
	BatchSize  int
	TimeZone   string
}

func NewDefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Schedule:   config.DefaultSweepSchedule,
		StaleHours: config.DefaultStaleHours,
		BatchSize:  config.SweepBatchSize,
		TimeZone:   config.DefaultTimeZone,
	}
}
