package collect

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"StokCollect/internal/serviceiface"
)

type CollectService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	db     *sql.DB
}

func NewCollectService(cfg map[string]interface{}, pool *pgxpool.Pool, db *sql.DB) serviceiface.Service {
	return &CollectService{config: cfg, pool: pool, db: db}
}

func (s *CollectService) Name() string {
	return "collect"
}

func (s *CollectService) Start() error {
	go StartCollectService(s.pool, s.db, configPort(s.config, 6152))
	return nil
}

func (s *CollectService) Stop() error {
	return nil
}

func configPort(cfg map[string]interface{}, fallback int) int {
	if cfg == nil {
		return fallback
	}
	switch v := cfg["port"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}
