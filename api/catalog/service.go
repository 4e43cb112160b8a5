package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"StokCollect/internal/serviceiface"
)

type CatalogService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewCatalogService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &CatalogService{config: cfg, pool: pool}
}

func (s *CatalogService) Name() string {
	return "catalog"
}

func (s *CatalogService) Start() error {
	go StartCatalogService(s.pool, configPort(s.config, 6151))
	return nil
}

func (s *CatalogService) Stop() error {
	return nil
}

// configPort digs a port number out of the yaml config map
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
