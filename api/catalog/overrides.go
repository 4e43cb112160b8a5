package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownField guards the mapping table against typo'd field names
var ErrUnknownField = errors.New("unknown canonical field")

// LoadOverrides reads the learned header mappings. The table is consulted
// before the built-in synonyms and never mutated by an import.
func LoadOverrides(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT original_header, target_field FROM import_mappings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	overrides := make(map[string]string)
	for rows.Next() {
		var header, field string
		if err := rows.Scan(&header, &field); err != nil {
			return nil, err
		}
		overrides[header] = field
	}
	return overrides, rows.Err()
}

// SaveMappingDecision persists an admin's answer for a header the mapper
// did not understand. The header is stored normalized so the next import
// hits it exactly.
func SaveMappingDecision(ctx context.Context, pool *pgxpool.Pool, header, field string) error {
	if _, ok := fieldSynonyms[field]; !ok {
		return ErrUnknownField
	}
	norm := NormalizeHeader(header)
	if norm == "" {
		return errors.New("empty header")
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO import_mappings (original_header, target_field)
		VALUES ($1, $2)
		ON CONFLICT (original_header) DO UPDATE SET target_field = EXCLUDED.target_field`,
		norm, field)
	return err
}
