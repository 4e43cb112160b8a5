package collect

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"StokCollect/api/constants"
)

// ErrItemNotFound mirrors the catalog miss for availability lookups
var ErrItemNotFound = errors.New("item not found")

// Availability is the derived free quantity of one item.
type Availability struct {
	SKU       string  `json:"sku"`
	QtyTotal  float64 `json:"qty_total"`
	Reserved  float64 `json:"reserved"`
	Available float64 `json:"available"`
}

// Available computes total stock minus everything claimed by currently
// open sessions. The value is recomputed on every call: any concurrently
// active session can change it between reads, so it must never be cached
// or persisted.
func Available(ctx context.Context, pool *pgxpool.Pool, sku string) (Availability, error) {
	var av Availability
	err := pool.QueryRow(ctx, `
		SELECT i.sku, i.qty_total,
			COALESCE((SELECT SUM(c.quantity)
				FROM claims c
				JOIN collection_sessions s ON s.session_id = c.session_id
				WHERE c.sku = i.sku AND s.status = $2), 0) AS reserved
		FROM items i
		WHERE i.sku = $1`,
		sku, constants.SessionActive).
		Scan(&av.SKU, &av.QtyTotal, &av.Reserved)
	if errors.Is(err, pgx.ErrNoRows) {
		return av, ErrItemNotFound
	}
	if err != nil {
		return av, err
	}
	av.Available = av.QtyTotal - av.Reserved
	return av, nil
}

// DepartmentAvailability lists the derived availability for every active
// item of one department, for the browsing flow.
func DepartmentAvailability(ctx context.Context, pool *pgxpool.Pool, deptCode string) ([]Availability, error) {
	rows, err := pool.Query(ctx, `
		SELECT i.sku, i.qty_total,
			COALESCE((SELECT SUM(c.quantity)
				FROM claims c
				JOIN collection_sessions s ON s.session_id = c.session_id
				WHERE c.sku = i.sku AND s.status = $2), 0) AS reserved
		FROM items i
		WHERE i.is_active AND i.dept_code = $1
		ORDER BY i.name`,
		deptCode, constants.SessionActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Availability{}
	for rows.Next() {
		var av Availability
		if err := rows.Scan(&av.SKU, &av.QtyTotal, &av.Reserved); err != nil {
			return nil, err
		}
		av.Available = av.QtyTotal - av.Reserved
		out = append(out, av)
	}
	return out, rows.Err()
}
