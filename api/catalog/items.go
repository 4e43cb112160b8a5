package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogItem is one catalog row as stored.
type CatalogItem struct {
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Group          string  `json:"group_name"`
	DeptCode       string  `json:"dept_code"`
	QtyTotal       float64 `json:"qty_total"`
	Price          float64 `json:"price"`
	MonthsInactive int     `json:"months_inactive"`
	IsActive       bool    `json:"is_active"`
}

// ErrItemNotFound is the storage-level miss for an identifier lookup
var ErrItemNotFound = errors.New("item not found")

const itemColumns = `sku, name, COALESCE(group_name, ''), COALESCE(dept_code, ''), qty_total, price, months_inactive, is_active`

func scanItem(row pgx.Row) (CatalogItem, error) {
	var it CatalogItem
	err := row.Scan(&it.SKU, &it.Name, &it.Group, &it.DeptCode, &it.QtyTotal, &it.Price, &it.MonthsInactive, &it.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return it, ErrItemNotFound
	}
	return it, err
}

// GetItem looks a single item up by identifier.
func GetItem(ctx context.Context, pool *pgxpool.Pool, sku string) (CatalogItem, error) {
	return scanItem(pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku))
}

// ListActiveItems returns active catalog items, optionally narrowed to a
// department.
func ListActiveItems(ctx context.Context, pool *pgxpool.Pool, deptCode string) ([]CatalogItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE is_active ORDER BY dept_code, name`
	args := []interface{}{}
	if deptCode != "" {
		query = `SELECT ` + itemColumns + ` FROM items WHERE is_active AND dept_code = $1 ORDER BY name`
		args = append(args, deptCode)
	}
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CatalogItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
