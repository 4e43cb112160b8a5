package catalog

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"StokCollect/internal/config"
)

// ImportResult is the outcome handed back to the uploading caller.
type ImportResult struct {
	RowsTotal      int `json:"rows_total"`
	ItemsProcessed int `json:"items_processed"`
	Created        int `json:"created"`
	Updated        int `json:"updated"`
	Deactivated    int `json:"deactivated"`
	Errors         int `json:"errors"`
}

// DedupeRecords collapses duplicate identifiers within one file,
// last-write-wins, keeping first-seen order.
func DedupeRecords(records []ItemRecord) []ItemRecord {
	index := make(map[string]int, len(records))
	out := make([]ItemRecord, 0, len(records))
	for _, rec := range records {
		if i, ok := index[rec.SKU]; ok {
			out[i] = rec
			continue
		}
		index[rec.SKU] = len(out)
		out = append(out, rec)
	}
	return out
}

// reconcilePlan is the precomputed outcome of one import against the
// current catalog state.
type reconcilePlan struct {
	creates     []ItemRecord
	updates     []ItemRecord
	deactivates []string
}

// buildReconcilePlan decides, per record, insert vs update, and which
// currently-active identifiers missing from the file must be switched
// off. existing maps catalog sku -> is_active.
func buildReconcilePlan(records []ItemRecord, existing map[string]bool) reconcilePlan {
	var plan reconcilePlan
	inFile := make(map[string]struct{}, len(records))
	for _, rec := range records {
		inFile[rec.SKU] = struct{}{}
		if _, ok := existing[rec.SKU]; ok {
			plan.updates = append(plan.updates, rec)
		} else {
			plan.creates = append(plan.creates, rec)
		}
	}
	for sku, active := range existing {
		if !active {
			continue
		}
		if _, ok := inFile[sku]; !ok {
			plan.deactivates = append(plan.deactivates, sku)
		}
	}
	sort.Strings(plan.deactivates)
	return plan
}

// NormalizeRows runs the row normalizer over every raw row, counting
// rejected rows instead of failing the import.
func NormalizeRows(rawRows []map[string]string, cols ColumnMap) (records []ItemRecord, errCount int) {
	for _, raw := range rawRows {
		rec, err := NormalizeRow(raw, cols)
		if err != nil {
			errCount++
			continue
		}
		records = append(records, rec)
	}
	return records, errCount
}

// RunImport executes the whole pipeline for one uploaded file: parse,
// map headers, normalize rows and reconcile the catalog as a full stock
// snapshot inside a single transaction.
func RunImport(ctx context.Context, pool *pgxpool.Pool, data []byte, filename string) (ImportResult, error) {
	var res ImportResult

	rows, err := ParseSpreadsheet(data, filename)
	if err != nil {
		return res, err
	}

	overrides, err := LoadOverrides(ctx, pool)
	if err != nil {
		return res, fmt.Errorf("load mapping overrides: %w", err)
	}

	headerIdx := DetectHeaderRow(rows, overrides, config.ImportPreviewRows)
	if headerIdx < 0 {
		return res, ErrNoIdentifierColumn
	}
	cols, err := ResolveColumns(rows[headerIdx], overrides)
	if err != nil {
		return res, err
	}

	rawRows := RowsToMaps(rows, headerIdx)
	res.RowsTotal = len(rawRows)

	records, errCount := NormalizeRows(rawRows, cols)
	res.Errors = errCount
	records = DedupeRecords(records)
	res.ItemsProcessed = len(records)

	batchID := uuid.New().String()
	log.Printf("[IMPORT] batch=%s file=%s rows=%d items=%d rejected=%d",
		batchID, filename, res.RowsTotal, res.ItemsProcessed, res.Errors)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	existing := make(map[string]bool)
	skuRows, err := tx.Query(ctx, `SELECT sku, is_active FROM items`)
	if err != nil {
		return res, fmt.Errorf("load catalog skus: %w", err)
	}
	for skuRows.Next() {
		var sku string
		var active bool
		if err := skuRows.Scan(&sku, &active); err != nil {
			skuRows.Close()
			return res, err
		}
		existing[sku] = active
	}
	skuRows.Close()
	if err := skuRows.Err(); err != nil {
		return res, err
	}

	plan := buildReconcilePlan(records, existing)

	upsert := `
		INSERT INTO items (sku, name, group_name, dept_code, qty_total, price, months_inactive, is_active, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, TRUE, now())
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			group_name = COALESCE(EXCLUDED.group_name, items.group_name),
			dept_code = COALESCE(EXCLUDED.dept_code, items.dept_code),
			qty_total = EXCLUDED.qty_total,
			price = EXCLUDED.price,
			months_inactive = EXCLUDED.months_inactive,
			is_active = TRUE,
			updated_at = now()`
	for _, batch := range [][]ItemRecord{plan.creates, plan.updates} {
		for _, rec := range batch {
			if _, err := tx.Exec(ctx, upsert,
				rec.SKU, rec.Name, rec.Group, rec.DeptCode, rec.Qty, rec.Price, rec.MonthsInactive); err != nil {
				return res, fmt.Errorf("upsert %s: %w", rec.SKU, err)
			}
		}
	}

	if len(plan.deactivates) > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE items SET is_active = FALSE, qty_total = 0, updated_at = now() WHERE sku = ANY($1)`,
			plan.deactivates); err != nil {
			return res, fmt.Errorf("deactivate stale items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit import: %w", err)
	}

	res.Created = len(plan.creates)
	res.Updated = len(plan.updates)
	res.Deactivated = len(plan.deactivates)
	log.Printf("[IMPORT] batch=%s done created=%d updated=%d deactivated=%d",
		batchID, res.Created, res.Updated, res.Deactivated)
	return res, nil
}

// AnalyzeImport is the pre-import step: it parses the file and reports
// the headers that resolve to nothing, so an admin can teach the mapper
// before running the real import.
func AnalyzeImport(ctx context.Context, pool *pgxpool.Pool, data []byte, filename string) ([]string, error) {
	rows, err := ParseSpreadsheet(data, filename)
	if err != nil {
		return nil, err
	}
	overrides, err := LoadOverrides(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("load mapping overrides: %w", err)
	}
	headerIdx := DetectHeaderRow(rows, overrides, config.ImportPreviewRows)
	if headerIdx < 0 {
		return nil, ErrNoIdentifierColumn
	}
	return UnknownHeaders(rows[headerIdx], overrides), nil
}
