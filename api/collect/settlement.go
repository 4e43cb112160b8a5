package collect

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"StokCollect/api/constants"
)

// ErrSessionNotActive rejects settlement of an already settled or
// abandoned session before anything is mutated. A second run would
// double-decrement stock.
var ErrSessionNotActive = errors.New(constants.ErrSettleNotActive)

// SettlementLine is one item's share of a settlement outcome.
type SettlementLine struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// SettlementResult is handed to the report generator.
type SettlementResult struct {
	SessionID      string           `json:"session_id"`
	UserID         string           `json:"user_id"`
	DepartmentLock string           `json:"department_lock"`
	FulfilledLines []SettlementLine `json:"fulfilled_lines"`
	SurplusLines   []SettlementLine `json:"surplus_lines"`
}

// settleGuard rejects settlement of a session in any state but active.
func settleGuard(status string) error {
	if status != constants.SessionActive {
		return ErrSessionNotActive
	}
	return nil
}

// SplitClaim apportions a claimed quantity against current stock: the
// satisfiable part and the surplus beyond it. Negative stock counts as
// empty.
func SplitClaim(claimed, stock float64) (fulfilled, surplus float64) {
	c := decimal.NewFromFloat(claimed)
	s := decimal.NewFromFloat(stock)
	if s.IsNegative() {
		s = decimal.Zero
	}
	f := decimal.Min(c, s)
	fulfilled, _ = f.Float64()
	surplus, _ = c.Sub(f).Float64()
	if surplus < 0 {
		surplus = 0
	}
	return fulfilled, surplus
}

func lineTotal(qty, price float64) float64 {
	v, _ := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).Round(2).Float64()
	return v
}

// Settle finalizes an active session in one transaction: every claim is
// split against the item's live stock, the satisfiable part is written
// off, the surplus is recorded on the claim, and the session is closed as
// saved. The item rows are locked so a concurrent settlement or import
// cannot interleave with the read-decide-decrement sequence.
func Settle(ctx context.Context, pool *pgxpool.Pool, sessionID string) (SettlementResult, error) {
	var res SettlementResult
	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin settle tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `
		SELECT user_id, status, COALESCE(department_lock, '')
		FROM collection_sessions WHERE session_id = $1 FOR UPDATE`,
		sessionID).Scan(&res.UserID, &status, &res.DepartmentLock)
	if errors.Is(err, pgx.ErrNoRows) {
		return res, ErrSessionNotFound
	}
	if err != nil {
		return res, err
	}
	if err := settleGuard(status); err != nil {
		return res, err
	}
	res.SessionID = sessionID

	type claimRow struct {
		claimID  int64
		sku      string
		name     string
		quantity float64
		stock    float64
		price    float64
	}
	rows, err := tx.Query(ctx, `
		SELECT c.claim_id, c.sku, i.name, c.quantity, i.qty_total, i.price
		FROM claims c
		JOIN items i ON i.sku = c.sku
		WHERE c.session_id = $1
		ORDER BY c.claim_id
		FOR UPDATE OF c, i`,
		sessionID)
	if err != nil {
		return res, err
	}
	var claims []claimRow
	for rows.Next() {
		var c claimRow
		if err := rows.Scan(&c.claimID, &c.sku, &c.name, &c.quantity, &c.stock, &c.price); err != nil {
			rows.Close()
			return res, err
		}
		claims = append(claims, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return res, err
	}

	for _, c := range claims {
		fulfilled, surplus := SplitClaim(c.quantity, c.stock)

		// the claim's quantity becomes the authoritative "taken from
		// stock" figure once settled
		if _, err := tx.Exec(ctx,
			`UPDATE claims SET quantity = $1, surplus_quantity = $2, updated_at = now() WHERE claim_id = $3`,
			fulfilled, surplus, c.claimID); err != nil {
			return res, err
		}
		if fulfilled > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE items SET qty_total = qty_total - $1, updated_at = now() WHERE sku = $2`,
				fulfilled, c.sku); err != nil {
				return res, err
			}
			res.FulfilledLines = append(res.FulfilledLines, SettlementLine{
				SKU: c.sku, Name: c.name, Quantity: fulfilled, Price: c.price,
				Total: lineTotal(fulfilled, c.price),
			})
		}
		if surplus > 0 {
			res.SurplusLines = append(res.SurplusLines, SettlementLine{
				SKU: c.sku, Name: c.name, Quantity: surplus, Price: c.price,
				Total: lineTotal(surplus, c.price),
			})
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE collection_sessions SET status = $1, updated_at = now() WHERE session_id = $2`,
		constants.SessionSaved, sessionID); err != nil {
		return res, err
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit settle: %w", err)
	}
	log.Printf("[SETTLE] session=%s dept=%s fulfilled=%d surplus=%d",
		sessionID, res.DepartmentLock, len(res.FulfilledLines), len(res.SurplusLines))
	return res, nil
}
