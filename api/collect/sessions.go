package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"StokCollect/api/constants"
)

// CollectionSession is one user's open (or finished) collection list.
type CollectionSession struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	Status         string    `json:"status"`
	DepartmentLock string    `json:"department_lock,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Claim is one line of a session.
type Claim struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Surplus  float64 `json:"surplus_quantity"`
	Price    float64 `json:"price"`
}

// ClaimResult is the domain outcome of an add-claim attempt. Failure
// reasons are data, not errors: the caller decides the UX.
type ClaimResult struct {
	Success        bool    `json:"success"`
	Reason         string  `json:"reason,omitempty"`
	DepartmentLock string  `json:"department_lock,omitempty"`
	Quantity       float64 `json:"quantity,omitempty"`
}

const (
	ReasonItemNotFound  = "item_not_found"
	ReasonDeptMismatch  = "department_mismatch"
	ReasonSessionClosed = "session_closed"
)

var ErrNoActiveSession = errors.New(constants.ErrSessionNotFound)
var ErrSessionNotFound = errors.New("session not found")

// DepartmentForLock maps an item's department to the value stored in the
// session lock. Items without a department all share the sentinel code so
// a lock is always established.
func DepartmentForLock(deptCode string) string {
	if strings.TrimSpace(deptCode) == "" {
		return constants.DeptUnassigned
	}
	return strings.TrimSpace(deptCode)
}

// StartSession opens a fresh active session for the user. A previous
// active session is demoted to abandoned, never deleted.
func StartSession(ctx context.Context, pool *pgxpool.Pool, userID string) (CollectionSession, error) {
	var sess CollectionSession
	tx, err := pool.Begin(ctx)
	if err != nil {
		return sess, fmt.Errorf("begin session tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE collection_sessions SET status = $1, updated_at = now() WHERE user_id = $2 AND status = $3`,
		constants.SessionAbandoned, userID, constants.SessionActive); err != nil {
		return sess, err
	}

	sess = CollectionSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Status:    constants.SessionActive,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO collection_sessions (session_id, user_id, status) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		sess.SessionID, sess.UserID, sess.Status).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return sess, err
	}
	return sess, tx.Commit(ctx)
}

// GetOpenSession returns the user's active session.
func GetOpenSession(ctx context.Context, pool *pgxpool.Pool, userID string) (CollectionSession, error) {
	var sess CollectionSession
	err := pool.QueryRow(ctx,
		`SELECT session_id, user_id, status, COALESCE(department_lock, ''), created_at, updated_at
		 FROM collection_sessions WHERE user_id = $1 AND status = $2`,
		userID, constants.SessionActive).
		Scan(&sess.SessionID, &sess.UserID, &sess.Status, &sess.DepartmentLock, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sess, ErrNoActiveSession
	}
	return sess, err
}

// claimGate is the admission decision for one claim attempt: a rejection
// result, or the department lock the claim proceeds under, with setLock
// true when this is the session's first claim. A rejection writes
// nothing.
func claimGate(status string, currentLock *string, itemDept string) (reject *ClaimResult, lock string, setLock bool) {
	if status != constants.SessionActive {
		return &ClaimResult{Reason: ReasonSessionClosed}, "", false
	}
	want := DepartmentForLock(itemDept)
	if currentLock == nil {
		return nil, want, true
	}
	if *currentLock != want {
		return &ClaimResult{Reason: ReasonDeptMismatch, DepartmentLock: *currentLock}, "", false
	}
	return nil, want, false
}

// AddClaim records a quantity claim against an item inside a session.
// The first claim fixes the session's department lock; later claims must
// match it. There is deliberately no stock ceiling here and no locking
// across other users' sessions: over-claiming is resolved at settlement.
func AddClaim(ctx context.Context, pool *pgxpool.Pool, sessionID, sku string, qty float64) (ClaimResult, error) {
	var res ClaimResult
	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var itemDept string
	err = tx.QueryRow(ctx, `SELECT COALESCE(dept_code, '') FROM items WHERE sku = $1`, sku).Scan(&itemDept)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClaimResult{Reason: ReasonItemNotFound}, nil
	}
	if err != nil {
		return res, err
	}

	var status string
	var lock *string
	err = tx.QueryRow(ctx,
		`SELECT status, department_lock FROM collection_sessions WHERE session_id = $1 FOR UPDATE`,
		sessionID).Scan(&status, &lock)
	if errors.Is(err, pgx.ErrNoRows) {
		return res, ErrSessionNotFound
	}
	if err != nil {
		return res, err
	}
	reject, wantLock, setLock := claimGate(status, lock, itemDept)
	if reject != nil {
		return *reject, nil
	}
	if setLock {
		if _, err := tx.Exec(ctx,
			`UPDATE collection_sessions SET department_lock = $1, updated_at = now() WHERE session_id = $2`,
			wantLock, sessionID); err != nil {
			return res, err
		}
	}

	var total float64
	err = tx.QueryRow(ctx, `
		INSERT INTO claims (session_id, sku, quantity) VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uniq_session_sku
		DO UPDATE SET quantity = claims.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`,
		sessionID, sku, qty).Scan(&total)
	if err != nil {
		return res, err
	}

	if err := tx.Commit(ctx); err != nil {
		return res, err
	}
	return ClaimResult{Success: true, DepartmentLock: wantLock, Quantity: total}, nil
}

// ClearSession drops every claim of the user's active session and resets
// its department lock, so collecting can restart in any department.
func ClearSession(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var sessionID string
	err = tx.QueryRow(ctx,
		`SELECT session_id FROM collection_sessions WHERE user_id = $1 AND status = $2 FOR UPDATE`,
		userID, constants.SessionActive).Scan(&sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoActiveSession
	}
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM claims WHERE session_id = $1`, sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE collection_sessions SET department_lock = NULL, updated_at = now() WHERE session_id = $1`,
		sessionID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetClaims lists a session's claims joined with item data.
func GetClaims(ctx context.Context, pool *pgxpool.Pool, sessionID string) ([]Claim, error) {
	rows, err := pool.Query(ctx, `
		SELECT c.sku, i.name, c.quantity, c.surplus_quantity, i.price
		FROM claims c
		JOIN items i ON i.sku = c.sku
		WHERE c.session_id = $1
		ORDER BY c.claim_id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	claims := []Claim{}
	for rows.Next() {
		var c Claim
		if err := rows.Scan(&c.SKU, &c.Name, &c.Quantity, &c.Surplus, &c.Price); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
