package collect

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"

	"StokCollect/api/constants"
)

// ReportFile is one generated workbook ready to stream out.
type ReportFile struct {
	Filename string
	Buf      *bytes.Buffer
}

var reportHeader = []interface{}{"Артикул", "Назва", "Кількість", "Ціна", "Сума"}

// sanitizeFilePart strips characters that break filenames on the way to
// the messaging transport.
func sanitizeFilePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		out = "user"
	}
	return out
}

func buildLinesWorkbook(lines []SettlementLine) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &reportHeader); err != nil {
		return nil, err
	}
	for i, line := range lines {
		row := []interface{}{line.SKU, line.Name, line.Quantity, line.Price, line.Total}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 40)
	return f.WriteToBuffer()
}

// BuildSettlementReports turns a settlement outcome into the main
// workbook plus, when anything overflowed, the surplus workbook. The
// filename carries department, user and timestamp the way warehouse staff
// file them.
func BuildSettlementReports(res SettlementResult) ([]ReportFile, error) {
	dept := res.DepartmentLock
	if dept == "" {
		dept = constants.DeptUnassigned
	}
	base := fmt.Sprintf("%s_%s_%s", dept, sanitizeFilePart(res.UserID), time.Now().Format(constants.FileStampFormat))

	files := []ReportFile{}
	if len(res.FulfilledLines) > 0 {
		buf, err := buildLinesWorkbook(res.FulfilledLines)
		if err != nil {
			return nil, err
		}
		files = append(files, ReportFile{Filename: base + ".xlsx", Buf: buf})
	}
	if len(res.SurplusLines) > 0 {
		buf, err := buildLinesWorkbook(res.SurplusLines)
		if err != nil {
			return nil, err
		}
		files = append(files, ReportFile{Filename: "НАДЛИШКИ_" + base + ".xlsx", Buf: buf})
	}
	return files, nil
}

// LoadSettledResult rebuilds a SettlementResult from a saved session, so
// reports can be regenerated after the fact.
func LoadSettledResult(ctx context.Context, pool *pgxpool.Pool, sessionID string) (SettlementResult, error) {
	var res SettlementResult
	var status string
	err := pool.QueryRow(ctx, `
		SELECT user_id, status, COALESCE(department_lock, '')
		FROM collection_sessions WHERE session_id = $1`,
		sessionID).Scan(&res.UserID, &status, &res.DepartmentLock)
	if errors.Is(err, pgx.ErrNoRows) {
		return res, ErrSessionNotFound
	}
	if err != nil {
		return res, err
	}
	if status != constants.SessionSaved {
		return res, ErrSessionNotActive
	}
	res.SessionID = sessionID

	claims, err := GetClaims(ctx, pool, sessionID)
	if err != nil {
		return res, err
	}
	for _, c := range claims {
		if c.Quantity > 0 {
			res.FulfilledLines = append(res.FulfilledLines, SettlementLine{
				SKU: c.SKU, Name: c.Name, Quantity: c.Quantity, Price: c.Price,
				Total: lineTotal(c.Quantity, c.Price),
			})
		}
		if c.Surplus > 0 {
			res.SurplusLines = append(res.SurplusLines, SettlementLine{
				SKU: c.SKU, Name: c.Name, Quantity: c.Surplus, Price: c.Price,
				Total: lineTotal(c.Surplus, c.Price),
			})
		}
	}
	return res, nil
}

// AnalyticsLine is one collected claim in the period report.
type AnalyticsLine struct {
	Date     string  `json:"date"`
	UserID   string  `json:"user_id"`
	DeptCode string  `json:"dept_code"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Surplus  float64 `json:"surplus_quantity"`
	Total    float64 `json:"total"`
}

// CollectedAnalytics reports what users collected over the last N days,
// across settled sessions. Runs on the secondary reporting connection.
func CollectedAnalytics(ctx context.Context, db *sql.DB, days int) ([]AnalyticsLine, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	statuses := []string{constants.SessionSaved}

	rows, err := db.QueryContext(ctx, `
		SELECT s.updated_at, s.user_id, COALESCE(s.department_lock, ''),
			c.sku, i.name, c.quantity, c.surplus_quantity, i.price
		FROM claims c
		JOIN collection_sessions s ON s.session_id = c.session_id
		JOIN items i ON i.sku = c.sku
		WHERE s.status = ANY($1) AND s.updated_at >= $2
		ORDER BY s.updated_at DESC`,
		pq.Array(statuses), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AnalyticsLine{}
	for rows.Next() {
		var line AnalyticsLine
		var at time.Time
		var price float64
		if err := rows.Scan(&at, &line.UserID, &line.DeptCode, &line.SKU, &line.Name, &line.Quantity, &line.Surplus, &price); err != nil {
			return nil, err
		}
		line.Date = at.Format(constants.DateTimeFormat)
		line.Total = lineTotal(line.Quantity, price)
		out = append(out, line)
	}
	return out, rows.Err()
}
