package catalog

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var stockExportHeader = []interface{}{
	"Артикул", "Назва", "Група", "Відділ", "Залишок", "Ціна", "Сума", "Без руху (міс)",
}

// LineTotal is the exported line value: qty * price rounded to kopiykas.
func LineTotal(qty, price float64) float64 {
	v, _ := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).Round(2).Float64()
	return v
}

// ExportStockBalances builds an xlsx workbook of every active item with
// stock on hand.
func ExportStockBalances(ctx context.Context, pool *pgxpool.Pool) (*bytes.Buffer, string, error) {
	items, err := ListActiveItems(ctx, pool, "")
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Залишки"
	f.SetSheetName(f.GetSheetName(0), sheet)
	if err := f.SetSheetRow(sheet, "A1", &stockExportHeader); err != nil {
		return nil, "", err
	}

	rowIdx := 2
	for _, it := range items {
		if it.QtyTotal <= 0 {
			continue
		}
		row := []interface{}{
			it.SKU, it.Name, it.Group, it.DeptCode,
			it.QtyTotal, it.Price, LineTotal(it.QtyTotal, it.Price), it.MonthsInactive,
		}
		cell := fmt.Sprintf("A%d", rowIdx)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", err
		}
		rowIdx++
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "D", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("stock_balance_%s.xlsx", time.Now().Format("02.01.2006"))
	return buf, filename, nil
}
