package catalog

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseSpreadsheet_SemicolonCSV(t *testing.T) {
	data := []byte("Артикул;Назва;Кількість\n70123456 - Кава;Кава;1,5\n")
	rows, err := ParseSpreadsheet(data, "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 3 {
		t.Fatalf("unexpected shape: %v", rows)
	}
	if rows[1][0] != "70123456 - Кава" {
		t.Fatalf("unexpected cell: %q", rows[1][0])
	}
}

func TestParseSpreadsheet_CommaCSV(t *testing.T) {
	data := []byte("sku,name,qty\n70123456,Coffee,5\n")
	rows, err := ParseSpreadsheet(data, "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Coffee" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestParseSpreadsheet_UnknownExtension(t *testing.T) {
	_, err := ParseSpreadsheet([]byte("whatever"), "export.pdf")
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("want ErrUnsupportedFile, got %v", err)
	}
}

func TestParseSpreadsheet_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]string{"Артикул", "Кількість"}); err != nil {
		t.Fatalf("set header row: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]string{"70123456 - Кава", "3"}); err != nil {
		t.Fatalf("set data row: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, err := ParseSpreadsheet(buf.Bytes(), "export.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "70123456 - Кава" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestRowsToMaps(t *testing.T) {
	rows := [][]string{
		{"звіт", ""},
		{"Артикул", "Кількість"},
		{"70123456", "2"},
		{"70654321"}, // short row pads
		{"", " "},    // blank row is dropped
	}
	maps := RowsToMaps(rows, 1)
	if len(maps) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(maps), maps)
	}
	if maps[0]["Артикул"] != "70123456" || maps[0]["Кількість"] != "2" {
		t.Fatalf("unexpected first row: %v", maps[0])
	}
	if maps[1]["Кількість"] != "" {
		t.Fatalf("short row not padded: %v", maps[1])
	}
}

func TestRowsToMaps_NoDataRows(t *testing.T) {
	if maps := RowsToMaps([][]string{{"Артикул"}}, 0); maps != nil {
		t.Fatalf("expected nil, got %v", maps)
	}
}
