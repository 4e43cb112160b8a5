package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"StokCollect/api/constants"
	"StokCollect/internal/config"
)

// ErrUnsupportedFile is returned for extensions no parser variant handles
var ErrUnsupportedFile = errors.New(constants.ErrUnreadableFile)

// ErrEmptyFile is returned when the spreadsheet has no usable rows
var ErrEmptyFile = errors.New("file has no data rows")

// getFileExt returns the lower-cased file extension
func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ParseSpreadsheet turns an uploaded byte stream into raw rows. The
// filename only picks the parser variant: delimited text or one of the
// two Excel container formats.
func ParseSpreadsheet(data []byte, filename string) ([][]string, error) {
	switch getFileExt(filename) {
	case ".csv", ".txt":
		return parseCSV(data)
	case ".xlsx", ".xlsm":
		return parseXLSX(data)
	case ".xls":
		return parseXLS(data)
	}
	return nil, ErrUnsupportedFile
}

// parseCSV reads comma-delimited text and retries with semicolons when
// the whole sheet collapses into a single column, which is what European
// exports usually look like.
func parseCSV(data []byte) ([][]string, error) {
	rows, err := readCSV(data, ',')
	if err != nil || singleColumn(rows) {
		semiRows, semiErr := readCSV(data, ';')
		if semiErr == nil && !singleColumn(semiRows) {
			return semiRows, nil
		}
	}
	if err != nil {
		return nil, ErrUnsupportedFile
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func readCSV(data []byte, sep rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func singleColumn(rows [][]string) bool {
	if len(rows) == 0 {
		return true
	}
	for _, row := range rows {
		if len(row) > 1 {
			return false
		}
	}
	return true
}

func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFile
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, ErrUnsupportedFile
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func parseXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, ErrUnsupportedFile
	}
	rows := wb.ReadAllCells(config.ImportMaxCells)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// RowsToMaps applies a detected header row and returns each data row as
// header -> cell value. Short rows pad with empty cells.
func RowsToMaps(rows [][]string, headerIdx int) []map[string]string {
	if headerIdx < 0 || headerIdx >= len(rows)-1 {
		return nil
	}
	headers := rows[headerIdx]
	out := make([]map[string]string, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		m := make(map[string]string, len(headers))
		empty := true
		for j, h := range headers {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			if strings.TrimSpace(val) != "" {
				empty = false
			}
			m[h] = val
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
