package catalog

import (
	"errors"
	"strings"

	"StokCollect/api/constants"
)

// Canonical logical fields a spreadsheet column can resolve to.
const (
	FieldSKU         = "sku"
	FieldArticulName = "articul_name" // combined "code - name" column
	FieldName        = "name"
	FieldQty         = "qty_total"
	FieldPrice       = "price"
	FieldTotalSum    = "total_sum"
	FieldGroup       = "group_name"
	FieldDept        = "dept_code"
	FieldDeptName    = "dept_name"
	FieldMonths      = "months_inactive"
)

// ErrNoIdentifierColumn is returned when no column can yield an item
// identifier, directly or embedded in a name
var ErrNoIdentifierColumn = errors.New(constants.ErrNoIdentifierCol)

// fieldOrder fixes resolution priority: the first field whose synonym list
// matches a header wins. articul_name sits before sku so a bare "артикул"
// header lands on the combined column and the normalizer sorts out whether
// its values are pure codes or "code - name" pairs.
var fieldOrder = []string{
	FieldArticulName,
	FieldSKU,
	FieldName,
	FieldQty,
	FieldPrice,
	FieldTotalSum,
	FieldGroup,
	FieldDept,
	FieldDeptName,
	FieldMonths,
}

// fieldSynonyms is the built-in synonym table. Warehouse exports come with
// Ukrainian, Russian and English headers, sometimes shortened to a single
// letter.
var fieldSynonyms = map[string][]string{
	FieldArticulName: {
		"articul_name", "articul name", "артикул",
	},
	FieldSKU: {
		"sku", "арт", "код товара", "код", "code", "item_no", "item code", "id", "а",
	},
	FieldName: {
		"назва", "название", "наименование", "name", "title", "товар", "опис", "description", "н",
	},
	FieldQty: {
		"залишок, к-ть", "остаток, к-во", "кол-во", "количество", "кількість",
		"залишок", "остаток", "qty", "quantity", "count", "кол", "к",
	},
	FieldPrice: {
		"ціна", "цена", "price", "cost", "unit price", "ц",
	},
	FieldTotalSum: {
		"залишок, сума", "сума", "сумма", "sum", "total", "вартість", "amount", "value", "money", "с",
	},
	FieldGroup: {
		"fg1_name", "група", "группа", "group", "category", "cat", "гр", "г",
	},
	FieldDept: {
		"dept_code", "від", "в",
	},
	FieldDeptName: {
		"відділ", "отдел", "dept", "department",
	},
	FieldMonths: {
		"місяців", "міс", "мес", "months_no_sale", "months", "period", "м",
	},
}

// ColumnMap maps a canonical field to the spreadsheet header it was
// resolved from.
type ColumnMap map[string]string

// NormalizeHeader cleans a raw header the way the synonym table expects:
// ' Залишок (шт) ' -> 'залишок'.
func NormalizeHeader(header string) string {
	h := strings.ReplaceAll(header, constants.NBSP, " ")
	h = strings.ToLower(strings.TrimSpace(h))
	if idx := strings.Index(h, "("); idx >= 0 {
		h = h[:idx]
	}
	return strings.TrimSpace(h)
}

// resolveHeader maps one normalized header to a canonical field, override
// table first, then the built-in synonyms. Exact matches across every
// field are tried before any substring match, so a compound label like
// "залишок, сума" lands on its own field instead of the shorter synonym
// it contains. Single-letter and two-letter codes only count on exact
// match; longer synonyms also match as a substring of the header.
func resolveHeader(norm string, overrides map[string]string) string {
	if norm == "" {
		return ""
	}
	if field, ok := overrides[norm]; ok {
		return field
	}
	for _, field := range fieldOrder {
		for _, syn := range fieldSynonyms[field] {
			if syn == norm {
				return field
			}
		}
	}
	for _, field := range fieldOrder {
		for _, syn := range fieldSynonyms[field] {
			if len([]rune(syn)) >= 3 && strings.Contains(norm, syn) {
				return field
			}
		}
	}
	return ""
}

// ResolveColumns resolves the literal header strings of one spreadsheet.
// Each header lands on at most one field and each field keeps the first
// header that resolved to it. The import is refused outright when no
// column can produce an item identifier.
func ResolveColumns(headers []string, overrides map[string]string) (ColumnMap, error) {
	cols := make(ColumnMap)
	for _, header := range headers {
		field := resolveHeader(NormalizeHeader(header), overrides)
		if field == "" {
			continue
		}
		if _, taken := cols[field]; taken {
			continue
		}
		cols[field] = header
	}
	if cols[FieldSKU] == "" && cols[FieldArticulName] == "" && cols[FieldName] == "" {
		return nil, ErrNoIdentifierColumn
	}
	return cols, nil
}

// UnknownHeaders returns the headers the mapper did not understand, for
// the pre-import analysis step. Spreadsheet filler columns ("Unnamed: 3")
// are not reported.
func UnknownHeaders(headers []string, overrides map[string]string) []string {
	unknown := []string{}
	for _, header := range headers {
		norm := NormalizeHeader(header)
		if norm == "" || strings.Contains(norm, "unnamed") {
			continue
		}
		if resolveHeader(norm, overrides) == "" {
			unknown = append(unknown, header)
		}
	}
	return unknown
}

// DetectHeaderRow scans the raw preview rows and returns the index of the
// row that looks most like the header: the earliest row with the highest
// number of resolvable cells. Returns -1 when nothing resolves at all.
func DetectHeaderRow(rows [][]string, overrides map[string]string, maxScan int) int {
	best, bestScore := -1, 0
	if maxScan > len(rows) || maxScan <= 0 {
		maxScan = len(rows)
	}
	for i := 0; i < maxScan; i++ {
		score := 0
		for _, cell := range rows[i] {
			if resolveHeader(NormalizeHeader(cell), overrides) != "" {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
