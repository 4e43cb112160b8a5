package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"StokCollect/api/constants"
)

// ItemRecord is one normalized catalog row ready for reconciliation.
type ItemRecord struct {
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Group          string  `json:"group_name"`
	DeptCode       string  `json:"dept_code"`
	Qty            float64 `json:"qty_total"`
	Price          float64 `json:"price"`
	MonthsInactive int     `json:"months_inactive"`
}

// ErrNoSKU marks a row that yields no item identifier from any source
var ErrNoSKU = errors.New("row has no item identifier")

// NamePlaceholder is used when a row has an identifier but no readable name
const NamePlaceholder = "Без назви"

var skuRunPattern = regexp.MustCompile(fmt.Sprintf(`\b\d{%d}\b`, constants.SKULength))

// ParseLocaleFloat converts locale-formatted numbers ("1 234,00") to a
// float. Garbage and empty cells normalize to 0, never an error.
func ParseLocaleFloat(val string) float64 {
	s := strings.ReplaceAll(val, constants.NBSP, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0.0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}

// stripFloatArtifact drops the trailing ".0" that numeric-typed cells
// produce on integer-valued codes: "100.0" -> "100".
func stripFloatArtifact(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// SplitCodeName separates a combined "70239082 - Назва товару" cell into
// identifier and display name. The identifier must be the fixed-length
// digit run at the front.
func SplitCodeName(raw string) (sku string, name string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ""
	}
	sep := strings.IndexAny(s, "-–")
	if sep < 0 {
		// a bare code with no name half still counts
		if isSKURun(s) {
			return s, ""
		}
		return "", ""
	}
	_, sepLen := utf8.DecodeRuneInString(s[sep:])
	left := strings.TrimSpace(s[:sep])
	right := strings.TrimSpace(s[sep+sepLen:])
	fields := strings.Fields(left)
	if len(fields) > 0 && isSKURun(fields[0]) {
		return fields[0], right
	}
	return "", ""
}

func isSKURun(s string) bool {
	if len(s) != constants.SKULength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeRow turns one raw row into an ItemRecord using the resolved
// column map. Rows without an extractable identifier are rejected.
func NormalizeRow(row map[string]string, cols ColumnMap) (ItemRecord, error) {
	get := func(field string) string {
		header, ok := cols[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.ReplaceAll(row[header], constants.NBSP, " "))
	}

	name := get(FieldName)
	combined := get(FieldArticulName)

	// identifier hunt: explicit column first, then the combined column,
	// then a digit run buried in the display name
	sku := stripFloatArtifact(get(FieldSKU))
	if sku == "" && combined != "" {
		if s, n := SplitCodeName(combined); s != "" {
			sku = s
			if name == "" {
				name = n
			}
		} else if m := skuRunPattern.FindString(combined); m != "" {
			sku = m
		}
	}
	if sku == "" && name != "" {
		sku = skuRunPattern.FindString(name)
	}
	if sku == "" {
		return ItemRecord{}, ErrNoSKU
	}

	if name == "" && combined != "" {
		if _, n := SplitCodeName(combined); n != "" {
			name = n
		}
	}
	if name == "" {
		name = NamePlaceholder
	}

	qty := ParseLocaleFloat(get(FieldQty))
	price := ParseLocaleFloat(get(FieldPrice))
	totalSum := ParseLocaleFloat(get(FieldTotalSum))

	// derive unit price from the line total when the file carries no
	// price column
	if cols[FieldPrice] == "" && qty > 0 {
		price, _ = decimal.NewFromFloat(totalSum).
			Div(decimal.NewFromFloat(qty)).
			Round(4).Float64()
	}

	return ItemRecord{
		SKU:            sku,
		Name:           name,
		Group:          get(FieldGroup),
		DeptCode:       stripFloatArtifact(get(FieldDept)),
		Qty:            qty,
		Price:          price,
		MonthsInactive: int(ParseLocaleFloat(get(FieldMonths))),
	}, nil
}
