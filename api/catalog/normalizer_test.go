package catalog

import (
	"errors"
	"testing"
)

func TestParseLocaleFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,5", 1.5},
		{"1 234,00", 1234.0},
		{"1 234,50", 1234.5},
		{"12", 12},
		{"", 0},
		{"немає", 0},
		{"-3,25", -3.25},
	}
	for _, c := range cases {
		if got := ParseLocaleFloat(c.in); got != c.want {
			t.Fatalf("ParseLocaleFloat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitCodeName(t *testing.T) {
	cases := []struct {
		in, sku, name string
	}{
		{"70239082 - Кава мелена", "70239082", "Кава мелена"},
		{"70239082 – Кава", "70239082", "Кава"},
		{"70239082-Кава", "70239082", "Кава"},
		{"70239082", "70239082", ""},
		{"Кава мелена", "", ""},
		{"1234 - Кава", "", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		sku, name := SplitCodeName(c.in)
		if sku != c.sku || name != c.name {
			t.Fatalf("SplitCodeName(%q) = (%q, %q), want (%q, %q)", c.in, sku, name, c.sku, c.name)
		}
	}
}

func TestNormalizeRow_CombinedColumn(t *testing.T) {
	cols := ColumnMap{FieldArticulName: "Артикул", FieldQty: "Кількість"}
	rec, err := NormalizeRow(map[string]string{
		"Артикул":   "70123456 - Кава зернова",
		"Кількість": "1,5",
	}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.SKU != "70123456" || rec.Name != "Кава зернова" || rec.Qty != 1.5 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestNormalizeRow_IdentifierFromName(t *testing.T) {
	cols := ColumnMap{FieldName: "Назва"}
	rec, err := NormalizeRow(map[string]string{"Назва": "Чай 70654321 чорний"}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.SKU != "70654321" {
		t.Fatalf("sku = %q, want 70654321", rec.SKU)
	}
}

func TestNormalizeRow_NoIdentifier(t *testing.T) {
	cols := ColumnMap{FieldName: "Назва", FieldQty: "Кількість"}
	_, err := NormalizeRow(map[string]string{"Назва": "Чай чорний", "Кількість": "3"}, cols)
	if !errors.Is(err, ErrNoSKU) {
		t.Fatalf("want ErrNoSKU, got %v", err)
	}
}

func TestNormalizeRow_NamePlaceholder(t *testing.T) {
	cols := ColumnMap{FieldSKU: "Код"}
	rec, err := NormalizeRow(map[string]string{"Код": "70111111"}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != NamePlaceholder {
		t.Fatalf("name = %q, want placeholder", rec.Name)
	}
}

func TestNormalizeRow_PriceDerivedFromTotal(t *testing.T) {
	cols := ColumnMap{FieldSKU: "Код", FieldQty: "Кількість", FieldTotalSum: "Сума"}
	rec, err := NormalizeRow(map[string]string{
		"Код":       "70111111",
		"Кількість": "4",
		"Сума":      "10,00",
	}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Price != 2.5 {
		t.Fatalf("price = %v, want 2.5", rec.Price)
	}
}

func TestNormalizeRow_PriceDerivedFromCompoundColumns(t *testing.T) {
	// the two-column export format: quantity and line total, no price
	cols, err := ResolveColumns([]string{"Артикул", "Залишок, к-ть", "Залишок, сума"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := NormalizeRow(map[string]string{
		"Артикул":       "70111111 - Кава",
		"Залишок, к-ть": "4",
		"Залишок, сума": "10,00",
	}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Price != 2.5 {
		t.Fatalf("price = %v, want 2.5", rec.Price)
	}
}

func TestNormalizeRow_ExplicitPriceNotOverridden(t *testing.T) {
	cols := ColumnMap{FieldSKU: "Код", FieldQty: "Кількість", FieldPrice: "Ціна", FieldTotalSum: "Сума"}
	rec, err := NormalizeRow(map[string]string{
		"Код":       "70111111",
		"Кількість": "4",
		"Ціна":      "3,00",
		"Сума":      "10,00",
	}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Price != 3.0 {
		t.Fatalf("price = %v, want 3.0", rec.Price)
	}
}

func TestNormalizeRow_StripsNumericArtifacts(t *testing.T) {
	cols := ColumnMap{FieldSKU: "Код", FieldDept: "Відділ", FieldMonths: "Місяців"}
	rec, err := NormalizeRow(map[string]string{
		"Код":     "70111111.0",
		"Відділ":  "100.0",
		"Місяців": "6.0",
	}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.SKU != "70111111" || rec.DeptCode != "100" || rec.MonthsInactive != 6 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
