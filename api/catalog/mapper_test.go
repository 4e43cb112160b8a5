package catalog

import (
	"errors"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{" Залишок (шт) ", "залишок"},
		{"ЦІНА", "ціна"},
		{"Qty ", "qty"},
		{"  ", ""},
		{"Артикул", "артикул"},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveColumns_MixedHeaders(t *testing.T) {
	headers := []string{"Артикул", "Назва", "Залишок (шт)", "Ціна", "Відділ", "Сума"}
	cols, err := ResolveColumns(headers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		FieldArticulName: "Артикул",
		FieldName:        "Назва",
		FieldQty:         "Залишок (шт)",
		FieldPrice:       "Ціна",
		FieldDept:        "Відділ",
		FieldTotalSum:    "Сума",
	}
	for field, header := range want {
		if cols[field] != header {
			t.Fatalf("field %s resolved to %q, want %q", field, cols[field], header)
		}
	}
}

func TestResolveColumns_CompoundLabelsBeatTheirPrefix(t *testing.T) {
	// "Залишок, сума" contains the qty synonym "залишок"; the exact
	// compound synonym must still win so both columns resolve
	cols, err := ResolveColumns([]string{"Артикул", "Залишок, к-ть", "Залишок, сума"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols[FieldQty] != "Залишок, к-ть" {
		t.Fatalf("qty resolved to %q", cols[FieldQty])
	}
	if cols[FieldTotalSum] != "Залишок, сума" {
		t.Fatalf("total_sum resolved to %q", cols[FieldTotalSum])
	}
}

func TestResolveColumns_OverrideWinsOverSynonyms(t *testing.T) {
	overrides := map[string]string{"залишок": FieldMonths}
	cols, err := ResolveColumns([]string{"Залишок", "Артикул"}, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols[FieldMonths] != "Залишок" {
		t.Fatalf("override ignored: %v", cols)
	}
	if _, ok := cols[FieldQty]; ok {
		t.Fatalf("header resolved twice: %v", cols)
	}
}

func TestResolveColumns_HeaderResolvesOnce(t *testing.T) {
	// two headers hitting the same field: the field keeps the first one
	cols, err := ResolveColumns([]string{"Кількість", "Кол-во", "Артикул"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols[FieldQty] != "Кількість" {
		t.Fatalf("expected first qty header kept, got %q", cols[FieldQty])
	}
}

func TestResolveColumns_NoIdentifierIsFatal(t *testing.T) {
	_, err := ResolveColumns([]string{"Ціна", "Сума", "Кількість"}, nil)
	if !errors.Is(err, ErrNoIdentifierColumn) {
		t.Fatalf("want ErrNoIdentifierColumn, got %v", err)
	}
}

func TestUnknownHeaders(t *testing.T) {
	headers := []string{"Артикул", "Щось дивне", "Unnamed: 3", ""}
	unknown := UnknownHeaders(headers, nil)
	if len(unknown) != 1 || unknown[0] != "Щось дивне" {
		t.Fatalf("unexpected unknown headers: %v", unknown)
	}
}

func TestDetectHeaderRow_SkipsPreamble(t *testing.T) {
	rows := [][]string{
		{"Звіт по складу", ""},
		{"", ""},
		{"Артикул", "Назва", "Кількість"},
		{"70123456 - Кава", "Кава", "5"},
	}
	if got := DetectHeaderRow(rows, nil, 20); got != 2 {
		t.Fatalf("DetectHeaderRow = %d, want 2", got)
	}
}

func TestDetectHeaderRow_NothingResolves(t *testing.T) {
	rows := [][]string{{"foo", "bar"}, {"1", "2"}}
	if got := DetectHeaderRow(rows, nil, 20); got != -1 {
		t.Fatalf("DetectHeaderRow = %d, want -1", got)
	}
}
