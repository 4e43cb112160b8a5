package collect

import (
	"strings"
	"testing"
)

func TestSanitizeFilePart(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Василь Петренко", "Василь Петренко"},
		{"user/42?", "user42"},
		{"  @!#  ", "user"},
		{"ivan_petrov-7", "ivan_petrov-7"},
	}
	for _, c := range cases {
		if got := sanitizeFilePart(c.in); got != c.want {
			t.Fatalf("sanitizeFilePart(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildSettlementReports(t *testing.T) {
	res := SettlementResult{
		SessionID:      "s1",
		UserID:         "Василь",
		DepartmentLock: "",
		FulfilledLines: []SettlementLine{
			{SKU: "70123456", Name: "Кава", Quantity: 2, Price: 10, Total: 20},
		},
		SurplusLines: []SettlementLine{
			{SKU: "70123456", Name: "Кава", Quantity: 1, Price: 10, Total: 10},
		},
	}
	files, err := BuildSettlementReports(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len = %d, want 2", len(files))
	}
	if !strings.HasPrefix(files[0].Filename, "000_Василь_") {
		t.Fatalf("main report filename missing sentinel department: %q", files[0].Filename)
	}
	if !strings.HasPrefix(files[1].Filename, "НАДЛИШКИ_000_") {
		t.Fatalf("surplus report not prefixed: %q", files[1].Filename)
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Filename, ".xlsx") {
			t.Fatalf("filename missing extension: %q", f.Filename)
		}
		if f.Buf == nil || f.Buf.Len() == 0 {
			t.Fatalf("empty workbook for %q", f.Filename)
		}
	}
}

func TestBuildSettlementReports_NoSurplusFile(t *testing.T) {
	res := SettlementResult{
		UserID:         "ivan",
		DepartmentLock: "200",
		FulfilledLines: []SettlementLine{{SKU: "70111111", Name: "Чай", Quantity: 1}},
	}
	files, err := BuildSettlementReports(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("len = %d, want 1", len(files))
	}
	if strings.HasPrefix(files[0].Filename, "НАДЛИШКИ_") {
		t.Fatalf("unexpected surplus report: %q", files[0].Filename)
	}
}
