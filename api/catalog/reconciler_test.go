package catalog

import (
	"reflect"
	"testing"
)

func TestDedupeRecords_LastWriteWins(t *testing.T) {
	records := []ItemRecord{
		{SKU: "70111111", Qty: 1},
		{SKU: "70222222", Qty: 5},
		{SKU: "70111111", Qty: 3},
	}
	out := DedupeRecords(records)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].SKU != "70111111" || out[0].Qty != 3 {
		t.Fatalf("duplicate not collapsed last-write-wins: %+v", out[0])
	}
	if out[1].SKU != "70222222" {
		t.Fatalf("first-seen order lost: %+v", out)
	}
}

func TestBuildReconcilePlan(t *testing.T) {
	records := []ItemRecord{
		{SKU: "70111111"}, // known, active
		{SKU: "70333333"}, // new
		{SKU: "70444444"}, // known but deactivated earlier, comes back
	}
	existing := map[string]bool{
		"70111111": true,
		"70222222": true,  // active, absent from the file
		"70444444": false, // inactive, present in the file
		"70555555": false, // inactive, absent: already off, left alone
	}
	plan := buildReconcilePlan(records, existing)
	if len(plan.creates) != 1 || plan.creates[0].SKU != "70333333" {
		t.Fatalf("creates = %+v", plan.creates)
	}
	if len(plan.updates) != 2 {
		t.Fatalf("updates = %+v", plan.updates)
	}
	if !reflect.DeepEqual(plan.deactivates, []string{"70222222"}) {
		t.Fatalf("deactivates = %v", plan.deactivates)
	}
}

func TestBuildReconcilePlan_RepeatImportIsStable(t *testing.T) {
	records := []ItemRecord{{SKU: "70111111"}, {SKU: "70222222"}}
	existing := map[string]bool{"70111111": true, "70222222": true}
	plan := buildReconcilePlan(records, existing)
	if len(plan.creates) != 0 || len(plan.deactivates) != 0 || len(plan.updates) != 2 {
		t.Fatalf("repeat import should only update: %+v", plan)
	}
}

func TestNormalizeRows_CountsRejects(t *testing.T) {
	cols := ColumnMap{FieldSKU: "Код", FieldQty: "Кількість"}
	raw := []map[string]string{
		{"Код": "70111111", "Кількість": "2"},
		{"Код": "", "Кількість": "5"},
		{"Код": "70222222", "Кількість": "сміття"},
	}
	records, errCount := NormalizeRows(raw, cols)
	if errCount != 1 {
		t.Fatalf("errCount = %d, want 1", errCount)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v", records)
	}
	if records[1].Qty != 0 {
		t.Fatalf("garbage qty should normalize to zero, got %v", records[1].Qty)
	}
}
