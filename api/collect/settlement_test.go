package collect

import (
	"errors"
	"testing"

	"StokCollect/api/constants"
)

func TestSettleGuard(t *testing.T) {
	if err := settleGuard(constants.SessionActive); err != nil {
		t.Fatalf("active session must settle, got %v", err)
	}
	for _, status := range []string{constants.SessionSaved, constants.SessionAbandoned, ""} {
		if err := settleGuard(status); !errors.Is(err, ErrSessionNotActive) {
			t.Fatalf("status %q: want ErrSessionNotActive, got %v", status, err)
		}
	}
}

func TestSplitClaim(t *testing.T) {
	cases := []struct {
		name               string
		claimed, stock     float64
		fulfilled, surplus float64
	}{
		{"over-claim splits", 12, 10, 10, 2},
		{"fits entirely", 5, 10, 5, 0},
		{"exact fit", 10, 10, 10, 0},
		{"empty stock", 3, 0, 0, 3},
		{"negative stock counts as empty", 2, -1, 0, 2},
		{"fractional quantities", 4.7, 3.2, 3.2, 1.5},
		{"zero claim", 0, 10, 0, 0},
	}
	for _, c := range cases {
		fulfilled, surplus := SplitClaim(c.claimed, c.stock)
		if fulfilled != c.fulfilled || surplus != c.surplus {
			t.Fatalf("%s: SplitClaim(%v, %v) = (%v, %v), want (%v, %v)",
				c.name, c.claimed, c.stock, fulfilled, surplus, c.fulfilled, c.surplus)
		}
	}
}

func TestLineTotal(t *testing.T) {
	// 3 * 1.115 rounds half up at two decimals
	if got := lineTotal(3, 1.115); got != 3.35 {
		t.Fatalf("lineTotal(3, 1.115) = %v, want 3.35", got)
	}
	if got := lineTotal(0, 99.99); got != 0 {
		t.Fatalf("lineTotal(0, 99.99) = %v, want 0", got)
	}
}
