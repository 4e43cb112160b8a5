package collect

import (
	"testing"

	"StokCollect/api/constants"
)

func TestDepartmentForLock(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"100", "100"},
		{" 100 ", "100"},
		{"", "000"},
		{"   ", "000"},
	}
	for _, c := range cases {
		if got := DepartmentForLock(c.in); got != c.want {
			t.Fatalf("DepartmentForLock(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestClaimGate_FirstClaimSetsLock(t *testing.T) {
	reject, lock, setLock := claimGate(constants.SessionActive, nil, "100")
	if reject != nil {
		t.Fatalf("unexpected rejection: %+v", reject)
	}
	if lock != "100" || !setLock {
		t.Fatalf("lock = %q setLock = %v, want 100 true", lock, setLock)
	}
}

func TestClaimGate_BlankDepartmentGetsSentinel(t *testing.T) {
	reject, lock, setLock := claimGate(constants.SessionActive, nil, "")
	if reject != nil {
		t.Fatalf("unexpected rejection: %+v", reject)
	}
	if lock != constants.DeptUnassigned || !setLock {
		t.Fatalf("lock = %q setLock = %v, want sentinel true", lock, setLock)
	}
}

func TestClaimGate_MatchingLockProceeds(t *testing.T) {
	reject, lock, setLock := claimGate(constants.SessionActive, strPtr("100"), "100")
	if reject != nil {
		t.Fatalf("unexpected rejection: %+v", reject)
	}
	if lock != "100" || setLock {
		t.Fatalf("lock = %q setLock = %v, want 100 false", lock, setLock)
	}
}

func TestClaimGate_DepartmentMismatchRejects(t *testing.T) {
	reject, _, setLock := claimGate(constants.SessionActive, strPtr("100"), "200")
	if reject == nil || reject.Reason != ReasonDeptMismatch {
		t.Fatalf("want department mismatch, got %+v", reject)
	}
	if reject.DepartmentLock != "100" {
		t.Fatalf("rejection must carry the session lock, got %q", reject.DepartmentLock)
	}
	if setLock {
		t.Fatalf("mismatch must not touch the lock")
	}
}

func TestClaimGate_ClosedSessionRejects(t *testing.T) {
	for _, status := range []string{constants.SessionSaved, constants.SessionAbandoned} {
		reject, _, _ := claimGate(status, strPtr("100"), "100")
		if reject == nil || reject.Reason != ReasonSessionClosed {
			t.Fatalf("status %q: want session closed, got %+v", status, reject)
		}
	}
}
