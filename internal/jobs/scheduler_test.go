package jobs

import "testing"

func TestRunSessionSweeper_RejectsBadConfig(t *testing.T) {
	cfg := NewDefaultSweepConfig()
	cfg.Schedule = "not a schedule"
	if _, err := RunSessionSweeper(cfg, nil); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}

	cfg = NewDefaultSweepConfig()
	cfg.TimeZone = "Nowhere/Nowhere"
	if _, err := RunSessionSweeper(cfg, nil); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

func TestCronService_StopHaltsScheduler(t *testing.T) {
	svc := NewCronService(map[string]interface{}{"sweep_schedule": "0 3 * * *"}, nil)
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Stop must block until the scheduler goroutine drains and must be
	// safe to call again
	if err := svc.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
