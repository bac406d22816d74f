package health

import (
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	svc := NewService("vertex")
	svc.started = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return svc.started.Add(90 * time.Second) }

	got := svc.Status()
	if !got.OK || got.Provider != "vertex" || got.UptimeSeconds != 90 {
		t.Fatalf("unexpected status %+v", got)
	}
}
