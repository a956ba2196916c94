package breaker

import (
	"testing"
	"time"
)

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b := New(3, time.Minute)

	for i := 0; i < 2; i++ {
		b.RecordFailure("unblock")
	}
	if !b.Allow("unblock") {
		t.Fatal("circuit opened before threshold")
	}

	b.RecordFailure("unblock")
	if b.Allow("unblock") {
		t.Fatal("circuit still closed after threshold failures")
	}
	if got := b.CurrentState("unblock"); got != StateOpen {
		t.Errorf("state = %q, want open", got)
	}
}

func TestBreaker_HalfOpenProbeAndRecovery(t *testing.T) {
	b := New(2, time.Minute)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	b.RecordFailure("archive")
	b.RecordFailure("archive")
	if b.Allow("archive") {
		t.Fatal("expected open circuit")
	}

	// Advance past the reset timeout: one probe is admitted.
	clock = clock.Add(2 * time.Minute)
	if !b.Allow("archive") {
		t.Fatal("expected half-open probe to be admitted")
	}
	// A second caller during the probe is rejected.
	if b.Allow("archive") {
		t.Fatal("expected concurrent caller to be rejected during probe")
	}

	b.RecordSuccess("archive")
	if !b.Allow("archive") {
		t.Fatal("expected closed circuit after successful probe")
	}
}

func TestBreaker_ServicesIndependent(t *testing.T) {
	b := New(1, time.Minute)
	b.RecordFailure("browser")
	if b.Allow("browser") {
		t.Fatal("browser circuit should be open")
	}
	if !b.Allow("archive") {
		t.Fatal("archive circuit should be unaffected")
	}
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := New(3, time.Minute)
	b.RecordFailure("x")
	b.RecordFailure("x")
	b.RecordSuccess("x")
	b.RecordFailure("x")
	b.RecordFailure("x")
	if !b.Allow("x") {
		t.Fatal("failure count should reset on success")
	}
}
