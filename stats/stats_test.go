package stats

import (
	"testing"
	"time"
)

func TestRateLimiterFirstCallAlwaysRuns(t *testing.T) {
	rl := NewRateLimiter(time.Second)
	ran := false
	ok := rl.Try(time.Now(), func() { ran = true })
	if !ok || !ran {
		t.Fatal("first Try should always run")
	}
}

func TestRateLimiterSuppressesWithinInterval(t *testing.T) {
	rl := NewRateLimiter(time.Second)
	t0 := time.Now()
	rl.Try(t0, func() {})
	ran := false
	ok := rl.Try(t0.Add(500*time.Millisecond), func() { ran = true })
	if ok || ran {
		t.Fatal("Try within interval should be suppressed")
	}
	ok = rl.Try(t0.Add(1001*time.Millisecond), func() { ran = true })
	if !ok || !ran {
		t.Fatal("Try after interval should run")
	}
}

func TestMeanBufferMean(t *testing.T) {
	b := NewMeanBuffer(3)
	if b.Mean() != 0 {
		t.Fatal("empty buffer mean should be 0")
	}
	b.Register(3)
	if got := b.Mean(); got != 1 {
		t.Fatalf("Mean() with one filled slot of three = %v, want 1 (unfilled slots count as zero)", got)
	}
	b.Register(3)
	b.Register(3)
	if b.Mean() != 3 {
		t.Fatalf("Mean() = %v, want 3", b.Mean())
	}
	b.Register(6) // evicts the first 3
	if got := b.Mean(); got != (3.0+3.0+6.0)/3.0 {
		t.Fatalf("Mean() after eviction = %v, want %v", got, (3.0+3.0+6.0)/3.0)
	}
}

func TestStopWatchAccumulatesAcrossCycles(t *testing.T) {
	w := NewStopWatch()
	t0 := time.Now()
	w.Resume(t0)
	w.Pause(t0.Add(2 * time.Second))
	w.Resume(t0.Add(5 * time.Second))
	w.Pause(t0.Add(6 * time.Second))

	got := w.Elapsed(t0.Add(10 * time.Second))
	want := 3 * time.Second
	if got != want {
		t.Fatalf("Elapsed() = %v, want %v", got, want)
	}
}

func TestStopWatchDoubleResumeIsNoop(t *testing.T) {
	w := NewStopWatch()
	t0 := time.Now()
	w.Resume(t0)
	w.Resume(t0.Add(time.Second)) // should warn, not reset the start time
	got := w.Elapsed(t0.Add(2 * time.Second))
	if got != 2*time.Second {
		t.Fatalf("Elapsed() = %v, want 2s (double Resume must not reset start)", got)
	}
}

func TestStopWatchReset(t *testing.T) {
	w := NewStopWatch()
	t0 := time.Now()
	w.Resume(t0)
	w.Pause(t0.Add(5 * time.Second))

	w.Reset(t0.Add(6*time.Second), Running)
	if w.State() != Running {
		t.Fatal("Reset(Running) should leave the watch Running")
	}
	got := w.Elapsed(t0.Add(8 * time.Second))
	if got != 2*time.Second {
		t.Fatalf("Elapsed() after reset = %v, want 2s (prior elapsed discarded)", got)
	}

	w.Reset(t0.Add(9*time.Second), Paused)
	if w.State() != Paused {
		t.Fatal("Reset(Paused) should leave the watch Paused")
	}
	if got := w.Elapsed(t0.Add(20 * time.Second)); got != 0 {
		t.Fatalf("Elapsed() after Reset(Paused) = %v, want 0", got)
	}
}

func TestStopWatchAddSubRatioDivDuration(t *testing.T) {
	now := time.Now()
	tree := NewStopWatch()
	tree.Resume(now)
	tree.Pause(now.Add(1 * time.Second))
	vel := NewStopWatch()
	vel.Resume(now)
	vel.Pause(now.Add(3 * time.Second))

	total := tree.Add(now, vel)
	if total.Elapsed(now) != 4*time.Second {
		t.Fatalf("Add() elapsed = %v, want 4s", total.Elapsed(now))
	}
	if total.State() != Paused {
		t.Fatal("Add() should return a Paused StopWatch")
	}

	diff := vel.Sub(now, tree)
	if diff.Elapsed(now) != 2*time.Second {
		t.Fatalf("Sub() elapsed = %v, want 2s", diff.Elapsed(now))
	}

	if got := tree.Ratio(now, total); got != 0.25 {
		t.Fatalf("Ratio() = %v, want 0.25", got)
	}
	zero := NewStopWatch()
	if got := tree.Ratio(now, zero); got != 0 {
		t.Fatalf("Ratio() against a zero-elapsed watch = %v, want 0", got)
	}

	half := total.DivDuration(now, 2)
	if half.Elapsed(now) != 2*time.Second {
		t.Fatalf("DivDuration() elapsed = %v, want 2s", half.Elapsed(now))
	}
}

func TestFormatDurationUnitSwitching(t *testing.T) {
	cases := map[time.Duration]string{
		500 * time.Microsecond: "500.00us",
		2 * time.Millisecond:   "2.00ms",
		3 * time.Second:        "3.00s",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}
