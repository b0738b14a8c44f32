package stats

import (
	"fmt"
	"log/slog"
	"time"
)

// WatchState is a StopWatch's run state.
type WatchState int

const (
	Paused WatchState = iota
	Running
)

// StopWatch accumulates elapsed wall-clock time across possibly many
// resume/pause cycles, used to track real elapsed time and per-phase
// timing breakdowns.
type StopWatch struct {
	state   WatchState
	started time.Time
	elapsed time.Duration
}

// NewStopWatch returns a StopWatch in the Paused state with zero elapsed time.
func NewStopWatch() *StopWatch {
	return &StopWatch{state: Paused}
}

// Resume transitions Paused -> Running, starting accumulation. Calling
// Resume while already Running is a no-op that logs a warning.
func (w *StopWatch) Resume(now time.Time) {
	if w.state == Running {
		slog.Warn("stopwatch: resume called while already running")
		return
	}
	w.state = Running
	w.started = now
}

// Pause transitions Running -> Paused, folding the run's duration into
// elapsed. Calling Pause while already Paused is a no-op that logs a
// warning.
func (w *StopWatch) Pause(now time.Time) {
	if w.state == Paused {
		slog.Warn("stopwatch: pause called while already paused")
		return
	}
	w.state = Paused
	w.elapsed += now.Sub(w.started)
}

// State returns the current run state.
func (w *StopWatch) State() WatchState { return w.state }

// Elapsed returns the total accumulated duration, including the
// in-progress run if currently Running.
func (w *StopWatch) Elapsed(now time.Time) time.Duration {
	if w.state == Running {
		return w.elapsed + now.Sub(w.started)
	}
	return w.elapsed
}

// Reset zeroes accumulated elapsed time and sets the watch to state,
// starting accumulation immediately if state is Running.
func (w *StopWatch) Reset(now time.Time, state WatchState) {
	w.state = state
	w.elapsed = 0
	if state == Running {
		w.started = now
	}
}

// Add returns a new, Paused StopWatch whose elapsed duration is the sum of
// w's and other's elapsed durations at now, for reporting one phase's
// total across several component timings (e.g. tree + velocity + position).
func (w *StopWatch) Add(now time.Time, other *StopWatch) *StopWatch {
	return &StopWatch{state: Paused, elapsed: w.Elapsed(now) + other.Elapsed(now)}
}

// Sub returns a new, Paused StopWatch whose elapsed duration is w's minus
// other's elapsed duration at now.
func (w *StopWatch) Sub(now time.Time, other *StopWatch) *StopWatch {
	return &StopWatch{state: Paused, elapsed: w.Elapsed(now) - other.Elapsed(now)}
}

// DivDuration returns a new, Paused StopWatch whose elapsed duration is w's
// elapsed duration at now divided by d.
func (w *StopWatch) DivDuration(now time.Time, d float64) *StopWatch {
	return &StopWatch{state: Paused, elapsed: time.Duration(float64(w.Elapsed(now)) / d)}
}

// Ratio returns w's elapsed time divided by other's at now, or 0 if
// other's elapsed time is zero. Used to report a phase's share of a total,
// e.g. sw_tree.Ratio(now, sw_total).
func (w *StopWatch) Ratio(now time.Time, other *StopWatch) float64 {
	d := other.Elapsed(now)
	if d == 0 {
		return 0
	}
	return w.Elapsed(now).Seconds() / d.Seconds()
}

// String renders w's current elapsed duration via FormatDuration.
func (w *StopWatch) String(now time.Time) string {
	return FormatDuration(w.Elapsed(now))
}

// FormatDuration renders d switching units by magnitude: microseconds
// below 1ms, milliseconds below 1s, seconds below 60s, minutes otherwise.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fus", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	}
}
