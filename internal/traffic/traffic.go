// Package traffic tracks recent dashboard outcomes so /health can report whether the
// weather provider is currently failing.
package traffic

import (
	"sync"
	"time"
)

// Tracker maintains sliding windows of outcome timestamps. Safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	retention    time.Duration
	now          func() time.Time
	successTimes []time.Time
	errorTimes   []time.Time
}

// New returns a Tracker that keeps outcomes for retention (at least one minute).
func New(retention time.Duration) *Tracker {
	if retention < time.Minute {
		retention = time.Minute
	}
	return &Tracker{retention: retention, now: time.Now}
}

// RecordSuccess records a dashboard render that got both datasets.
func (t *Tracker) RecordSuccess() {
	t.recordOutcome(&t.successTimes)
}

// RecordError records a dashboard render that failed upstream.
func (t *Tracker) RecordError() {
	t.recordOutcome(&t.errorTimes)
}

func (t *Tracker) recordOutcome(slice *[]time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	*slice = append(*slice, now)
	t.pruneLocked(now)
}

// ErrorRate returns (errorCount, totalCount) within the window.
func (t *Tracker) ErrorRate(window time.Duration) (errors, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-window)
	errCount := countInWindow(t.errorTimes, cutoff)
	successCount := countInWindow(t.successTimes, cutoff)
	return errCount, errCount + successCount
}

// Degraded reports whether errors make up at least thresholdPct percent of the
// outcomes in window. An empty window is never degraded.
func (t *Tracker) Degraded(window time.Duration, thresholdPct int) bool {
	errors, total := t.ErrorRate(window)
	if total == 0 || thresholdPct <= 0 {
		return false
	}
	return errors*100 >= thresholdPct*total
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successTimes = nil
	t.errorTimes = nil
}

// countInWindow counts timestamps that are not before the cutoff time.
func countInWindow(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than the retention period. Must be called with mu held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-t.retention)
	prune := func(slice *[]time.Time) {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
	prune(&t.successTimes)
	prune(&t.errorTimes)
}
