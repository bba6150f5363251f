// Package lifecycle holds process-level state shared between the shutdown sequence and /health.
package lifecycle

import (
	"sync/atomic"
	"time"
)

// State records whether the process is draining. The zero value is a running process.
type State struct {
	startedAt    time.Time
	shuttingDown atomic.Bool
	shutdownAt   atomic.Int64
}

// NewState returns a State whose uptime is measured from now.
func NewState() *State {
	return &State{startedAt: time.Now()}
}

// BeginShutdown marks the process as draining. Call when SIGTERM/SIGINT is received.
// Health reports shutting-down with 503 from then on. Repeated calls keep the first timestamp.
func (s *State) BeginShutdown() {
	if s.shuttingDown.CompareAndSwap(false, true) {
		s.shutdownAt.Store(time.Now().UnixNano())
	}
}

// ShuttingDown returns true if the process is draining and should not receive new traffic.
func (s *State) ShuttingDown() bool {
	return s.shuttingDown.Load()
}

// ShutdownStarted returns when BeginShutdown was first called, or the zero time.
func (s *State) ShutdownStarted() time.Time {
	ns := s.shutdownAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Uptime returns the time since NewState. Zero for a zero-value State.
func (s *State) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
