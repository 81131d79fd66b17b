package server

import "sync/atomic"

// Stats tracks simple connection and request counters for a running
// server, read concurrently with the session tasks that update them.
type Stats struct {
	activeSessions  int64
	totalSessions   int64
	requestsHandled int64
	requestErrors   int64
}

// NewStats creates a zeroed Stats.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) sessionStarted() {
	atomic.AddInt64(&s.activeSessions, 1)
	atomic.AddInt64(&s.totalSessions, 1)
}

func (s *Stats) sessionEnded() {
	atomic.AddInt64(&s.activeSessions, -1)
}

func (s *Stats) requestHandled(ok bool) {
	atomic.AddInt64(&s.requestsHandled, 1)
	if !ok {
		atomic.AddInt64(&s.requestErrors, 1)
	}
}

// ActiveSessions returns the number of currently connected sessions.
func (s *Stats) ActiveSessions() int64 { return atomic.LoadInt64(&s.activeSessions) }

// TotalSessions returns the number of sessions accepted since start.
func (s *Stats) TotalSessions() int64 { return atomic.LoadInt64(&s.totalSessions) }

// RequestsHandled returns the number of requests processed for a known unit
// id: those dispatched to a handler plus those whose PDU failed to parse.
func (s *Stats) RequestsHandled() int64 { return atomic.LoadInt64(&s.requestsHandled) }

// RequestErrors returns the number of those requests that ended in an
// exception response or a malformed PDU.
func (s *Stats) RequestErrors() int64 { return atomic.LoadInt64(&s.requestErrors) }
