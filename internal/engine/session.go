package engine

import (
	"sort"

	"github.com/kestrelworks/sift/internal/model"
)

// Session is the mutable state of one reconciliation run: how many rows were
// added per sign, which fee transactions are withheld awaiting their date
// flush, and the date currently being processed. It is owned exclusively by
// the engine for the run's duration and handed back to the caller for the
// shutdown summary.
type Session struct {
	DebitsAdded  int
	CreditsAdded int

	withheld map[string][]*model.Entry
	current  string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{withheld: make(map[string][]*model.Entry)}
}

// Current returns the date key currently being processed, empty before the
// first transaction.
func (s *Session) Current() string {
	return s.current
}

// SetCurrent records the date key now being processed.
func (s *Session) SetCurrent(dateKey string) {
	s.current = dateKey
}

// Withhold parks a fee transaction until its date is flushed.
func (s *Session) Withhold(e *model.Entry) {
	key := e.Date.Key()
	s.withheld[key] = append(s.withheld[key], e)
}

// TakeWithheld removes and returns the fees withheld for a date, in the
// order they arrived.
func (s *Session) TakeWithheld(dateKey string) []*model.Entry {
	fees := s.withheld[dateKey]
	delete(s.withheld, dateKey)
	return fees
}

// PendingDates returns the dates with withheld fees, oldest first. Date keys
// are zero-padded, so lexical order is chronological order.
func (s *Session) PendingDates() []string {
	keys := make([]string, 0, len(s.withheld))
	for key := range s.withheld {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count tallies a committed entry against the per-sign totals.
func (s *Session) Count(e *model.Entry) {
	if e.IsDebit() {
		s.DebitsAdded++
	} else {
		s.CreditsAdded++
	}
}

// Added returns the total number of rows this session committed.
func (s *Session) Added() int {
	return s.DebitsAdded + s.CreditsAdded
}
