// Package model defines the core data structures for the sift application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical calendar-day representation used everywhere a
// date is serialized: ledger rows, identity keys, and the date index.
const DateFormat = "2006-01-02"

// DateOnly is a calendar day with no time-of-day component.
type DateOnly struct {
	time.Time
}

// NewDate creates a DateOnly for the given year, month, and day.
func NewDate(year int, month time.Month, day int) DateOnly {
	return DateOnly{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) DateOnly {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Key returns the day in canonical form, usable as a comparable map key.
func (d DateOnly) Key() string {
	return d.Format(DateFormat)
}

func (d DateOnly) String() string {
	return d.Key()
}

// MarshalCSV implements gocsv marshaling.
func (d DateOnly) MarshalCSV() (string, error) {
	return d.Key(), nil
}

// UnmarshalCSV implements gocsv unmarshaling.
func (d *DateOnly) UnmarshalCSV(value string) error {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value, err)
	}
	d.Time = t
	return nil
}

// Transaction is a single statement row as parsed from a bank export.
// Immutable once parsed.
type Transaction struct {
	Date        DateOnly
	Amount      decimal.Decimal
	Description string
}

// IsDebit reports whether the transaction is an expense. Negative amounts are
// debits; zero and positive amounts are credits.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// AbsAmount returns the unsigned amount, used for reimbursement formulas.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// Key returns the transaction's dedup identity: a digest over the canonical
// (date, amount, description) tuple. The amount is fixed to two decimal
// places so ledger-loaded and freshly-parsed rows produce identical keys.
func (t Transaction) Key() string {
	data := fmt.Sprintf("%s:%s:%s", t.Date.Key(), t.Amount.StringFixed(2), t.Description)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Origin records where an Entry came from.
type Origin int

const (
	// OriginStatement marks an entry freshly parsed from a statement export.
	OriginStatement Origin = iota
	// OriginLedger marks an entry reloaded from the persisted ledger.
	OriginLedger
)

// Entry is a transaction with categorization metadata attached. Entries are
// mutated in place while categorization proceeds and become immutable once
// written to the ledger.
type Entry struct {
	Transaction
	Category      string
	Reimbursement string // formula text, empty when unreimbursed
	Origin        Origin
}

// IsFeeMarker reports whether the entry's description exactly equals the
// recognized fee marker text.
func (e *Entry) IsFeeMarker(marker string) bool {
	return marker != "" && e.Description == marker
}
