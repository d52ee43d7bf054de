// Package dedup tracks which transaction identities are already present in
// the ledger, plus a per-date index used for fee-attachment lookups.
package dedup

import (
	"errors"
	"fmt"

	"github.com/kestrelworks/sift/internal/model"
)

// ErrDuplicate indicates Record was called twice for the same identity key.
// That is a programming error: Record must run exactly once per entry that
// reaches the ledger.
var ErrDuplicate = errors.New("duplicate ledger entry")

// Cache is the set of known transaction identities with a secondary index by
// date. Entries loaded from the existing ledger and entries written this
// session both belong here; the date index must therefore survive restarts,
// which it does because the ledger reload repopulates it.
type Cache struct {
	seen   map[string]struct{}
	byDate map[string][]*model.Entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		seen:   make(map[string]struct{}),
		byDate: make(map[string][]*model.Entry),
	}
}

// Contains reports whether the transaction's identity key is already known.
func (c *Cache) Contains(t model.Transaction) bool {
	_, ok := c.seen[t.Key()]
	return ok
}

// Record adds the entry's identity to the set and indexes it by date.
func (c *Cache) Record(e *model.Entry) error {
	key := e.Key()
	if _, ok := c.seen[key]; ok {
		return fmt.Errorf("%w: %s %s %q", ErrDuplicate, e.Date.Key(), e.Amount.StringFixed(2), e.Description)
	}
	c.seen[key] = struct{}{}
	dateKey := e.Date.Key()
	c.byDate[dateKey] = append(c.byDate[dateKey], e)
	return nil
}

// RelatedOnDate returns the entries recorded for a date, possibly empty, in
// record order.
func (c *Cache) RelatedOnDate(dateKey string) []*model.Entry {
	return c.byDate[dateKey]
}

// Len returns the number of recorded identities.
func (c *Cache) Len() int {
	return len(c.seen)
}
