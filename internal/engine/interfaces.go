package engine

import (
	"github.com/kestrelworks/sift/internal/model"
)

// Appender receives categorized entries bound for the ledger. The engine
// never reads the ledger back; deduplication against existing rows goes
// through the cache, which the caller seeds before a run.
type Appender interface {
	Append(e *model.Entry)
}
