// Package ledger persists categorized transactions to a CSV file. The file
// has two sections: all debit rows first, then all credit rows, each keeping
// the order in which they were recorded.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/kestrelworks/sift/internal/model"
)

// row is the serialized form of one ledger entry.
type row struct {
	Date          model.DateOnly  `csv:"date"`
	Amount        decimal.Decimal `csv:"amount"`
	Description   string          `csv:"description"`
	Category      string          `csv:"category"`
	Reimbursement string          `csv:"reimbursement"`
}

// Store holds the in-memory ledger for one run.
type Store struct {
	path    string
	entries []*model.Entry
	added   int
}

// Open loads the ledger at path. An absent file is a fresh ledger, not an
// error; any other read failure is fatal.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Ledger file not found, starting fresh", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close ledger file", "error", closeErr)
		}
	}()

	var rows []*row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}

	s.entries = make([]*model.Entry, 0, len(rows))
	for _, r := range rows {
		s.entries = append(s.entries, &model.Entry{
			Transaction: model.Transaction{
				Date:        r.Date,
				Amount:      r.Amount,
				Description: r.Description,
			},
			Category:      r.Category,
			Reimbursement: r.Reimbursement,
			Origin:        model.OriginLedger,
		})
	}

	slog.Info("Loaded ledger", "path", path, "rows", len(s.entries))
	return s, nil
}

// Entries returns every entry currently in the ledger, loaded and appended.
func (s *Store) Entries() []*model.Entry {
	return s.entries
}

// Append adds a categorized entry to the in-memory ledger.
func (s *Store) Append(e *model.Entry) {
	s.entries = append(s.entries, e)
	s.added++
}

// Added reports how many rows this session appended.
func (s *Store) Added() int {
	return s.added
}

// Save writes the full ledger back to disk, debits first, then credits.
func (s *Store) Save() error {
	rows := make([]*row, 0, len(s.entries))
	for _, e := range s.entries {
		if e.IsDebit() {
			rows = append(rows, entryToRow(e))
		}
	}
	for _, e := range s.entries {
		if !e.IsDebit() {
			rows = append(rows, entryToRow(e))
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create ledger %s: %w", s.path, err)
	}

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write ledger %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close ledger %s: %w", s.path, err)
	}

	slog.Info("Saved ledger", "path", s.path, "rows", len(rows), "added", s.added)
	return nil
}

func entryToRow(e *model.Entry) *row {
	return &row{
		Date:          e.Date,
		Amount:        e.Amount,
		Description:   e.Description,
		Category:      e.Category,
		Reimbursement: e.Reimbursement,
	}
}
