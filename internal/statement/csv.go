package statement

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/kestrelworks/sift/internal/model"
)

// csvRow is one row of a CSV statement export.
type csvRow struct {
	Date        model.DateOnly  `csv:"date"`
	Amount      decimal.Decimal `csv:"amount"`
	Description string          `csv:"description"`
}

// CSVParser parses CSV statement exports with date, amount, and description
// columns.
type CSVParser struct{}

// Parse implements Parser.
func (p *CSVParser) Parse(path string) ([]*model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close statement file", "error", closeErr)
		}
	}()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse statement %s: %w", path, err)
	}

	entries := make([]*model.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, &model.Entry{
			Transaction: model.Transaction{
				Date:        r.Date,
				Amount:      r.Amount,
				Description: r.Description,
			},
			Origin: model.OriginStatement,
		})
	}

	slog.Info("Parsed CSV statement", "path", path, "transactions", len(entries))
	return entries, nil
}
