// Package engine implements the categorization and reconciliation core: it
// deduplicates incoming statement rows against the ledger, resolves each new
// transaction to a category through pattern rules and interactive
// disambiguation, defers fee-marker rows until their date completes, and
// drives reimbursement-formula confirmation.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/kestrelworks/sift/internal/dedup"
	"github.com/kestrelworks/sift/internal/formula"
	"github.com/kestrelworks/sift/internal/model"
	"github.com/kestrelworks/sift/internal/prompt"
	"github.com/kestrelworks/sift/internal/registry"
	"github.com/kestrelworks/sift/internal/statement"
)

// Engine orchestrates one reconciliation run.
type Engine struct {
	registry  *registry.Registry
	cache     *dedup.Cache
	ledger    Appender
	liner     prompt.Liner
	resolver  *formula.Resolver
	feeMarker string
	out       io.Writer
}

// New creates an engine. The cache must already contain the identities of
// every row in the existing ledger, or re-runs will re-import duplicates.
func New(reg *registry.Registry, cache *dedup.Cache, ledger Appender, liner prompt.Liner, resolver *formula.Resolver, feeMarker string, out io.Writer) *Engine {
	return &Engine{
		registry:  reg,
		cache:     cache,
		ledger:    ledger,
		liner:     liner,
		resolver:  resolver,
		feeMarker: feeMarker,
		out:       out,
	}
}

// Run parses every statement file and processes the combined batch in
// ascending date order. The returned session is valid even on error so the
// caller can checkpoint partial progress.
func (e *Engine) Run(ctx context.Context, paths []string) (*Session, error) {
	var entries []*model.Entry
	for _, path := range paths {
		parsed, err := statement.Load(path)
		if err != nil {
			return NewSession(), err
		}
		slog.Info("Parsed statement", "path", path, "transactions", len(parsed))
		entries = append(entries, parsed...)
	}

	// Fee flushing depends on date-ascending order across the whole batch,
	// not just within one file.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date.Time)
	})

	return e.Process(ctx, entries)
}

// Process runs the batch through categorization. Entries must be sorted by
// date ascending.
func (e *Engine) Process(ctx context.Context, entries []*model.Entry) (*Session, error) {
	sess := NewSession()
	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(e.out),
		progressbar.OptionSetDescription("Reconciling"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for _, entry := range entries {
		if ctx.Err() != nil {
			return sess, prompt.ErrCancelled
		}

		dateKey := entry.Date.Key()
		if sess.Current() != "" && dateKey != sess.Current() {
			_ = bar.Clear()
			if err := e.flushPending(ctx, sess); err != nil {
				return sess, err
			}
		}
		sess.SetCurrent(dateKey)

		switch {
		case e.cache.Contains(entry.Transaction):
			slog.Debug("Skipping duplicate", "date", dateKey, "description", entry.Description)
		case entry.IsFeeMarker(e.feeMarker):
			if err := e.withholdFee(sess, entry); err != nil {
				return sess, err
			}
		default:
			_ = bar.Clear()
			if err := e.categorize(ctx, entry); err != nil {
				return sess, err
			}
			if err := e.commit(sess, entry); err != nil {
				return sess, err
			}
		}
		_ = bar.Add(1)
	}

	_ = bar.Clear()
	if err := e.flushPending(ctx, sess); err != nil {
		return sess, err
	}
	_ = bar.Finish()

	slog.Info("Reconciliation complete",
		"debits_added", sess.DebitsAdded,
		"credits_added", sess.CreditsAdded)
	return sess, nil
}

// flushPending resolves withheld fees for every completed date, oldest
// first.
func (e *Engine) flushPending(ctx context.Context, sess *Session) error {
	for _, dateKey := range sess.PendingDates() {
		if err := e.flushFees(ctx, sess, dateKey); err != nil {
			return err
		}
	}
	return nil
}

// commit records a categorized entry in the cache and the ledger. The cache
// is updated first so the entry is visible to fee-attachment lookups for its
// date.
func (e *Engine) commit(sess *Session, entry *model.Entry) error {
	if err := e.cache.Record(entry); err != nil {
		return err
	}
	e.ledger.Append(entry)
	sess.Count(entry)
	return nil
}

func describe(e *model.Entry) string {
	return fmt.Sprintf("%s %s %q", e.Date.Key(), e.Amount.StringFixed(2), e.Description)
}
