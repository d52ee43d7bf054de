package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/kestrelworks/sift/internal/model"
	"github.com/kestrelworks/sift/internal/prompt"
)

// ErrFeePrecondition indicates a fee-marker transaction reached the withheld
// set in an inconsistent state. That is a programming error; the run aborts
// rather than continuing with bad state.
var ErrFeePrecondition = errors.New("fee transaction in inconsistent state")

// withholdFee parks a fee-marker transaction until its date completes. A fee
// arriving already categorized, or reloaded from the ledger, violates the
// workflow's preconditions.
func (e *Engine) withholdFee(sess *Session, entry *model.Entry) error {
	if entry.Category != "" || entry.Origin == model.OriginLedger {
		return fmt.Errorf("%w: %s", ErrFeePrecondition, describe(entry))
	}
	sess.Withhold(entry)
	return nil
}

// flushFees resolves and commits every fee withheld for a date. The date
// index is complete for that date by the time this runs, so every same-day
// category is available as an attachment candidate.
func (e *Engine) flushFees(ctx context.Context, sess *Session, dateKey string) error {
	for _, fee := range sess.TakeWithheld(dateKey) {
		// Identical fee rows on one date are all withheld before any is
		// recorded; committing the first shields the rest here.
		if e.cache.Contains(fee.Transaction) {
			slog.Debug("Skipping duplicate fee", "date", dateKey, "description", fee.Description)
			continue
		}
		if err := e.resolveFee(ctx, fee); err != nil {
			return err
		}
		if err := e.commit(sess, fee); err != nil {
			return err
		}
	}
	return nil
}

// resolveFee attaches a fee to one of its date's already-recorded
// categories, inheriting it verbatim with no pattern learning. Blank input,
// or a date with no recorded siblings, routes the fee through ordinary
// categorization instead.
func (e *Engine) resolveFee(ctx context.Context, fee *model.Entry) error {
	candidates := e.feeCandidates(fee.Date.Key())
	if len(candidates) == 0 {
		return e.categorize(ctx, fee)
	}

	fmt.Fprintln(e.out, prompt.FormatInfo(fmt.Sprintf(
		"Fee %s; same-day categories: %s", describe(fee), strings.Join(candidates, ", "))))

	for {
		line, err := e.liner.ReadLine(ctx, prompt.Request{
			Kind:       prompt.KindFee,
			Prompt:     "Attach fee to a category (blank to categorize normally)",
			Candidates: candidates,
		})
		if err != nil {
			return err
		}
		if line == "" {
			return e.categorize(ctx, fee)
		}
		if slices.Contains(candidates, line) {
			fee.Category = line
			if def, ok := e.registry.Get(fee.IsDebit(), line); ok && def.Reimbursement != "" {
				return e.applyFormula(ctx, fee, line, def.Reimbursement)
			}
			return nil
		}
		fmt.Fprintln(e.out, prompt.FormatError(fmt.Sprintf("%q is not a same-day category.", line)))
	}
}

// feeCandidates returns the distinct categories recorded for a date, in
// record order. This covers rows committed this session and rows reloaded
// from the ledger, so an interrupted date still offers its categories on the
// next run.
func (e *Engine) feeCandidates(dateKey string) []string {
	var out []string
	for _, rel := range e.cache.RelatedOnDate(dateKey) {
		if rel.Category == "" || slices.Contains(out, rel.Category) {
			continue
		}
		out = append(out, rel.Category)
	}
	return out
}
