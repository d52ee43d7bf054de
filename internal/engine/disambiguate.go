package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kestrelworks/sift/internal/model"
	"github.com/kestrelworks/sift/internal/pattern"
	"github.com/kestrelworks/sift/internal/prompt"
)

// categorize resolves the entry's category: automatic on exactly one pattern
// match, interactive on zero or many.
func (e *Engine) categorize(ctx context.Context, entry *model.Entry) error {
	matches := e.registry.Find(entry.IsDebit(), entry.Description)
	switch len(matches) {
	case 0:
		return e.categorizeNew(ctx, entry)
	case 1:
		return e.assignMatch(ctx, entry, matches[0])
	default:
		return e.chooseAmong(ctx, entry, matches)
	}
}

// categorizeNew handles the zero-match path: ask for a category name, then
// either extend the named existing category or create a new one.
func (e *Engine) categorizeNew(ctx context.Context, entry *model.Entry) error {
	debit := entry.IsDebit()
	fmt.Fprintln(e.out, prompt.FormatInfo("No category matches "+describe(entry)))

	for {
		name, err := e.liner.ReadLine(ctx, prompt.Request{
			Kind:       prompt.KindCategory,
			Prompt:     "Category name",
			Candidates: e.registry.Names(debit),
		})
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Fprintln(e.out, prompt.FormatError("A category name is required."))
			continue
		}
		if _, ok := e.registry.Get(debit, name); ok {
			return e.extendExisting(ctx, entry, name)
		}
		return e.createCategory(ctx, entry, name)
	}
}

// extendExisting assigns an existing category by name, offering to learn a
// new pattern only when the category's patterns missed this description.
func (e *Engine) extendExisting(ctx context.Context, entry *model.Entry, name string) error {
	debit := entry.IsDebit()

	if def, ok := e.registry.Get(debit, name); ok && !def.Matches(entry.Description) {
		add, err := prompt.Confirm(ctx, e.liner, e.out,
			fmt.Sprintf("Add a pattern so %q matches this description automatically?", name), true)
		if err != nil {
			return err
		}
		if add {
			pat, learnErr := e.learnPattern(ctx, entry)
			if learnErr != nil {
				return learnErr
			}
			if pat != "" {
				if addErr := e.registry.AddPattern(debit, name, pat); addErr != nil {
					return addErr
				}
				fmt.Fprintln(e.out, prompt.FormatSuccess(fmt.Sprintf("Added pattern %q to %q", pat, name)))
			}
		}
	}

	entry.Category = name
	if def, ok := e.registry.Get(debit, name); ok && def.Reimbursement != "" {
		return e.applyFormula(ctx, entry, name, def.Reimbursement)
	}
	return nil
}

// createCategory registers a brand-new category seeded from this entry,
// optionally with a learned pattern and a reimbursement formula.
func (e *Engine) createCategory(ctx context.Context, entry *model.Entry, name string) error {
	debit := entry.IsDebit()

	pat, err := e.learnPattern(ctx, entry)
	if err != nil {
		return err
	}
	if _, err := e.registry.Create(debit, name, pat); err != nil {
		return err
	}
	fmt.Fprintln(e.out, prompt.FormatSuccess(fmt.Sprintf("Created category %q", name)))
	entry.Category = name

	formulaText, _, accepted, err := e.resolver.Resolve(ctx, "", entry.Amount)
	if err != nil {
		return err
	}
	if accepted {
		entry.Reimbursement = formulaText
		if err := e.registry.SetReimbursement(debit, name, formulaText); err != nil {
			return err
		}
	}
	return nil
}

// learnPattern asks for a pattern and validates it against the entry's own
// description. Blank skips; an invalid or non-matching pattern re-prompts.
func (e *Engine) learnPattern(ctx context.Context, entry *model.Entry) (string, error) {
	suggestion := pattern.Suggest(entry.Description)
	for {
		line, err := e.liner.ReadLine(ctx, prompt.Request{
			Kind:       prompt.KindPattern,
			Prompt:     fmt.Sprintf("Pattern (blank to skip, e.g. %s)", suggestion),
			Candidates: []string{suggestion},
		})
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", nil
		}
		if err := pattern.Validate(line, entry.Description); err != nil {
			fmt.Fprintln(e.out, prompt.FormatError(err.Error()))
			continue
		}
		return line, nil
	}
}

// assignMatch handles the one-match path: assign without prompting, then
// re-confirm the saved formula against this transaction's amount if the
// category carries one.
func (e *Engine) assignMatch(ctx context.Context, entry *model.Entry, name string) error {
	entry.Category = name
	fmt.Fprintln(e.out, prompt.FormatSuccess(fmt.Sprintf("%s categorized as %q", describe(entry), name)))

	if def, ok := e.registry.Get(entry.IsDebit(), name); ok && def.Reimbursement != "" {
		return e.applyFormula(ctx, entry, name, def.Reimbursement)
	}
	return nil
}

// chooseAmong handles the many-match path: pick one of the listed
// candidates, or blank to fall into the new-category path. A selected
// candidate is assigned as-is with no pattern learning.
func (e *Engine) chooseAmong(ctx context.Context, entry *model.Entry, matches []string) error {
	fmt.Fprintln(e.out, prompt.FormatInfo(
		fmt.Sprintf("%s matches: %s", describe(entry), strings.Join(matches, ", "))))

	for {
		line, err := e.liner.ReadLine(ctx, prompt.Request{
			Kind:       prompt.KindCategory,
			Prompt:     "Choose a category (blank for a new one)",
			Candidates: matches,
		})
		if err != nil {
			return err
		}
		if line == "" {
			return e.categorizeNew(ctx, entry)
		}
		if slices.Contains(matches, line) {
			return e.assignMatch(ctx, entry, line)
		}
		fmt.Fprintln(e.out, prompt.FormatError(fmt.Sprintf("%q is not one of the matching categories.", line)))
	}
}

// applyFormula runs the resolver's confirm loop seeded with the category's
// saved formula. The accepted formula text is persisted on the entry; when
// it differs from the saved one, the user may save it back to the category.
func (e *Engine) applyFormula(ctx context.Context, entry *model.Entry, category, saved string) error {
	formulaText, _, accepted, err := e.resolver.Resolve(ctx, saved, entry.Amount)
	if err != nil {
		return err
	}
	if !accepted {
		return nil
	}

	entry.Reimbursement = formulaText
	if formulaText != saved {
		save, err := prompt.Confirm(ctx, e.liner, e.out,
			fmt.Sprintf("Save formula %q to %q for future transactions?", formulaText, category), true)
		if err != nil {
			return err
		}
		if save {
			return e.registry.SetReimbursement(entry.IsDebit(), category, formulaText)
		}
	}
	return nil
}
