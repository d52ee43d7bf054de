package formula

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kestrelworks/sift/internal/prompt"
)

// Resolver runs the interactive confirm loop for reimbursement formulas: it
// evaluates a formula against a transaction's absolute amount, shows the
// computed value, and keeps asking for a new formula until the user accepts
// one or aborts with a blank answer.
type Resolver struct {
	eval  Evaluator
	liner prompt.Liner
	out   io.Writer
}

// NewResolver creates a resolver.
func NewResolver(eval Evaluator, liner prompt.Liner, out io.Writer) *Resolver {
	return &Resolver{eval: eval, liner: liner, out: out}
}

// Resolve runs the confirm loop starting from formulaText (empty to prompt
// immediately). It returns the accepted formula text and its computed value;
// accepted is false when the user aborted, leaving the transaction
// unreimbursed.
func (r *Resolver) Resolve(ctx context.Context, formulaText string, amount decimal.Decimal) (formula string, value decimal.Decimal, accepted bool, err error) {
	abs := amount.Abs()
	absFloat, _ := abs.Float64()
	src := strings.TrimSpace(formulaText)

	for {
		if src == "" {
			line, readErr := r.liner.ReadLine(ctx, prompt.Request{
				Kind:   prompt.KindFormula,
				Prompt: fmt.Sprintf("Reimbursement formula for %s (blank for none)", abs.StringFixed(2)),
			})
			if readErr != nil {
				return "", decimal.Zero, false, readErr
			}
			src = strings.TrimSpace(line)
			if src == "" {
				return "", decimal.Zero, false, nil
			}
		}

		program, compileErr := r.eval.Compile(src)
		if compileErr != nil {
			fmt.Fprintln(r.out, prompt.FormatError(compileErr.Error()))
			src = ""
			continue
		}

		result, evalErr := program.Eval(absFloat)
		if evalErr != nil {
			fmt.Fprintln(r.out, prompt.FormatError(evalErr.Error()))
			src = ""
			continue
		}
		computed := decimal.NewFromFloat(result).Round(2)

		ok, confirmErr := prompt.Confirm(ctx, r.liner, r.out,
			fmt.Sprintf("Reimburse %s of %s using %q?", computed.StringFixed(2), abs.StringFixed(2), src), true)
		if confirmErr != nil {
			return "", decimal.Zero, false, confirmErr
		}
		if ok {
			return src, computed, true, nil
		}
		src = ""
	}
}
