// Package formula compiles and evaluates reimbursement formulas. A formula
// is an arithmetic expression over a single variable holding the
// transaction's absolute amount.
package formula

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Variable is the name bound to the transaction's absolute amount.
const Variable = "amount"

// Program is a compiled formula ready to evaluate against an amount.
type Program interface {
	Eval(amount float64) (float64, error)
}

// Evaluator compiles formula text. Compilation failures propagate to the
// caller; they are never swallowed into a zero result.
type Evaluator interface {
	Compile(src string) (Program, error)
}

// ExprEvaluator implements Evaluator using the expr language.
type ExprEvaluator struct{}

// Compile implements Evaluator.
func (ExprEvaluator) Compile(src string) (Program, error) {
	prog, err := expr.Compile(src,
		expr.Env(map[string]any{Variable: float64(0)}),
		expr.AsFloat64(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid formula %q: %w", src, err)
	}
	return &exprProgram{prog: prog}, nil
}

type exprProgram struct {
	prog *vm.Program
}

func (p *exprProgram) Eval(amount float64) (float64, error) {
	out, err := expr.Run(p.prog, map[string]any{Variable: amount})
	if err != nil {
		return 0, fmt.Errorf("formula evaluation failed: %w", err)
	}
	value, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("formula returned %T, expected a number", out)
	}
	return value, nil
}

// Ensure ExprEvaluator implements the Evaluator interface.
var _ Evaluator = ExprEvaluator{}
