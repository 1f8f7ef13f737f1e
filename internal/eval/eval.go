// Package eval evaluates expression trees against an operator table.
package eval

import (
	"fmt"
	"io"
	"log/slog"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/expr"
	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/parser"
)

// Evaluator interprets expression trees.
type Evaluator struct {
	table  optable.Table
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTable sets the operator table.
func WithTable(t optable.Table) Option {
	return func(e *Evaluator) { e.table = t }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		table:  optable.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval parses and evaluates an expression string.
func (e *Evaluator) Eval(input string) (float64, error) {
	tree, err := parser.Parse(input)
	if err != nil {
		return 0, err
	}
	return e.EvalExpr(tree)
}

// EvalExpr evaluates a parsed tree.
func (e *Evaluator) EvalExpr(x expr.Expr) (float64, error) {
	switch n := x.(type) {
	case expr.Number:
		return n.Value, nil

	case expr.Group:
		return e.EvalExpr(n.Inner)

	case expr.Binary:
		left, err := e.EvalExpr(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := e.EvalExpr(n.Right)
		if err != nil {
			return 0, err
		}
		entry, ok := e.table.LookupToken(n.Op)
		if !ok || entry.Structural() {
			return 0, fmt.Errorf("%w: %q", calcerr.ErrUnknownOperator, n.Op.Rune())
		}
		v := entry.Apply(left, right)
		e.logger.Debug("reduce", "op", string(n.Op.Rune()), "left", left, "right", right, "result", v)
		return v, nil

	case nil:
		return 0, fmt.Errorf("%w: empty expression", calcerr.ErrMalformedExpression)
	}
	return 0, fmt.Errorf("%w: unsupported node %T", calcerr.ErrMalformedExpression, x)
}
