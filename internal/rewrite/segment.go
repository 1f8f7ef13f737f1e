package rewrite

import (
	"fmt"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/token"
)

// Segment folds a flat run of literals and binary operators strictly left
// to right. It has no notion of precedence; callers only hand it segments
// whose operators share one priority class.
func Segment(t optable.Table, cells []Cell) (float64, error) {
	var (
		values []float64
		ops    []token.Token
	)

	for _, c := range cells {
		switch {
		case c.Token == token.NUMBER:
			values = append(values, c.Value)
			if len(values) < 2 {
				continue
			}
			if len(ops) == 0 {
				return 0, fmt.Errorf("%w: adjacent literals in segment", calcerr.ErrMalformedExpression)
			}

			right, left := values[len(values)-1], values[len(values)-2]
			values = values[:len(values)-2]
			op := ops[len(ops)-1]
			ops = ops[:len(ops)-1]

			entry, ok := t.LookupToken(op)
			if !ok || entry.Structural() {
				return 0, fmt.Errorf("%w: %q", calcerr.ErrUnknownOperator, op.Rune())
			}
			values = append(values, entry.Apply(left, right))

		case c.Token.IsBinary():
			ops = append(ops, c.Token)

		default:
			return 0, fmt.Errorf("%w: %s inside a flat segment", calcerr.ErrMalformedExpression, c.Token)
		}
	}

	if len(values) != 1 || len(ops) != 0 {
		return 0, fmt.Errorf("%w: incomplete segment", calcerr.ErrMalformedExpression)
	}
	return values[0], nil
}
