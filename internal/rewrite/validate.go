package rewrite

import (
	"fmt"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/scanner"
	"nickandperla.net/pcalc/internal/token"
)

// Validate rejects token sequences the rewrite loop cannot reduce: empty
// input, unbalanced parentheses, and operators or literals out of place.
// A valid sequence alternates operand and operator, where an operand is a
// literal or a bracketed valid sequence.
func Validate(items []scanner.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: empty expression", calcerr.ErrMalformedExpression)
	}

	var opens []int
	operand := true
	for _, it := range items {
		switch {
		case operand && it.Token == token.NUMBER:
			operand = false
		case operand && it.Token == token.LPAREN:
			opens = append(opens, it.Pos)
		case !operand && it.Token.IsBinary():
			operand = true
		case !operand && it.Token == token.RPAREN:
			if len(opens) == 0 {
				return fmt.Errorf("%w: unmatched ')' at %d", calcerr.ErrMalformedExpression, it.Pos)
			}
			opens = opens[:len(opens)-1]
		default:
			return fmt.Errorf("%w: unexpected %s at %d", calcerr.ErrMalformedExpression, it, it.Pos)
		}
	}

	if operand {
		return fmt.Errorf("%w: unexpected end of input", calcerr.ErrMalformedExpression)
	}
	if len(opens) > 0 {
		return fmt.Errorf("%w: unmatched '(' at %d", calcerr.ErrMalformedExpression, opens[len(opens)-1])
	}
	return nil
}
