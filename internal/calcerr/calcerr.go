// Package calcerr holds the error kinds shared by the scanner, parser and
// both evaluation engines.
package calcerr

import "errors"

var (
	// ErrUnknownOperator is returned when an operator does not resolve in the
	// operator table the evaluator was configured with.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrMalformedExpression covers empty input, invalid characters,
	// unbalanced parentheses and operators in an invalid position.
	ErrMalformedExpression = errors.New("malformed expression")
)
