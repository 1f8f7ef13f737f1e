// Package parser builds an expression tree by recursive descent. The
// grammar encodes the calculator's two arithmetic priority classes:
//
//	expression = term { ("+" | "-") term }
//	term       = factor { ("*" | "/" | "%" | "^") factor }
//	factor     = NUMBER | "(" expression ")"
//
// Both loops fold left to right, so "^" associates like "*".
package parser

import (
	"fmt"
	"io"
	"strconv"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/expr"
	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/scanner"
	"nickandperla.net/pcalc/internal/token"
)

// Parser consumes tokens from a scanner.
type Parser struct {
	sc *scanner.Scanner
}

// New creates a parser reading from r.
func New(r io.Reader) *Parser {
	return &Parser{sc: scanner.New(r)}
}

// Parse parses a complete expression string.
func Parse(input string) (expr.Expr, error) {
	return (&Parser{sc: scanner.NewFromString(input)}).Parse()
}

// Parse parses one expression and requires the input to end after it.
func (p *Parser) Parse() (expr.Expr, error) {
	item, err := p.sc.Peek()
	if err != nil {
		return nil, err
	}
	if item.Token == token.EOF {
		return nil, fmt.Errorf("%w: empty expression", calcerr.ErrMalformedExpression)
	}

	e, err := p.parseLevel(optable.Low)
	if err != nil {
		return nil, err
	}

	item, err = p.sc.Next()
	if err != nil {
		return nil, err
	}
	if item.Token != token.EOF {
		return nil, unexpected(item)
	}
	return e, nil
}

// parseLevel parses a left-to-right run of operators of class level whose
// operands are parsed at the next tighter class.
func (p *Parser) parseLevel(level optable.Priority) (expr.Expr, error) {
	if level == optable.High {
		return p.parseFactor()
	}

	left, err := p.parseLevel(level - 1)
	if err != nil {
		return nil, err
	}

	for {
		item, err := p.sc.Peek()
		if err != nil {
			return nil, err
		}
		if !item.Token.IsBinary() || optable.Class(item.Token) != level {
			return left, nil
		}
		p.sc.Next()

		right, err := p.parseLevel(level - 1)
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(item.Token, left, right)
	}
}

func (p *Parser) parseFactor() (expr.Expr, error) {
	item, err := p.sc.Next()
	if err != nil {
		return nil, err
	}

	switch item.Token {
	case token.NUMBER:
		v, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad literal %q: %v", calcerr.ErrMalformedExpression, item.Value, err)
		}
		return expr.Number{Value: v, Text: item.Value}, nil

	case token.LPAREN:
		inner, err := p.parseLevel(optable.Low)
		if err != nil {
			return nil, err
		}
		closing, err := p.sc.Next()
		if err != nil {
			return nil, err
		}
		if closing.Token != token.RPAREN {
			if closing.Token == token.EOF {
				return nil, fmt.Errorf("%w: missing closing parenthesis for %d", calcerr.ErrMalformedExpression, item.Pos)
			}
			return nil, unexpected(closing)
		}
		return expr.Group{Inner: inner}, nil
	}

	return nil, unexpected(item)
}

func unexpected(item *scanner.Item) error {
	if item.Token == token.EOF {
		return fmt.Errorf("%w: unexpected end of input", calcerr.ErrMalformedExpression)
	}
	return fmt.Errorf("%w: unexpected %s at %d", calcerr.ErrMalformedExpression, item, item.Pos)
}
