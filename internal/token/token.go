// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calculator token types and operator rune constants.
package token

// Token represents a calculator token type.
type Token int

const (
	EOF Token = iota
	NUMBER

	// Operators
	PLUS    // + addition
	MINUS   // - subtraction
	STAR    // * multiplication
	SLASH   // / division
	PERCENT // % floating remainder
	CARET   // ^ exponentiation

	// Structure
	LPAREN // (
	RPAREN // )
)

// Runes for each operator.
const (
	RunePlus    = '+'
	RuneMinus   = '-'
	RuneStar    = '*'
	RuneSlash   = '/'
	RunePercent = '%'
	RuneCaret   = '^'
	RuneLParen  = '('
	RuneRParen  = ')'
	RuneDot     = '.'
)

// IsOperator returns true if the rune is an operator or a parenthesis.
func IsOperator(r rune) bool {
	switch r {
	case RunePlus, RuneMinus, RuneStar, RuneSlash,
		RunePercent, RuneCaret, RuneLParen, RuneRParen:
		return true
	}
	return false
}

// IsSign returns true if the rune may prefix a numeric literal.
func IsSign(r rune) bool {
	return r == RunePlus || r == RuneMinus
}

// IsDigit returns true for the ASCII digits a literal is made of.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// TokenFromRune returns the token type for an operator rune.
func TokenFromRune(r rune) Token {
	switch r {
	case RunePlus:
		return PLUS
	case RuneMinus:
		return MINUS
	case RuneStar:
		return STAR
	case RuneSlash:
		return SLASH
	case RunePercent:
		return PERCENT
	case RuneCaret:
		return CARET
	case RuneLParen:
		return LPAREN
	case RuneRParen:
		return RPAREN
	}
	return EOF
}

// Rune returns the source rune of an operator token, or 0 for EOF and NUMBER.
func (t Token) Rune() rune {
	switch t {
	case PLUS:
		return RunePlus
	case MINUS:
		return RuneMinus
	case STAR:
		return RuneStar
	case SLASH:
		return RuneSlash
	case PERCENT:
		return RunePercent
	case CARET:
		return RuneCaret
	case LPAREN:
		return RuneLParen
	case RPAREN:
		return RuneRParen
	}
	return 0
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case SLASH:
		return "SLASH"
	case PERCENT:
		return "PERCENT"
	case CARET:
		return "CARET"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	}
	return "UNKNOWN"
}

// IsBinary returns true if the token is a binary arithmetic operator.
func (t Token) IsBinary() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH, PERCENT, CARET:
		return true
	}
	return false
}
