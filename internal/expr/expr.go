// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the arithmetic expression tree.
package expr

import (
	"strings"

	"nickandperla.net/pcalc/internal/token"
)

// Expr is the interface all expression types implement.
type Expr interface {
	// String returns a fully bracketed rendering of the expression.
	String() string
	// Depth returns the height of the tree rooted at this expression.
	Depth() int
}

// Number is a numeric literal.
type Number struct {
	Value float64
	Text  string // Source spelling, including any sign
}

func (n Number) String() string { return n.Text }
func (n Number) Depth() int     { return 1 }

// Binary applies an operator to two operands.
type Binary struct {
	Op    token.Token
	Left  Expr
	Right Expr
}

func (b Binary) String() string {
	var sb strings.Builder
	sb.WriteRune(token.RuneLParen)
	sb.WriteString(b.Left.String())
	sb.WriteString(" ")
	sb.WriteRune(b.Op.Rune())
	sb.WriteString(" ")
	sb.WriteString(b.Right.String())
	sb.WriteRune(token.RuneRParen)
	return sb.String()
}

func (b Binary) Depth() int {
	return 1 + max(b.Left.Depth(), b.Right.Depth())
}

// Group is a parenthesized subexpression from the source.
type Group struct {
	Inner Expr
}

func (g Group) String() string {
	// Binary already brackets itself.
	if _, ok := g.Inner.(Binary); ok {
		return g.Inner.String()
	}
	return string(token.RuneLParen) + g.Inner.String() + string(token.RuneRParen)
}

func (g Group) Depth() int { return 1 + g.Inner.Depth() }

// NewBinary folds the next operand into the left-hand side.
func NewBinary(op token.Token, left, right Expr) Expr {
	return Binary{Op: op, Left: left, Right: right}
}
