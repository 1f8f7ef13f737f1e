// Package optable maps operator runes to their priority class and binary
// function. A Table is immutable once built and is shared by reference
// between the parser, the evaluators and the rewrite engine.
package optable

import (
	"math"

	"nickandperla.net/pcalc/internal/token"
)

// Priority is an operator precedence class. Lower ordinals bind tighter.
type Priority int

const (
	High       Priority = iota // parentheses
	Medium                     // * / % ^
	Low                        // + -
	Unresolved                 // sentinel: nothing of this or a lower class remains
)

// String returns the string representation of a Priority.
func (p Priority) String() string {
	switch p {
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	case Unresolved:
		return "UNRESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Next returns the next lower priority class. Unresolved is terminal.
func (p Priority) Next() Priority {
	if p >= Unresolved {
		return Unresolved
	}
	return p + 1
}

// Func is a binary arithmetic operation applied as (older, newer).
type Func func(a, b float64) float64

// Entry describes one operator.
type Entry struct {
	Priority Priority
	Apply    Func // nil for structural entries (parentheses)
}

// Structural returns true if the entry has no arithmetic function.
func (e Entry) Structural() bool { return e.Apply == nil }

// Table is an immutable operator table.
type Table struct {
	entries map[rune]Entry
}

var defaultTable = Table{entries: map[rune]Entry{
	token.RunePlus:    {Priority: Low, Apply: func(a, b float64) float64 { return a + b }},
	token.RuneMinus:   {Priority: Low, Apply: func(a, b float64) float64 { return a - b }},
	token.RuneStar:    {Priority: Medium, Apply: func(a, b float64) float64 { return a * b }},
	token.RuneSlash:   {Priority: Medium, Apply: func(a, b float64) float64 { return a / b }},
	token.RunePercent: {Priority: Medium, Apply: math.Mod},
	token.RuneCaret:   {Priority: Medium, Apply: math.Pow},
	token.RuneLParen:  {Priority: High},
	token.RuneRParen:  {Priority: High},
}}

// Default returns the standard calculator table.
func Default() Table {
	return defaultTable
}

// Lookup returns the entry for an operator rune.
func (t Table) Lookup(r rune) (Entry, bool) {
	e, ok := t.entries[r]
	return e, ok
}

// LookupToken is Lookup keyed by token type.
func (t Table) LookupToken(tok token.Token) (Entry, bool) {
	return t.Lookup(tok.Rune())
}

// Without returns a copy of the table with the given operators removed.
// Operators missing from a table fail at evaluation time.
func (t Table) Without(runes ...rune) Table {
	entries := make(map[rune]Entry, len(t.entries))
	for r, e := range t.entries {
		entries[r] = e
	}
	for _, r := range runes {
		delete(entries, r)
	}
	return Table{entries: entries}
}

// Class returns the grammar class of a token as defined by the default
// table, independent of which operators a configured table implements.
// Non-operator tokens are Unresolved.
func Class(tok token.Token) Priority {
	if e, ok := defaultTable.LookupToken(tok); ok {
		return e.Priority
	}
	return Unresolved
}
