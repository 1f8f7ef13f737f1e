// Package store provides persistence for evaluated expressions.
package store

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"nickandperla.net/pcalc/internal/scanner"
	"nickandperla.net/pcalc/internal/token"
)

// Entry is one recorded evaluation.
type Entry struct {
	ID     int64
	Digest uint64
	Input  string
	Answer string
	Engine string
	Ts     string
}

// Store is the interface for evaluation history.
type Store interface {
	// Record appends an evaluation. ID and Ts are assigned by the store.
	Record(e Entry) error
	// Lookup returns the newest entry for digest evaluated by engine.
	// Returns nil if not found.
	Lookup(digest uint64, engine string) (*Entry, error)
	// History returns up to limit entries, newest first. limit <= 0 means all.
	History(limit int) ([]Entry, error)
	// Close releases resources.
	Close() error
}

// Key returns the canonical form of an expression: its scanned tokens
// separated by single spaces. Input that does not scan has no key.
// Whitespace only matters where it separates tokens, so "1 + 2" and "1+2"
// share a key while "1 2" and "12" do not.
func Key(input string) (string, error) {
	items, err := scanner.Tokenize(input)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(items))
	for i, it := range items {
		if it.Token == token.NUMBER {
			parts[i] = it.Value
		} else {
			parts[i] = string(it.Token.Rune())
		}
	}
	return strings.Join(parts, " "), nil
}

// Digest hashes a key returned by Key.
func Digest(key string) uint64 {
	return xxhash.Sum64String(key)
}
