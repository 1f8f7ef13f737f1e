// Package pcalc provides the public API for the priority calculator.
package pcalc

import (
	"log/slog"
	"strings"

	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/rewrite"
	"nickandperla.net/pcalc/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// Engine selects how expressions are evaluated.
type Engine int

const (
	// EngineDescent parses once by recursive descent and walks the tree.
	EngineDescent Engine = iota
	// EngineRewrite reduces the token buffer priority class by priority
	// class, splicing each result back in.
	EngineRewrite
)

// String returns the string representation of an Engine.
func (e Engine) String() string {
	switch e {
	case EngineDescent:
		return "descent"
	case EngineRewrite:
		return "rewrite"
	default:
		return "unknown"
	}
}

// ParseEngine parses a string into an Engine.
func ParseEngine(s string) (Engine, bool) {
	switch strings.ToLower(s) {
	case "descent":
		return EngineDescent, true
	case "rewrite":
		return EngineRewrite, true
	default:
		return EngineDescent, false
	}
}

// Table is an immutable operator table.
type Table = optable.Table

// DefaultTable returns the standard operator table.
func DefaultTable() Table {
	return optable.Default()
}

// Step describes one splice made by the rewrite engine.
type Step = rewrite.Step

// Entry is one recorded evaluation.
type Entry = store.Entry

// Store interface for custom stores.
type Store = store.Store

// WithEngine sets the evaluation engine.
func WithEngine(e Engine) Option {
	return func(r *Runtime) {
		r.engine = e
	}
}

// WithTable sets the operator table. Stored answers are not reused while a
// custom table is in effect.
func WithTable(t Table) Option {
	return func(r *Runtime) {
		r.table = t
		r.customTable = true
	}
}

// WithTrace registers a callback for every splice and selects the rewrite
// engine, the only one that produces steps.
func WithTrace(fn func(Step)) Option {
	return func(r *Runtime) {
		r.trace = fn
		r.engine = EngineRewrite
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			if r.err == nil {
				r.err = err
			}
			return
		}
		r.store = s
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithCache reuses stored answers for expressions already evaluated by the
// same engine. It has no effect without a store.
func WithCache(enabled bool) Option {
	return func(r *Runtime) {
		r.cache = enabled
	}
}
