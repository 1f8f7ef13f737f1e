// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package pcalc

import (
	"io"
	"log/slog"

	"nickandperla.net/pcalc/internal/eval"
	"nickandperla.net/pcalc/internal/expr"
	"nickandperla.net/pcalc/internal/format"
	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/parser"
	"nickandperla.net/pcalc/internal/rewrite"
	"nickandperla.net/pcalc/internal/store"
)

// Reply texts at the process boundary.
const (
	AnswerPrefix = "Your Answer: "
	Unchanged    = "Sorry("
)

// Runtime is the calculator runtime.
type Runtime struct {
	evaluator   *eval.Evaluator
	rewriter    *rewrite.Rewriter
	engine      Engine
	table       optable.Table
	customTable bool
	store       store.Store
	cache       bool
	trace       rewrite.TraceFunc
	logger      *slog.Logger
	err         error // First configuration error, if any
}

// New creates a new calculator runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		engine: EngineDescent,
		table:  optable.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.evaluator = eval.New(
		eval.WithTable(r.table),
		eval.WithLogger(r.logger),
	)
	r.rewriter = rewrite.New(
		rewrite.WithTable(r.table),
		rewrite.WithLogger(r.logger),
		rewrite.WithTrace(r.trace),
	)

	return r
}

// Err returns the first error raised while applying options, such as a
// store that could not be opened. The runtime still works without it.
func (r *Runtime) Err() error {
	return r.err
}

// Engine returns the configured evaluation engine.
func (r *Runtime) Engine() Engine {
	return r.engine
}

// Eval evaluates an expression and returns its formatted answer.
func (r *Runtime) Eval(input string) (string, error) {
	key, keyErr := store.Key(input)
	digest := store.Digest(key)

	if keyErr == nil && key != "" && r.cacheable() {
		if answer, ok := r.cached(key, digest); ok {
			return answer, nil
		}
	}

	v, err := r.evaluate(input)
	if err != nil {
		r.logger.Debug("evaluation failed", "input", input, "engine", r.engine, "err", err)
		return "", err
	}
	answer := format.Answer(v)

	if r.store != nil && keyErr == nil {
		err := r.store.Record(store.Entry{
			Digest: digest,
			Input:  input,
			Answer: answer,
			Engine: r.engine.String(),
		})
		if err != nil {
			r.logger.Warn("recording evaluation failed", "err", err)
		}
	}

	return answer, nil
}

// Reply evaluates an expression and returns the text shown to the user.
func (r *Runtime) Reply(input string) (string, error) {
	answer, err := r.Eval(input)
	if err != nil {
		return "", err
	}
	return Reply(input, answer), nil
}

// Reply renders an answer for display. An answer identical to its input
// means nothing was computed.
func Reply(input, answer string) string {
	if answer == input {
		return Unchanged
	}
	return AnswerPrefix + answer
}

// Tree parses an expression without evaluating it.
func (r *Runtime) Tree(input string) (expr.Expr, error) {
	return parser.Parse(input)
}

// History returns up to limit recorded evaluations, newest first. Without a
// store it returns nothing.
func (r *Runtime) History(limit int) ([]Entry, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.History(limit)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

func (r *Runtime) evaluate(input string) (float64, error) {
	switch r.engine {
	case EngineRewrite:
		return r.rewriter.Eval(input)
	default:
		return r.evaluator.Eval(input)
	}
}

// cacheable reports whether stored answers may stand in for evaluation.
// Custom tables change results and traces need a live evaluation.
func (r *Runtime) cacheable() bool {
	return r.cache && r.store != nil && !r.customTable && r.trace == nil
}

// cached returns a stored answer for key. A hit whose input does not share
// the key is a digest collision and is ignored.
func (r *Runtime) cached(key string, digest uint64) (string, bool) {
	hit, err := r.store.Lookup(digest, r.engine.String())
	if err != nil {
		r.logger.Warn("cache lookup failed", "err", err)
		return "", false
	}
	if hit == nil {
		return "", false
	}
	if hitKey, err := store.Key(hit.Input); err != nil || hitKey != key {
		r.logger.Debug("cache collision", "input", key, "stored", hit.Input, "id", hit.ID)
		return "", false
	}
	r.logger.Debug("cache hit", "input", key, "answer", hit.Answer, "id", hit.ID)
	return hit.Answer, true
}
