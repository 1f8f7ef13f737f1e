// Package rewrite evaluates an expression by repeatedly reducing its
// highest-priority unresolved part to a literal and splicing that literal
// back into the expression buffer, until one literal remains.
//
// Parentheses are resolved as soon as their closing bracket is met. Outside
// brackets the scanner sweeps one priority class at a time, Medium before
// Low, restarting from the beginning after every splice.
package rewrite

import (
	"fmt"
	"io"
	"log/slog"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/scanner"
	"nickandperla.net/pcalc/internal/token"
)

// Step describes one splice.
type Step struct {
	Level  optable.Priority
	Before string
	After  string
}

// TraceFunc receives every splice in order.
type TraceFunc func(Step)

// Rewriter evaluates expressions by in-buffer reduction.
type Rewriter struct {
	table  optable.Table
	logger *slog.Logger
	trace  TraceFunc
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithTable sets the operator table.
func WithTable(t optable.Table) Option {
	return func(rw *Rewriter) { rw.table = t }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(rw *Rewriter) {
		if l != nil {
			rw.logger = l
		}
	}
}

// WithTrace sets the splice callback.
func WithTrace(fn TraceFunc) Option {
	return func(rw *Rewriter) { rw.trace = fn }
}

// New creates a Rewriter with the given options.
func New(opts ...Option) *Rewriter {
	rw := &Rewriter{
		table:  optable.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Eval scans, validates and reduces an expression string.
func (rw *Rewriter) Eval(input string) (float64, error) {
	items, err := scanner.Tokenize(input)
	if err != nil {
		return 0, err
	}
	if err := Validate(items); err != nil {
		return 0, err
	}
	buf, err := NewBuffer(items)
	if err != nil {
		return 0, err
	}
	return rw.Run(buf)
}

// cursor is the transient scan state. It is reset after every splice
// because splices invalidate positions.
type cursor struct {
	pos     int
	start   int  // where the candidate segment begins
	bracket bool // inside an unresolved bracket
	run     bool // a run of the target class is open
}

func (c *cursor) reset() { *c = cursor{} }

// Run reduces a valid buffer in place and returns the final literal.
func (rw *Rewriter) Run(buf *Buffer) (float64, error) {
	level := optable.Medium
	var cur cursor

	for {
		if cur.pos >= buf.Len() {
			if cur.run {
				if err := rw.reduce(buf, level, cur.start, cur.pos); err != nil {
					return 0, err
				}
			}
			if !buf.Has(level) && !buf.Has(optable.High) {
				level = level.Next()
			}
			if level == optable.Unresolved {
				break
			}
			cur.reset()
			continue
		}

		c := buf.At(cur.pos)
		switch {
		case c.Token == token.LPAREN:
			cur.start = cur.pos
			cur.bracket = true
			cur.run = false

		case c.Token == token.RPAREN:
			// Validation guarantees the last '(' seen matches this one.
			if err := rw.resolveBracket(buf, cur.start, cur.pos); err != nil {
				return 0, err
			}
			cur.reset()
			continue

		case cur.bracket || c.Token == token.NUMBER:

		case c.Class() == level:
			cur.run = true

		case cur.run:
			// A different class ends the open run.
			if err := rw.reduce(buf, level, cur.start, cur.pos); err != nil {
				return 0, err
			}
			cur.reset()
			continue

		default:
			cur.start = cur.pos + 1
		}
		cur.pos++
	}

	v, ok := buf.Literal()
	if !ok {
		return 0, fmt.Errorf("%w: %q did not reduce to a literal", calcerr.ErrMalformedExpression, buf.String())
	}
	return v, nil
}

// resolveBracket reduces the flat content of the innermost bracket pair at
// [open, close] class by class, then replaces the pair with its value.
func (rw *Rewriter) resolveBracket(buf *Buffer, open, close int) error {
	for level := optable.Medium; level < optable.Unresolved; level++ {
		var err error
		close, err = rw.sweep(buf, level, open+1, close)
		if err != nil {
			return err
		}
	}
	if close != open+2 {
		return fmt.Errorf("%w: bracket at %d did not reduce", calcerr.ErrMalformedExpression, open)
	}

	before := buf.String()
	v := buf.At(open + 1).Value
	buf.Splice(open, close+1, v)
	rw.record(optable.High, before, buf)
	return nil
}

// sweep reduces every maximal run of class level within the flat range
// [lo, hi) and returns the new end of the range.
func (rw *Rewriter) sweep(buf *Buffer, level optable.Priority, lo, hi int) (int, error) {
	for i := lo; i < hi; i++ {
		if c := buf.At(i); c.Token == token.NUMBER || c.Class() != level {
			continue
		}
		// Runs start at the literal before the operator.
		start, end := i-1, i+2
		for end < hi && buf.At(end).Class() == level {
			end += 2
		}
		if err := rw.reduce(buf, level, start, end); err != nil {
			return 0, err
		}
		hi -= end - start - 1
		i = start
	}
	return hi, nil
}

// reduce folds [l, r) with the segment evaluator and splices the result.
func (rw *Rewriter) reduce(buf *Buffer, level optable.Priority, l, r int) error {
	if r-l < 3 {
		return nil
	}
	v, err := Segment(rw.table, buf.Slice(l, r))
	if err != nil {
		return err
	}
	before := buf.String()
	buf.Splice(l, r, v)
	rw.record(level, before, buf)
	return nil
}

func (rw *Rewriter) record(level optable.Priority, before string, buf *Buffer) {
	after := buf.String()
	rw.logger.Debug("splice", "level", level, "before", before, "after", after)
	if rw.trace != nil {
		rw.trace(Step{Level: level, Before: before, After: after})
	}
}
