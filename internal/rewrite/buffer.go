package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/format"
	"nickandperla.net/pcalc/internal/optable"
	"nickandperla.net/pcalc/internal/scanner"
	"nickandperla.net/pcalc/internal/token"
)

// Cell is one element of the expression buffer.
type Cell struct {
	Token token.Token
	Value float64 // NUMBER only
	Text  string
}

func (c Cell) String() string {
	if c.Token == token.NUMBER {
		return c.Text
	}
	return string(c.Token.Rune())
}

// Class returns the priority class of the cell's operator, Unresolved for
// literals.
func (c Cell) Class() optable.Priority {
	return optable.Class(c.Token)
}

// Buffer is the live expression being rewritten. It is valid between
// reductions: literals, operators and balanced parentheses only.
type Buffer struct {
	cells []Cell
}

// NewBuffer builds a buffer from scanned items.
func NewBuffer(items []scanner.Item) (*Buffer, error) {
	cells := make([]Cell, 0, len(items))
	for _, it := range items {
		c := Cell{Token: it.Token, Text: it.Value}
		if it.Token == token.NUMBER {
			v, err := strconv.ParseFloat(it.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad literal %q: %v", calcerr.ErrMalformedExpression, it.Value, err)
			}
			c.Value = v
		}
		cells = append(cells, c)
	}
	return &Buffer{cells: cells}, nil
}

// Len returns the number of cells.
func (b *Buffer) Len() int { return len(b.cells) }

// At returns the cell at i.
func (b *Buffer) At(i int) Cell { return b.cells[i] }

// Slice returns the cells in [l, r). The slice aliases the buffer and is
// only valid until the next Splice.
func (b *Buffer) Slice(l, r int) []Cell { return b.cells[l:r] }

// Splice replaces [l, r) with a single literal holding v. Every position
// past l is invalid afterwards.
func (b *Buffer) Splice(l, r int, v float64) {
	lit := Cell{Token: token.NUMBER, Value: v, Text: format.Answer(v)}
	tail := b.cells[r:]
	b.cells = append(b.cells[:l:l], append([]Cell{lit}, tail...)...)
}

// Has reports whether an operator of class p occurs anywhere in the buffer.
func (b *Buffer) Has(p optable.Priority) bool {
	for _, c := range b.cells {
		if c.Token != token.NUMBER && c.Class() == p {
			return true
		}
	}
	return false
}

// Literal returns the value of a fully reduced buffer.
func (b *Buffer) Literal() (float64, bool) {
	if len(b.cells) != 1 || b.cells[0].Token != token.NUMBER {
		return 0, false
	}
	return b.cells[0].Value, true
}

// String renders the buffer as expression text.
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, c := range b.cells {
		sb.WriteString(c.String())
	}
	return sb.String()
}
