package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/expr"
	"nickandperla.net/pcalc/internal/token"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3+4*2", "(3 + (4 * 2))"},
		{"1-2-3", "((1 - 2) - 3)"},
		{"2^3^2", "((2 ^ 3) ^ 2)"},
		{"2*3^2", "((2 * 3) ^ 2)"},
		{"(1+2)*3", "((1 + 2) * 3)"},
		{"(4)", "(4)"},
		{"2*-3", "(2 * -3)"},
		{"10 / 2 - 3", "((10 / 2) - 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParseTree(t *testing.T) {
	e, err := Parse("1+(2)")
	require.NoError(t, err)

	b, ok := e.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, b.Op)
	assert.Equal(t, expr.Number{Value: 1, Text: "1"}, b.Left)
	assert.Equal(t, expr.Group{Inner: expr.Number{Value: 2, Text: "2"}}, b.Right)
	assert.Equal(t, 3, e.Depth())
}

func TestParseReader(t *testing.T) {
	e, err := New(strings.NewReader("1.5 + 2.5")).Parse()
	require.NoError(t, err)
	assert.Equal(t, "(1.5 + 2.5)", e.String())
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "1+", "(1", "1)", "()", "1 2", "2(3)", "*2", "1+a"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, calcerr.ErrMalformedExpression)
		})
	}
}
