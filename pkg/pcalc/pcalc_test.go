package pcalc

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/store"
)

var engines = []Engine{EngineDescent, EngineRewrite}

func TestReply(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3+4*2", "Your Answer: 11"},
		{"(1+2)*3", "Your Answer: 9"},
		{"10/2-3", "Your Answer: 2"},
		{"2^3+1", "Your Answer: 9"},
		{"1.5+2.5", "Your Answer: 4"},
		{"42", "Sorry("},
		{"42.0", "Your Answer: 42"},
		{"(42)", "Your Answer: 42"},
		{"50*2", "Your Answer: 100"},
		{"1/0", "Your Answer: +Inf"},
		{"0/0", "Your Answer: NaN"},
		{"5%0", "Your Answer: NaN"},
	}
	for _, engine := range engines {
		r := New(WithEngine(engine))
		for _, tt := range tests {
			t.Run(engine.String()+"/"+tt.input, func(t *testing.T) {
				got, err := r.Reply(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestReplyText(t *testing.T) {
	assert.Equal(t, "Sorry(", Reply("7", "7"))
	assert.Equal(t, "Your Answer: 7", Reply("3+4", "7"))
}

func TestErrors(t *testing.T) {
	for _, engine := range engines {
		r := New(WithEngine(engine))
		for _, in := range []string{"", "(1+2", "1+", "1+x", "()"} {
			_, err := r.Reply(in)
			assert.ErrorIs(t, err, calcerr.ErrMalformedExpression, "%s: %q", engine, in)
		}

		restricted := New(WithEngine(engine), WithTable(DefaultTable().Without('^')))
		_, err := restricted.Eval("2^2")
		assert.ErrorIs(t, err, calcerr.ErrUnknownOperator, engine.String())
	}
}

// genExpr builds a random well-formed expression.
func genExpr(rng *rand.Rand, depth int) string {
	if depth == 0 || rng.Intn(4) == 0 {
		switch rng.Intn(5) {
		case 0:
			return fmt.Sprintf("%d.5", rng.Intn(10))
		case 1:
			return fmt.Sprintf("-%d", rng.Intn(9)+1)
		default:
			return fmt.Sprintf("%d", rng.Intn(20))
		}
	}

	ops := []string{"+", "-", "*", "/", "%", "^"}
	var sb strings.Builder
	n := rng.Intn(3) + 2
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(ops[rng.Intn(len(ops))])
		}
		operand := genExpr(rng, depth-1)
		if rng.Intn(3) == 0 {
			operand = "(" + operand + ")"
		}
		sb.WriteString(operand)
	}
	return sb.String()
}

func TestEnginesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	descent := New(WithEngine(EngineDescent))
	rewrite := New(WithEngine(EngineRewrite))

	for i := 0; i < 500; i++ {
		input := genExpr(rng, 3)
		want, err := descent.Eval(input)
		require.NoError(t, err, input)
		got, err := rewrite.Eval(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestTrace(t *testing.T) {
	var steps []Step
	r := New(WithTrace(func(s Step) { steps = append(steps, s) }))
	assert.Equal(t, EngineRewrite, r.Engine())

	answer, err := r.Eval("3+4*2")
	require.NoError(t, err)
	assert.Equal(t, "11", answer)
	require.Len(t, steps, 2)
	assert.Equal(t, "3+8", steps[0].After)
	assert.Equal(t, "11", steps[1].After)
}

func TestHistoryAndCache(t *testing.T) {
	r := New(WithMemoryStore(), WithCache(true))
	defer r.Close()

	_, err := r.Eval("1 + 2")
	require.NoError(t, err)
	_, err = r.Eval("2*3")
	require.NoError(t, err)

	// Cache hit: same digest, nothing new recorded.
	answer, err := r.Eval("1+2")
	require.NoError(t, err)
	assert.Equal(t, "3", answer)

	entries, err := r.History(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2*3", entries[0].Input)
	assert.Equal(t, "1 + 2", entries[1].Input)
	assert.Equal(t, "descent", entries[1].Engine)

	// Failed evaluations are not recorded.
	_, err = r.Eval("1+")
	require.Error(t, err)
	entries, err = r.History(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Whitespace between literals still separates them.
	_, err = r.Eval("12")
	require.NoError(t, err)
	_, err = r.Eval("1 2")
	assert.ErrorIs(t, err, calcerr.ErrMalformedExpression)
}

func TestCacheKeepsTokenBoundaries(t *testing.T) {
	tests := []struct {
		cached    string
		malformed string
	}{
		{"12", "1 2"},
		{"-3", "- 3"},
		{"1.5", "1 .5"},
	}
	for _, engine := range engines {
		r := New(WithEngine(engine), WithMemoryStore(), WithCache(true))
		for _, tt := range tests {
			t.Run(engine.String()+"/"+tt.malformed, func(t *testing.T) {
				_, err := r.Eval(tt.cached)
				require.NoError(t, err)

				_, err = r.Eval(tt.malformed)
				assert.ErrorIs(t, err, calcerr.ErrMalformedExpression)
			})
		}
		r.Close()
	}
}

func TestCacheIgnoresDigestCollision(t *testing.T) {
	s := store.NewMemory()
	key, err := store.Key("1+1")
	require.NoError(t, err)
	// A stored entry with the right digest but a different expression.
	require.NoError(t, s.Record(store.Entry{
		Digest: store.Digest(key),
		Input:  "5*5",
		Answer: "25",
		Engine: EngineDescent.String(),
	}))

	r := New(WithStore(s), WithCache(true))
	defer r.Close()

	answer, err := r.Eval("1+1")
	require.NoError(t, err)
	assert.Equal(t, "2", answer)
}

func TestCacheDisabledForCustomTable(t *testing.T) {
	r := New(WithMemoryStore(), WithCache(true), WithTable(DefaultTable()))
	defer r.Close()

	for i := 0; i < 2; i++ {
		_, err := r.Eval("1+1")
		require.NoError(t, err)
	}
	entries, err := r.History(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcalc.db")

	r := New(WithSQLiteStore(path), WithEngine(EngineRewrite))
	require.NoError(t, r.Err())
	_, err := r.Eval("7*6")
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r = New(WithSQLiteStore(path))
	require.NoError(t, r.Err())
	defer r.Close()

	entries, err := r.History(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0].Answer)
	assert.Equal(t, "rewrite", entries[0].Engine)
}

func TestSQLiteStoreOpenError(t *testing.T) {
	r := New(WithSQLiteStore(filepath.Join(t.TempDir(), "missing", "dir", "pcalc.db")))
	defer r.Close()
	assert.Error(t, r.Err())

	// Evaluation still works without a store.
	answer, err := r.Eval("1+1")
	require.NoError(t, err)
	assert.Equal(t, "2", answer)

	entries, err := r.History(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTree(t *testing.T) {
	tree, err := New().Tree("1+2*3")
	require.NoError(t, err)
	assert.Equal(t, "(1 + (2 * 3))", tree.String())
}

func TestParseEngine(t *testing.T) {
	e, ok := ParseEngine("REWRITE")
	assert.True(t, ok)
	assert.Equal(t, EngineRewrite, e)

	_, ok = ParseEngine("shunting-yard")
	assert.False(t, ok)
}
