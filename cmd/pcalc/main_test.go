package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/pkg/pcalc"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestStdinToken(t *testing.T) {
	tests := []struct {
		stdin string
		want  string
	}{
		{"3+4*2\n", "Your Answer: 11"},
		{"(1+2)*3", "Your Answer: 9"},
		{"  10/2-3  ", "Your Answer: 2"},
		{"1.5+2.5", "Your Answer: 4"},
		{"42\n", "Sorry("},
		// Only the first whitespace-delimited token is read.
		{"2^3+1 ignored", "Your Answer: 9"},
	}
	for _, tt := range tests {
		t.Run(tt.stdin, func(t *testing.T) {
			out, _, err := execute(t, tt.stdin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalFlag(t *testing.T) {
	out, _, err := execute(t, "", "-e", "2 * (3 + 4)")
	require.NoError(t, err)
	assert.Equal(t, "Your Answer: 14\n", out)
}

func TestEngineFlag(t *testing.T) {
	out, _, err := execute(t, "", "--engine", "rewrite", "-e", "50*2")
	require.NoError(t, err)
	assert.Equal(t, "Your Answer: 100\n", out)

	_, _, err = execute(t, "", "--engine", "bogus", "-e", "1")
	assert.ErrorContains(t, err, "unknown engine")
}

func TestTraceFlag(t *testing.T) {
	out, errOut, err := execute(t, "", "--trace", "-e", "3+4*2")
	require.NoError(t, err)
	assert.Equal(t, "Your Answer: 11\n", out)
	assert.Contains(t, errOut, "3+4*2 -> 3+8")
	assert.Contains(t, errOut, "3+8 -> 11")
}

func TestDumpFlag(t *testing.T) {
	out, _, err := execute(t, "", "--dump", "-e", "1+2")
	require.NoError(t, err)
	assert.Contains(t, out, "expr.Binary")
	assert.True(t, strings.HasSuffix(out, "Your Answer: 3\n"))
}

func TestErrors(t *testing.T) {
	_, _, err := execute(t, "(1+2")
	assert.ErrorIs(t, err, calcerr.ErrMalformedExpression)

	_, _, err = execute(t, "")
	assert.ErrorContains(t, err, "no expression")

	_, _, err = execute(t, "", "extra-arg")
	assert.Error(t, err)
}

func TestHistoryFlag(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pcalc.db")

	_, _, err := execute(t, "", "--db", db, "-e", "1+1")
	require.NoError(t, err)
	_, _, err = execute(t, "6*7", "--db", db, "--engine", "rewrite")
	require.NoError(t, err)

	out, _, err := execute(t, "", "--db", db, "--history", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "6*7 = 42")
	assert.Contains(t, lines[0], "rewrite")
	assert.Contains(t, lines[1], "1+1 = 2")
}

func TestBadDatabasePath(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing", "pcalc.db")
	_, _, err := execute(t, "", "--db", db, "-e", "1+1")
	assert.ErrorContains(t, err, "opening")
}

func TestReplCommands(t *testing.T) {
	runtime := pcalc.New(pcalc.WithMemoryStore())
	defer runtime.Close()

	var out, errOut bytes.Buffer
	evalLine(&out, &errOut, runtime, "3+4*2", false)
	assert.Contains(t, out.String(), "Your Answer: 11")

	evalLine(&out, &errOut, runtime, "3+", false)
	assert.Contains(t, errOut.String(), "malformed expression")

	out.Reset()
	assert.True(t, command(&out, runtime, ":history 5"))
	assert.Contains(t, out.String(), "3+4*2 = 11")

	out.Reset()
	assert.True(t, command(&out, runtime, ":help"))
	assert.Contains(t, out.String(), ":quit")

	out.Reset()
	assert.True(t, command(&out, runtime, ":nope"))
	assert.Contains(t, out.String(), "unknown command")

	assert.False(t, command(&out, runtime, ":quit"))
}

func TestCheckCommand(t *testing.T) {
	for _, engine := range []string{"descent", "rewrite"} {
		t.Run(engine, func(t *testing.T) {
			out, _, err := execute(t, "", "check", "--engine", engine, "--dir", "testdata/conformance")
			require.NoError(t, err, out)
			assert.Contains(t, out, "Passed: 3")
			assert.Contains(t, out, "Failed: 0")
		})
	}
}

func TestCheckCommandFailures(t *testing.T) {
	out, _, err := execute(t, "", "check", "testdata/broken/wrong.calc")
	require.Error(t, err)
	assert.Contains(t, out, "2+2 = 4, expected 5")
	assert.Contains(t, out, "1+1 = 2, expected an error")
	assert.Contains(t, out, "Failed: 1")

	_, _, err = execute(t, "", "check")
	assert.ErrorContains(t, err, "no .calc files")
}

func TestCheckFileLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.calc")
	require.NoError(t, os.WriteFile(path, []byte("# header\n\n1+1\n# EXPECTED: 3\n1+1\n"), 0o644))

	result := checkFile(pcalc.New(), path)
	assert.Equal(t, 2, result.cases)
	require.Len(t, result.failures, 1)
	assert.Equal(t, 5, result.failures[0].line)
}
