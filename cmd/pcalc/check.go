package main

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nickandperla.net/pcalc/pkg/pcalc"
)

const (
	calcExt           = ".calc"
	expectedDirective = "# EXPECTED:"
)

// failure is one mismatching expression in a checked file.
type failure struct {
	line int
	msg  string
}

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path     string
	cases    int
	failures []failure
}

func newCheckCmd(root *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Run .calc conformance files",
		Long: `check evaluates every expression line of the given .calc files.

A "# EXPECTED: <answer>" line states the answer of the next expression;
"# EXPECTED: Error" states that it must fail. Other lines starting with '#'
are comments. Without an expectation an expression only has to evaluate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := append([]string(nil), args...)
			if dir != "" {
				found, err := findCalcFiles(dir)
				if err != nil {
					return fmt.Errorf("scanning directory %s: %w", dir, err)
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s files given", calcExt)
			}

			engine, ok := pcalc.ParseEngine(root.engine)
			if !ok {
				return fmt.Errorf("unknown engine: %s (use descent or rewrite)", root.engine)
			}
			runtime := pcalc.New(pcalc.WithEngine(engine))
			defer runtime.Close()

			failed := 0
			for _, f := range files {
				result := checkFile(runtime, f)
				report(cmd.OutOrStdout(), result)
				if len(result.failures) > 0 {
					failed++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n--- Summary ---\n")
			fmt.Fprintf(out, "Passed: %d\n", len(files)-failed)
			fmt.Fprintf(out, "Failed: %d\n", failed)
			fmt.Fprintf(out, "Total:  %d\n", len(files))

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Check every "+calcExt+" file under DIR")
	return cmd
}

func report(w io.Writer, result checkResult) {
	if len(result.failures) == 0 {
		fmt.Fprintf(w, "%s   %s (%d cases)\n", color.GreenString("OK"), result.path, result.cases)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.RedString("FAIL"), result.path)
	for _, f := range result.failures {
		fmt.Fprintf(w, "     line %d: %s\n", f.line, f.msg)
	}
}

// checkFile evaluates each expression in path against its expectation.
func checkFile(runtime *pcalc.Runtime, path string) checkResult {
	result := checkResult{path: path}

	f, err := os.Open(path)
	if err != nil {
		result.failures = append(result.failures, failure{msg: fmt.Sprintf("read error: %v", err)})
		return result
	}
	defer f.Close()

	var expected *string
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, expectedDirective):
			want := strings.TrimSpace(strings.TrimPrefix(line, expectedDirective))
			expected = &want
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		result.cases++
		if msg := checkCase(runtime, line, expected); msg != "" {
			result.failures = append(result.failures, failure{line: n, msg: msg})
		}
		expected = nil
	}
	if err := sc.Err(); err != nil {
		result.failures = append(result.failures, failure{msg: fmt.Sprintf("read error: %v", err)})
	}
	return result
}

// checkCase returns a failure message, or "" when the expression behaves as
// expected.
func checkCase(runtime *pcalc.Runtime, input string, expected *string) string {
	answer, err := runtime.Eval(input)
	wantErr := expected != nil && strings.HasPrefix(*expected, "Error")

	switch {
	case wantErr && err == nil:
		return fmt.Sprintf("%s = %s, expected an error", input, answer)
	case wantErr:
		return ""
	case err != nil:
		return fmt.Sprintf("%s: %v", input, err)
	case expected != nil && answer != *expected:
		return fmt.Sprintf("%s = %s, expected %s", input, answer, *expected)
	}
	return ""
}

// findCalcFiles recursively finds all .calc files under dir.
func findCalcFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), calcExt) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
