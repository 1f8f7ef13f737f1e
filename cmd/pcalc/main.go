// Command pcalc evaluates an infix arithmetic expression.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nickandperla.net/pcalc/pkg/pcalc"
)

type options struct {
	evalStr string
	dbPath  string
	engine  string
	trace   bool
	dump    bool
	history int
	repl    bool
	cache   bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "pcalc",
		Short: "Evaluate an infix arithmetic expression",
		Long: `pcalc evaluates one arithmetic expression over decimal literals,
the operators + - * / % ^ and parentheses.

Without -e it reads a single whitespace-delimited expression from stdin and
prints "Your Answer: <result>", or "Sorry(" when the expression is already a
bare number. A terminal stdin starts an interactive session instead.

Examples:
  echo '3+4*2' | pcalc
  pcalc -e '(1+2)*3' --trace
  pcalc --db history.db --history 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	cmd.PersistentFlags().StringVar(&o.engine, "engine", "descent", "Evaluation engine: descent or rewrite")

	f := cmd.Flags()
	f.StringVarP(&o.evalStr, "eval", "e", "", "Evaluate expression string")
	f.StringVar(&o.dbPath, "db", "", "SQLite database path for evaluation history (empty disables)")
	f.BoolVar(&o.trace, "trace", false, "Print every rewrite step to stderr (implies --engine rewrite)")
	f.BoolVar(&o.dump, "dump", false, "Print the parse tree before evaluating")
	f.IntVar(&o.history, "history", 0, "Print the last N evaluations and exit")
	f.BoolVar(&o.repl, "repl", false, "Start an interactive session")
	f.BoolVar(&o.cache, "cache", true, "Reuse stored answers for repeated expressions (needs --db)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging to stderr")

	cmd.AddCommand(newCheckCmd(&o))
	return cmd
}

func run(cmd *cobra.Command, o options) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	engine, ok := pcalc.ParseEngine(o.engine)
	if !ok {
		return fmt.Errorf("unknown engine: %s (use descent or rewrite)", o.engine)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	opts := []pcalc.Option{
		pcalc.WithLogger(logger),
		pcalc.WithEngine(engine),
	}
	if o.dbPath != "" {
		opts = append(opts, pcalc.WithSQLiteStore(o.dbPath), pcalc.WithCache(o.cache))
	}
	if o.trace {
		opts = append(opts, pcalc.WithTrace(func(s pcalc.Step) {
			fmt.Fprintf(stderr, "%-6s %s -> %s\n", s.Level, s.Before, s.After)
		}))
	}

	runtime := pcalc.New(opts...)
	defer runtime.Close()
	if err := runtime.Err(); err != nil {
		return fmt.Errorf("opening %s: %w", o.dbPath, err)
	}

	switch {
	case o.history > 0:
		return printHistory(stdout, runtime, o.history)

	case o.evalStr != "":
		reply, err := evaluate(stdout, runtime, o.evalStr, o.dump)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, reply)
		return nil

	case o.repl || isTerminal(cmd.InOrStdin()):
		return runREPL(stdout, stderr, runtime, o.dump)
	}

	var input string
	if _, err := fmt.Fscan(cmd.InOrStdin(), &input); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("no expression on stdin")
		}
		return fmt.Errorf("reading stdin: %w", err)
	}
	reply, err := evaluate(stdout, runtime, input, o.dump)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, reply)
	return nil
}

func evaluate(w io.Writer, runtime *pcalc.Runtime, input string, dump bool) (string, error) {
	if dump {
		tree, err := runtime.Tree(input)
		if err != nil {
			return "", err
		}
		repr.New(w).Println(tree)
	}
	return runtime.Reply(input)
}

func printHistory(w io.Writer, runtime *pcalc.Runtime, limit int) error {
	entries, err := runtime.History(limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%4d  %s  %-8s %s = %s\n", e.ID, e.Ts, e.Engine, e.Input, e.Answer)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		msg := strings.TrimSpace(err.Error())
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
}
