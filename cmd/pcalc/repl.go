package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"nickandperla.net/pcalc/pkg/pcalc"
)

const (
	historyFile = ".pcalc_history"
	prompt      = "pcalc> "
	helpText    = `Commands:
  :history [N]  Show the last N evaluations (default 10)
  :help         Show this help
  :quit         Exit (Ctrl+D also exits)
`
)

// command handles a ':' line. It returns false when the session should end.
func command(w io.Writer, runtime *pcalc.Runtime, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprint(w, helpText)
	case ":history":
		limit := 10
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				limit = n
			}
		}
		if err := printHistory(w, runtime, limit); err != nil {
			fmt.Fprintln(w, color.RedString("Error: %v", err))
		}
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for commands.\n", fields[0])
	}
	return true
}

// evalLine evaluates one REPL line and prints the reply or the error.
func evalLine(stdout, stderr io.Writer, runtime *pcalc.Runtime, line string, dump bool) {
	reply, err := evaluate(stdout, runtime, line, dump)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("Error: %v", err))
		return
	}
	fmt.Fprintln(stdout, color.GreenString(reply))
}

func runREPL(stdout, stderr io.Writer, runtime *pcalc.Runtime, dump bool) error {
	fmt.Fprintln(stdout, "pcalc (Ctrl+D to exit, :help for commands)")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if !command(stdout, runtime, line) {
				return nil
			}
			continue
		}
		evalLine(stdout, stderr, runtime, line, dump)
	}
}
