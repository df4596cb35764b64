package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/phroun/elan"
	"golang.org/x/term"
)

const (
	promptMain = "elan> "
	promptCont = "...> "
)

const replHelp = `Commands:
  :help          Show this help
  :reset         Forget all variables, macros and programs
  :load FILE     Run a script file in this session
  :macros        List defined macros
  :programs      List recorded programs
  exit, quit     Leave the REPL`

// runREPL runs an interactive Read-Eval-Print Loop
func runREPL(config *elan.Config, historyPath string) int {
	fmt.Printf("ELAN %s\n", version)
	fmt.Println("Interactive mode. Type 'exit' or 'quit' to leave, ':help' for commands.")
	fmt.Println()

	in := elan.New(config)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		prompt := promptMain
		if in.Pending() {
			prompt = promptCont
		}
		input, ok := readStatement(ln, prompt)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(trimmed)

		lower := strings.ToLower(trimmed)
		if lower == "exit" || lower == "quit" {
			break
		}
		if strings.HasPrefix(trimmed, ":") {
			replCommand(in, trimmed, os.Stdout)
			continue
		}

		in.ExecuteLine(input)
	}
	return 0
}

// readStatement reads one statement, continuing onto further lines while
// brackets or quotes are open. Continuation lines are joined with a space
// since every statement occupies a single line.
func readStatement(ln *liner.State, prompt string) (string, bool) {
	var parts []string
	for {
		current := prompt
		if len(parts) > 0 {
			current = promptCont
		}
		line, err := ln.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		parts = append(parts, strings.TrimSpace(line))
		input := strings.Join(parts, " ")
		if isComplete(input) {
			return input, true
		}
	}
}

// isComplete checks if the input has no open brackets or quotes
func isComplete(input string) bool {
	depth := 0
	var quote rune
	for _, ch := range input {
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
	}
	return quote == 0 && depth <= 0
}

// replCommand handles the colon-prefixed REPL commands
func replCommand(in *elan.Interpreter, input string, out io.Writer) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case ":help":
		fmt.Fprintln(out, replHelp)

	case ":reset":
		in.Reset()
		fmt.Fprintln(out, "Interpreter reset.")

	case ":load":
		if arg == "" {
			fmt.Fprintln(out, "Usage: :load FILE")
			return
		}
		path := findScriptFile(arg)
		if path == "" {
			errorPrintf("Script file not found: %s\n", arg)
			return
		}
		content, err := os.ReadFile(path)
		if err != nil {
			errorPrintf("Error reading script file: %v\n", err)
			return
		}
		_ = in.ExecuteFile(string(content), path)

	case ":macros":
		printColumns(out, in.Macros(), "No macros defined.")

	case ":programs":
		printColumns(out, in.Programs(), "No programs recorded.")

	default:
		fmt.Fprintf(out, "Unknown command %s. Type :help for commands.\n", cmd)
	}
}

// printColumns lists names across the terminal width
func printColumns(out io.Writer, names []string, empty string) {
	if len(names) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	for _, line := range layoutColumns(names, width) {
		fmt.Fprintln(out, line)
	}
}

// layoutColumns arranges names left to right in equal-width columns that
// fit within width
func layoutColumns(names []string, width int) []string {
	colWidth := 0
	for _, name := range names {
		colWidth = max(colWidth, len(name))
	}
	colWidth += 2
	perLine := max(1, width/colWidth)

	var lines []string
	for start := 0; start < len(names); start += perLine {
		end := min(len(names), start+perLine)
		var b strings.Builder
		for i, name := range names[start:end] {
			if i < end-start-1 {
				fmt.Fprintf(&b, "%-*s", colWidth, name)
			} else {
				b.WriteString(name)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
