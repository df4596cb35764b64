// Package elan implements the ELAN interpreter: a line parser, scoped
// memory and an executor with macros and replayable programs.
package elan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phroun/elan/pkg/selfmodel"
	"github.com/phroun/elan/pkg/typetag"
)

// Interpreter is the main ELAN interpreter. It is not safe for concurrent
// use.
type Interpreter struct {
	config    *Config
	logger    *Logger
	memory    *Memory
	executor  *Executor
	self      *selfmodel.SelfModel
	inference *selfmodel.InferenceEngine
	types     *typetag.Engine
	out       io.Writer

	// interactive input is numbered continuously across ExecuteLine calls
	lineParser *Parser
	lineNumber int
}

// New creates a new ELAN interpreter
func New(config *Config) *Interpreter {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.normalized()

	logger := NewLogger(config.Debug)
	logger.SetContextLines(config.ContextLines)
	if unknown := logger.EnableCategoryNames(config.LogCategories); len(unknown) > 0 {
		logger.WarnCat(CatSystem, "Unknown log categories: %s", strings.Join(unknown, ", "))
	}

	in := &Interpreter{
		config: config,
		logger: logger,
		out:    os.Stdout,
	}
	in.Reset()
	return in
}

// Reset discards all bindings, macros, programs, ledger entries and
// self-model state. Output writers and configuration are kept.
func (in *Interpreter) Reset() {
	in.memory = NewMemory()
	in.self = selfmodel.New()
	in.inference = selfmodel.NewInferenceEngine()
	in.types = typetag.New()

	in.executor = NewExecutor(in.memory, in.logger, in.config)
	in.executor.SetOutput(in.out)
	in.executor.SetSelfModel(in.self)
	in.executor.SetInference(in.inference)
	in.executor.SetTypeTagger(in.types)

	in.lineParser = NewParser("<stdin>")
	in.lineNumber = 0
	in.logger.DebugCat(CatSystem, "Interpreter reset")
}

// SetOutput redirects emitted values
func (in *Interpreter) SetOutput(w io.Writer) {
	in.out = w
	in.executor.SetOutput(w)
	in.logger.SetWriters(w, nil)
}

// SetErrorOutput redirects diagnostics
func (in *Interpreter) SetErrorOutput(w io.Writer) {
	in.logger.SetWriters(nil, w)
}

// Config returns the interpreter configuration
func (in *Interpreter) Config() *Config {
	return in.config
}

// Logger returns the interpreter logger
func (in *Interpreter) Logger() *Logger {
	return in.logger
}

// Memory returns the current memory
func (in *Interpreter) Memory() *Memory {
	return in.memory
}

// Executor returns the current executor
func (in *Interpreter) Executor() *Executor {
	return in.executor
}

// Execute runs a script given as text
func (in *Interpreter) Execute(source string) error {
	return in.ExecuteFile(source, "")
}

// ExecuteFile runs a script, one statement per line. Lines that fail to
// parse are reported and skipped; the returned error wraps
// ErrParseMismatch when any line was skipped.
func (in *Interpreter) ExecuteFile(source, filename string) error {
	parser := NewParser(filename)
	parser.SetSource(source)
	lines := strings.Split(source, "\n")
	in.executor.SetSource(lines)
	defer in.executor.SetSource(nil)

	skipped := 0
	for i, line := range lines {
		node, err := parser.ParseLine(line, i+1)
		if err != nil {
			in.reportParseError(err)
			skipped++
			continue
		}
		if node != nil {
			in.executor.Execute(node)
		}
	}
	in.executor.Finish()

	if skipped > 0 {
		return fmt.Errorf("%w: %d line(s) skipped", ErrParseMismatch, skipped)
	}
	return nil
}

// ExecuteLine runs one interactive line. The boolean is false when the
// line did not parse.
func (in *Interpreter) ExecuteLine(line string) (Value, bool) {
	in.lineNumber++
	node, err := in.lineParser.ParseLine(line, in.lineNumber)
	if err != nil {
		in.reportParseError(err)
		return nil, false
	}
	if node == nil {
		return nil, true
	}
	return in.executor.Execute(node), true
}

// Pending reports whether a multi-line definition or recording is open
func (in *Interpreter) Pending() bool {
	return in.executor.Pending()
}

// Macros returns the names of defined macros in definition order
func (in *Interpreter) Macros() []string {
	return in.memory.Macros().Names()
}

// Programs returns recorded program labels in recording order
func (in *Interpreter) Programs() []string {
	return in.executor.Programs().Labels()
}

func (in *Interpreter) reportParseError(err error) {
	var pe *ParseError
	if !errors.As(err, &pe) {
		in.logger.ErrorCat(CatParse, "%v", err)
		return
	}
	var context []string
	if in.config.ShowErrorContext {
		context = pe.Context
	}
	in.logger.ParseError(pe.Message, pe.Position, context)
}
