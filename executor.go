package elan

import (
	"fmt"
	"io"
	"os"
)

// Signal is the control state propagated upward from statement execution
type Signal int

const (
	SignalNormal Signal = iota // keep executing the next statement
	SignalReturn               // unwind to the nearest call boundary
	SignalBreak                // unwind to the nearest loop boundary
)

func (s Signal) String() string {
	switch s {
	case SignalReturn:
		return "return"
	case SignalBreak:
		return "break"
	}
	return "normal"
}

// flow is the result of executing one statement
type flow struct {
	Signal Signal
	Value  Value
}

var normal = flow{Signal: SignalNormal}

// SelfModel accumulates what a script says about itself
type SelfModel interface {
	SetIdentity(text string)
	AddDeclaration(text string)
	AddBelief(text string)
	AddIntent(text string)
	AddGoal(text string)
	AddReason(text string)
	AddEvaluation(text string)
	AddAdjustment(text string)
	AddContradiction(note string)
	ResolveContradictions() []string
	Describe() []string
	AskSelf(query string) []string
}

// Inference answers explanation queries over beliefs and rules
type Inference interface {
	AddBelief(proposition string)
	AddRule(premise, conclusion string)
	Explain(query string) string
	ForAll(cond func(string) bool) bool
	Exists(cond func(string) bool) bool
}

// TypeTagger labels bound values with coarse type tags
type TypeTagger interface {
	InferType(name string, value interface{}) string
	TypeOf(name string) (string, bool)
	CheckType(name, expected string) bool
}

// definition is an open multi-line "define NAME(...) as:" awaiting "end"
type definition struct {
	name     string
	params   []string
	body     []*Node
	position *SourcePosition
}

// recording is an open "remember_program LABEL:" awaiting "end program"
type recording struct {
	label    string
	nodes    []*Node
	position *SourcePosition
}

// Executor runs parsed nodes against a Memory. It owns the program
// registry, the output ledger and the call/loop bookkeeping for one run.
type Executor struct {
	memory    *Memory
	logger    *Logger
	config    *Config
	out       io.Writer
	self      SelfModel
	inference Inference
	types     TypeTagger

	// Source lines of the running script, for diagnostics with context
	source []string

	depth        int // nested calls and replays
	calls        int // nested calls only; return binds to these
	macroContext *MacroContext

	defining  *definition
	recording *recording
	programs  *Registry

	ledger     *Ledger
	warnedVars map[string]bool
}

// NewExecutor creates an executor over memory. A nil config uses
// DefaultConfig.
func NewExecutor(memory *Memory, logger *Logger, config *Config) *Executor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Executor{
		memory:     memory,
		logger:     logger,
		config:     config.normalized(),
		out:        os.Stdout,
		programs:   NewRegistry(),
		ledger:     NewLedger(),
		warnedVars: make(map[string]bool),
	}
}

// SetOutput redirects emitted values
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// SetSelfModel attaches the self-model collaborator
func (e *Executor) SetSelfModel(s SelfModel) {
	e.self = s
}

// SetInference attaches the inference collaborator
func (e *Executor) SetInference(ie Inference) {
	e.inference = ie
}

// SetTypeTagger attaches the type-tag collaborator
func (e *Executor) SetTypeTagger(t TypeTagger) {
	e.types = t
}

// SetSource records the script text used for diagnostic context
func (e *Executor) SetSource(lines []string) {
	e.source = lines
}

// Memory returns the memory the executor runs against
func (e *Executor) Memory() *Memory {
	return e.memory
}

// Programs returns the program registry
func (e *Executor) Programs() *Registry {
	return e.programs
}

// Ledger returns the output/expectation ledger
func (e *Executor) Ledger() *Ledger {
	return e.ledger
}

// Pending reports whether a multi-line definition or a program recording
// is still open, so the caller knows more lines are expected.
func (e *Executor) Pending() bool {
	return e.defining != nil || e.recording != nil
}

// Execute runs one top-level statement and returns the value it produced,
// if any. Signals that escape to the top level are reported and dropped.
func (e *Executor) Execute(node *Node) Value {
	if node == nil {
		return nil
	}
	result := e.execute(node)
	if result.Signal == SignalBreak {
		e.warn(CatFlow, node.Position, "%v", ErrEscapingBreak)
		return nil
	}
	return result.Value
}

// Finish reports definitions or recordings left open at the end of a run
// and discards them.
func (e *Executor) Finish() {
	if e.defining != nil {
		e.warn(CatMacro, e.defining.position, "definition of %s was never closed with 'end'", e.defining.name)
		e.defining = nil
	}
	if e.recording != nil {
		e.warn(CatProgram, e.recording.position, "recording of %s was never closed with 'end program'", e.recording.label)
		e.recording = nil
	}
}

// execute runs one statement, honouring open recordings and definitions
func (e *Executor) execute(node *Node) flow {
	if e.recording != nil && node.Kind != KindEndProgram {
		e.recording.nodes = append(e.recording.nodes, node)
		e.logger.DebugCat(CatProgram, "Recorded into %s: %s", e.recording.label, node)
		return normal
	}
	if e.defining != nil && node.Kind != KindEnd {
		e.defining.body = append(e.defining.body, node)
		return normal
	}

	e.logger.TraceCat(CatCommand, "Executing %s: %s", node.Kind, node)

	switch node.Kind {
	case KindSay:
		value := e.eval(node.Operand(0))
		e.emit(value)
		return flow{Signal: SignalNormal, Value: value}

	case KindRemember:
		return e.executeRemember(node)

	case KindRecall:
		value, ok := e.memory.Recall(node.Token(0))
		if !ok {
			e.warn(CatVariable, node.Position, "%v: %s", ErrUndefinedVariable, node.Token(0))
		}
		e.emit(value)
		return flow{Signal: SignalNormal, Value: value}

	case KindForget:
		if !e.memory.Forget(node.Token(0)) {
			e.warn(CatVariable, node.Position, "%v: %s", ErrUndefinedVariable, node.Token(0))
		}
		return normal

	case KindBreak:
		return flow{Signal: SignalBreak}

	case KindReturn:
		return e.executeReturn(node)

	case KindIf:
		return e.executeIf(node)

	case KindWhile:
		return e.executeWhile(node)

	case KindFunctionDef:
		return e.executeDefine(node)

	case KindEnd:
		return e.executeEnd(node)

	case KindCall:
		return flow{Signal: SignalNormal, Value: e.call(node)}

	case KindVector, KindBinary:
		return flow{Signal: SignalNormal, Value: e.eval(node)}

	case KindReflectMemory, KindReflectMacro, KindReflectAll:
		e.executeReflect(node)
		return normal

	case KindIdentity, KindDeclare, KindBelief, KindDescribeSelf, KindAskSelf, KindIntent,
		KindGoal, KindReason, KindEvaluate, KindAdjust, KindContradiction, KindResolve,
		KindRule, KindExplain:
		e.executeSelf(node)
		return normal

	case KindTypeOf, KindCheckType:
		e.executeType(node)
		return normal

	case KindRememberProgram, KindEndProgram, KindRunProgram, KindGenerateMacro, KindAnalyzeSuccess:
		return e.executeProgram(node)

	case KindLabelOutput, KindExpect, KindScoreThoughts:
		e.executeLedger(node)
		return normal

	case KindRewriteMacro, KindSuggestFix, KindRememberFix, KindApplyFix:
		e.executeFix(node)
		return normal
	}

	e.logger.UnknownCommandError(fmt.Sprintf("%s (%v)", node.Kind, ErrUnknownCommand), node.Position, e.source)
	return normal
}

// executeBlock runs statements in order, stopping at the first signal
func (e *Executor) executeBlock(block Block) flow {
	result := normal
	for _, stmt := range block {
		result = e.execute(stmt)
		if result.Signal != SignalNormal {
			return result
		}
	}
	return result
}

func (e *Executor) executeRemember(node *Node) flow {
	name := node.Token(0)
	value := e.eval(node.Operand(1))
	e.memory.Define(name, value)
	delete(e.warnedVars, name)
	if e.types != nil {
		tag := e.types.InferType(name, value)
		e.logger.DebugCat(CatType, "%s tagged %s", name, tag)
	}
	e.logger.DebugCat(CatVariable, "Remembered %s = %s", name, FormatValue(value))
	return normal
}

// emit writes a value to the output and settles a pending output label
func (e *Executor) emit(value Value) {
	_, _ = fmt.Fprintln(e.out, FormatValue(value))
	if label, ok := e.ledger.TakePending(); ok {
		e.ledger.Record(label, value)
		e.logger.DebugCat(CatLedger, "Captured output %s = %s", label, FormatValue(value))
	}
}

// emitf writes one line of command output
func (e *Executor) emitf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(e.out, format+"\n", args...)
}

// position returns pos tagged with the current macro call chain
func (e *Executor) position(pos *SourcePosition) *SourcePosition {
	if pos == nil || e.macroContext == nil {
		return pos
	}
	out := *pos
	out.MacroContext = e.macroContext
	return &out
}

func (e *Executor) warn(cat LogCategory, pos *SourcePosition, format string, args ...interface{}) {
	e.logger.Log(LevelWarn, cat, fmt.Sprintf(format, args...), e.position(pos), nil)
}

func (e *Executor) fail(cat LogCategory, pos *SourcePosition, format string, args ...interface{}) {
	e.logger.Log(LevelError, cat, fmt.Sprintf(format, args...), e.position(pos), e.source)
}
