package elan

import (
	"fmt"
	"strings"
)

func (e *Executor) executeProgram(node *Node) flow {
	label := node.Token(0)
	switch node.Kind {
	case KindRememberProgram:
		e.recording = &recording{label: label, position: node.Position}
		e.logger.DebugCat(CatProgram, "Recording program %s", label)

	case KindEndProgram:
		if e.recording == nil {
			e.warn(CatProgram, node.Position, "'end program' without an open recording")
			return normal
		}
		e.programs.Store(e.recording.label, e.recording.nodes)
		e.logger.DebugCat(CatProgram, "Stored program %s (%d statements)", e.recording.label, len(e.recording.nodes))
		e.recording = nil

	case KindRunProgram:
		return e.replay(label, node.Position)

	case KindGenerateMacro:
		source := node.Token(1)
		nodes, ok := e.programs.Get(source)
		if !ok {
			e.warn(CatProgram, node.Position, "%v: %s", ErrUnknownProgram, source)
			return normal
		}
		e.memory.DefineMacro(label, nil, nodes, node.Position)
		e.logger.DebugCat(CatMacro, "Generated macro %s from program %s", label, source)

	case KindAnalyzeSuccess:
		e.emitf("Analyzing output of %s: (stub logic)", label)
		if value, ok := e.ledger.Output(label); ok {
			e.emitf("Last output: %s", FormatValue(value))
		}
	}
	return normal
}

// replay re-executes a recorded program in the current scope. Signals
// propagate to the enclosing loop or call.
func (e *Executor) replay(label string, position *SourcePosition) flow {
	nodes, ok := e.programs.Get(label)
	if !ok {
		e.warn(CatProgram, position, "%v: %s", ErrUnknownProgram, label)
		return normal
	}
	if e.depth >= e.config.MaxCallDepth {
		e.fail(CatProgram, position, "%v: replay of %s at depth %d", ErrCallDepth, label, e.depth)
		return normal
	}
	e.depth++
	defer func() { e.depth-- }()
	e.logger.DebugCat(CatProgram, "Replaying %s", label)
	return e.executeBlock(nodes)
}

func (e *Executor) executeLedger(node *Node) {
	switch node.Kind {
	case KindLabelOutput:
		e.ledger.SetPending(node.Token(0))
	case KindExpect:
		e.ledger.Expect(node.Token(0), e.eval(node.Operand(1)))
	case KindScoreThoughts:
		e.emitf("=== Thought Evaluation ===")
		for _, score := range e.ledger.Score() {
			e.emitf("%s", score)
		}
	}
}

// executeReflect prints bindings and macros without changing them
func (e *Executor) executeReflect(node *Node) {
	switch node.Kind {
	case KindReflectMemory:
		e.reflectMemory()
	case KindReflectMacro:
		name := node.Token(0)
		if !e.reflectMacro(name) {
			e.warn(CatMacro, node.Position, "%v: %s", ErrUndefinedMacro, name)
		}
	case KindReflectAll:
		e.emitf("== Memory ==")
		e.reflectMemory()
		e.emitf("== Macros ==")
		for _, name := range e.memory.Macros().Names() {
			e.reflectMacro(name)
		}
	}
}

func (e *Executor) reflectMemory() {
	snapshot := e.memory.Snapshot()
	for _, name := range SnapshotKeys(snapshot) {
		e.emitf("%s = %s", name, FormatValue(snapshot[name]))
	}
}

func (e *Executor) reflectMacro(name string) bool {
	macro, ok := e.memory.Macro(name)
	if !ok {
		return false
	}
	e.emitf("%s(%s):", name, strings.Join(macro.Params, ", "))
	for _, stmt := range macro.Body {
		e.emitf("  %s", stmt)
	}
	return true
}

func (e *Executor) executeSelf(node *Node) {
	text := node.Token(0)

	switch node.Kind {
	case KindRule, KindExplain:
		if e.inference == nil {
			e.warn(CatSelf, node.Position, "no inference engine attached")
			return
		}
		if node.Kind == KindRule {
			e.inference.AddRule(text, node.Token(1))
			return
		}
		e.explain(text)
		return
	}

	if e.self == nil {
		e.warn(CatSelf, node.Position, "no self-model attached")
		return
	}
	switch node.Kind {
	case KindIdentity:
		e.self.SetIdentity(text)
	case KindDeclare:
		e.self.AddDeclaration(text)
	case KindBelief:
		e.self.AddBelief(text)
		if e.inference != nil {
			e.inference.AddBelief(text)
		}
	case KindIntent:
		e.self.AddIntent(text)
	case KindGoal:
		e.self.AddGoal(text)
	case KindReason:
		e.self.AddReason(text)
	case KindEvaluate:
		e.self.AddEvaluation("Evaluated: " + text)
	case KindAdjust:
		e.self.AddAdjustment("Adjusted: " + text)
	case KindContradiction:
		e.self.AddContradiction(text)
	case KindResolve:
		e.printLines(e.self.ResolveContradictions())
	case KindDescribeSelf:
		e.printLines(e.self.Describe())
	case KindAskSelf:
		e.printLines(e.self.AskSelf(text))
	}
}

// explain answers "explain forall WORD", "explain exists WORD" or a plain
// proposition
func (e *Executor) explain(query string) {
	quantifier, word, _ := strings.Cut(query, " ")
	word = strings.TrimSpace(word)
	contains := func(belief string) bool { return strings.Contains(belief, word) }
	switch {
	case quantifier == "forall" && word != "":
		e.emitf("forall %s: %t", word, e.inference.ForAll(contains))
	case quantifier == "exists" && word != "":
		e.emitf("exists %s: %t", word, e.inference.Exists(contains))
	default:
		e.emitf("%s", e.inference.Explain(query))
	}
}

func (e *Executor) executeType(node *Node) {
	if e.types == nil {
		e.warn(CatType, node.Position, "no type tagger attached")
		return
	}
	name := node.Token(0)
	switch node.Kind {
	case KindTypeOf:
		if value, ok := e.memory.Recall(name); ok {
			e.emitf("%s: %s", name, e.types.InferType(name, value))
			return
		}
		if tag, ok := e.types.TypeOf(name); ok {
			e.emitf("%s: %s", name, tag)
			return
		}
		e.warn(CatVariable, node.Position, "%v: %s", ErrUndefinedVariable, name)
	case KindCheckType:
		expected := node.Token(1)
		if e.types.CheckType(name, expected) {
			e.emitf("%s: %s → OK", name, expected)
			return
		}
		actual, _ := e.types.TypeOf(name)
		e.emitf("%s: %s → FAIL (got %s)", name, expected, orUnknown(actual))
	}
}

func orUnknown(tag string) string {
	if tag == "" {
		return "unknown"
	}
	return tag
}

// executeFix runs the fix-suggestion commands. They only print advice and
// store text; no macro is analysed.
func (e *Executor) executeFix(node *Node) {
	name := node.Token(0)
	switch node.Kind {
	case KindRewriteMacro:
		e.emitf("Rewriting macro: %s", name)
		e.memory.DefineMacro(name, nil, nil, node.Position)
	case KindSuggestFix:
		e.emitf("Suggesting fix for macro '%s':", name)
		if _, ok := e.memory.Macro(name); ok {
			e.emitf("# Replace body with simpler logic or recursion handling")
		}
	case KindRememberFix:
		e.memory.DefineGlobal("fix_"+name, fmt.Sprintf("Fix for %s: consider simplification.", name))
	case KindApplyFix:
		if fix, ok := e.memory.Recall("fix_" + name); ok && fix != nil {
			e.emitf("Applying fix: %s", FormatValue(fix))
			return
		}
		e.emitf("No fix found for %s", name)
	}
}

func (e *Executor) printLines(lines []string) {
	for _, line := range lines {
		e.emitf("%s", line)
	}
}
