package elan

import "strings"

// Kind identifies the shape of a parsed Node
type Kind int

const (
	KindUnrecognized Kind = iota

	// Expressions
	KindVector
	KindBinary

	// Core statements
	KindSay
	KindRemember
	KindRecall
	KindForget
	KindBreak
	KindReturn
	KindIf
	KindWhile
	KindFunctionDef
	KindEnd
	KindCall

	// Reflection
	KindReflectMemory
	KindReflectMacro
	KindReflectAll

	// Self-model
	KindIdentity
	KindDeclare
	KindBelief
	KindDescribeSelf
	KindAskSelf
	KindIntent
	KindGoal
	KindReason
	KindEvaluate
	KindAdjust
	KindContradiction
	KindResolve
	KindRule
	KindExplain
	KindTypeOf
	KindCheckType

	// Meta-programming
	KindRememberProgram
	KindEndProgram
	KindRunProgram
	KindGenerateMacro
	KindAnalyzeSuccess

	// Output ledger
	KindLabelOutput
	KindExpect
	KindScoreThoughts

	// Fix suggestions
	KindRewriteMacro
	KindSuggestFix
	KindRememberFix
	KindApplyFix
)

var kindNames = map[Kind]string{
	KindUnrecognized:    "unrecognized",
	KindVector:          "vector_literal",
	KindBinary:          "binary_op",
	KindSay:             "say",
	KindRemember:        "remember",
	KindRecall:          "recall",
	KindForget:          "forget",
	KindBreak:           "break",
	KindReturn:          "return",
	KindIf:              "if",
	KindWhile:           "while",
	KindFunctionDef:     "function_def",
	KindEnd:             "end",
	KindCall:            "function_call",
	KindReflectMemory:   "reflect_memory",
	KindReflectMacro:    "reflect_macro",
	KindReflectAll:      "reflect_all",
	KindIdentity:        "identity",
	KindDeclare:         "declare",
	KindBelief:          "belief",
	KindDescribeSelf:    "describe_self",
	KindAskSelf:         "ask_self",
	KindIntent:          "intent",
	KindGoal:            "goal",
	KindReason:          "reason",
	KindEvaluate:        "evaluate",
	KindAdjust:          "adjust",
	KindContradiction:   "contradiction",
	KindResolve:         "resolve_contradictions",
	KindRule:            "rule",
	KindExplain:         "explain",
	KindTypeOf:          "typeof",
	KindCheckType:       "check_type",
	KindRememberProgram: "remember_program",
	KindEndProgram:      "end_program",
	KindRunProgram:      "run_program",
	KindGenerateMacro:   "generate_macro",
	KindAnalyzeSuccess:  "analyze_success",
	KindLabelOutput:     "label_output",
	KindExpect:          "expect",
	KindScoreThoughts:   "score_thoughts",
	KindRewriteMacro:    "rewrite_macro",
	KindSuggestFix:      "suggest_fix",
	KindRememberFix:     "remember_fix",
	KindApplyFix:        "apply_fix",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unrecognized"
}

// Operand is one of Token, *Node or Block
type Operand interface {
	isOperand()
}

// Token is a literal operand: a number, a quoted string, a name or free text.
type Token string

func (Token) isOperand() {}

// Block is an ordered list of statements
type Block []*Node

func (Block) isOperand() {}

// Node is an immutable parsed statement or sub-expression.
type Node struct {
	Kind     Kind
	Operands []Operand
	Position *SourcePosition
	Text     string
}

func (*Node) isOperand() {}

func newNode(kind Kind, text string, pos *SourcePosition, operands ...Operand) *Node {
	return &Node{
		Kind:     kind,
		Operands: operands,
		Position: pos,
		Text:     strings.TrimSpace(text),
	}
}

// String returns the canonical source text of the node
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	return n.Text
}

// Token returns operand i as a token, or "" when it is missing or not a token.
func (n *Node) Token(i int) string {
	if i < 0 || i >= len(n.Operands) {
		return ""
	}
	if tok, ok := n.Operands[i].(Token); ok {
		return string(tok)
	}
	return ""
}

// Operand returns operand i or nil when it is missing.
func (n *Node) Operand(i int) Operand {
	if i < 0 || i >= len(n.Operands) {
		return nil
	}
	return n.Operands[i]
}

// Block returns operand i as a block. A lone *Node is treated as a
// one-element block.
func (n *Node) Block(i int) Block {
	switch op := n.Operand(i).(type) {
	case Block:
		return op
	case *Node:
		return Block{op}
	}
	return nil
}

// Strings renders a block one statement per element
func (b Block) Strings() []string {
	out := make([]string, len(b))
	for i, stmt := range b {
		out[i] = stmt.String()
	}
	return out
}
