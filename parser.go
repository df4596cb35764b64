package elan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser turns single lines of ELAN source into Nodes.
//
// Operand layout per kind:
//
//	say           expr
//	remember      name, expr
//	recall/forget name
//	return        [expr]
//	if            cond, then Block, [else Block]
//	while         cond, body Block
//	function_def  name, params (vector of names), [body Block]
//	function_call name, arg...
//	binary_op     operator, left, right
//	vector        element...
//	expect        label, expr
//	generate_macro name, source label
//	rule          premise, conclusion
//
// Every other statement carries at most one Token operand.
//
// Arithmetic uses two precedence levels, "*" and "/" binding tighter than
// "+" and "-". All four operators are left-associative and parentheses
// group.
type Parser struct {
	filename string
	lines    []string
}

// NewParser creates a new parser
func NewParser(filename string) *Parser {
	return &Parser{filename: filename}
}

// SetSource records the full script so parse errors can show context lines
func (p *Parser) SetSource(source string) {
	p.lines = strings.Split(source, "\n")
}

// Filename returns the filename used in positions
func (p *Parser) Filename() string {
	return p.filename
}

// ParseError reports a line that matches no statement shape
type ParseError struct {
	Message  string
	Position *SourcePosition
	Context  []string
}

func (e *ParseError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("line %d, column %d: %s", e.Position.Line, e.Position.Column, e.Message)
	}
	return e.Message
}

// Unwrap lets callers match parse errors with errors.Is(err, ErrParseMismatch)
func (e *ParseError) Unwrap() error {
	return ErrParseMismatch
}

// ParseLine parses one physical line. Blank lines and lines starting with
// '#' yield (nil, nil). Malformed lines yield a *ParseError; ParseLine
// never panics on bad input.
func (p *Parser) ParseLine(text string, line int) (node *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			node = nil
			err = p.errorf(&SourcePosition{Line: line, Column: 1, Filename: p.filename, OriginalText: text},
				"internal parser failure: %v", r)
		}
	}()

	trimmed, offset := trimWithOffset(strings.TrimRight(text, "\r\n"))
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}
	pos := &SourcePosition{
		Line:         line,
		Column:       1 + utf8.RuneCountInString(text[:offset]),
		Length:       utf8.RuneCountInString(trimmed),
		OriginalText: trimmed,
		Filename:     p.filename,
	}
	return p.parseStatement(trimmed, pos)
}

func (p *Parser) errorf(pos *SourcePosition, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Context:  p.lines,
	}
}

// shift returns the position of text[k:] given the position of text
func shift(pos *SourcePosition, text string, k int) *SourcePosition {
	out := *pos
	if k > len(text) {
		k = len(text)
	}
	out.Column += utf8.RuneCountInString(text[:k])
	out.Length = utf8.RuneCountInString(text[k:])
	out.OriginalText = text[k:]
	return &out
}

func trimWithOffset(s string) (string, int) {
	left := strings.TrimLeftFunc(s, unicode.IsSpace)
	offset := len(s) - len(left)
	return strings.TrimRightFunc(left, unicode.IsSpace), offset
}

// parseStatement dispatches on the leading keyword
func (p *Parser) parseStatement(text string, pos *SourcePosition) (*Node, error) {
	if name, args, ok := splitCall(text); ok {
		return p.parseCall(text, name, args, pos)
	}

	keyword, rest, restAt := splitKeyword(text)
	restPos := shift(pos, text, restAt)

	switch keyword {
	case "say":
		if rest == "" {
			return nil, p.errorf(pos, "say requires a value")
		}
		expr, err := p.parseExpr(rest, restPos)
		if err != nil {
			return nil, err
		}
		return newNode(KindSay, text, pos, expr), nil

	case "remember":
		name, valueText, valueAt := splitKeyword(rest)
		if !isName(name) {
			return nil, p.errorf(restPos, "remember requires a variable name, got %q", name)
		}
		if valueText == "" {
			return nil, p.errorf(restPos, "remember %s requires a value", name)
		}
		expr, err := p.parseExpr(valueText, shift(restPos, rest, valueAt))
		if err != nil {
			return nil, err
		}
		return newNode(KindRemember, text, pos, Token(name), expr), nil

	case "recall", "forget", "typeof", "run_program", "analyze_success", "label_output",
		"rewrite_macro", "suggest_fix", "remember_fix", "apply_fix":
		if !isName(rest) {
			return nil, p.errorf(restPos, "%s requires a single name, got %q", keyword, rest)
		}
		return newNode(nameKinds[keyword], text, pos, Token(rest)), nil

	case "break", "score_thoughts":
		if rest != "" {
			return nil, p.errorf(restPos, "%s takes no arguments", keyword)
		}
		if keyword == "break" {
			return newNode(KindBreak, text, pos), nil
		}
		return newNode(KindScoreThoughts, text, pos), nil

	case "return":
		if rest == "" {
			return newNode(KindReturn, text, pos), nil
		}
		expr, err := p.parseExpr(rest, restPos)
		if err != nil {
			return nil, err
		}
		return newNode(KindReturn, text, pos, expr), nil

	case "if":
		return p.parseIf(text, rest, pos, restPos)

	case "while":
		return p.parseWhile(text, rest, pos, restPos)

	case "define":
		return p.parseDefine(text, rest, pos, restPos)

	case "end":
		switch rest {
		case "":
			return newNode(KindEnd, text, pos), nil
		case "program":
			return newNode(KindEndProgram, text, pos), nil
		}
		return nil, p.errorf(restPos, "expected 'end' or 'end program'")

	case "reflect":
		sub, name, _ := splitKeyword(rest)
		switch {
		case sub == "memory" && name == "":
			return newNode(KindReflectMemory, text, pos), nil
		case sub == "all" && name == "":
			return newNode(KindReflectAll, text, pos), nil
		case sub == "macro" && isName(name):
			return newNode(KindReflectMacro, text, pos, Token(name)), nil
		}
		return nil, p.errorf(restPos, "expected 'reflect memory', 'reflect all' or 'reflect macro NAME'")

	case "identity", "declare", "belief", "intent", "goal", "reason", "evaluate", "adjust",
		"contradiction", "explain":
		if rest == "" {
			return nil, p.errorf(pos, "%s requires text", keyword)
		}
		return newNode(textKinds[keyword], text, pos, Token(unquote(rest))), nil

	case "describe":
		if rest != "self" {
			return nil, p.errorf(restPos, "expected 'describe self'")
		}
		return newNode(KindDescribeSelf, text, pos), nil

	case "ask":
		sub, query, _ := splitKeyword(rest)
		if sub != "self" || query == "" {
			return nil, p.errorf(restPos, "expected 'ask self QUESTION'")
		}
		return newNode(KindAskSelf, text, pos, Token(unquote(query))), nil

	case "resolve":
		if rest != "contradictions" {
			return nil, p.errorf(restPos, "expected 'resolve contradictions'")
		}
		return newNode(KindResolve, text, pos), nil

	case "rule":
		premise, conclusion, ok := strings.Cut(rest, "->")
		premise, conclusion = strings.TrimSpace(premise), strings.TrimSpace(conclusion)
		if !ok || premise == "" || conclusion == "" {
			return nil, p.errorf(restPos, "expected 'rule PREMISE -> CONCLUSION'")
		}
		return newNode(KindRule, text, pos, Token(unquote(premise)), Token(unquote(conclusion))), nil

	case "check_type":
		words := strings.Fields(rest)
		if len(words) != 2 || !isName(words[0]) || !isName(words[1]) {
			return nil, p.errorf(restPos, "expected 'check_type NAME TYPE'")
		}
		return newNode(KindCheckType, text, pos, Token(words[0]), Token(words[1])), nil

	case "remember_program":
		label := strings.TrimSpace(strings.TrimSuffix(rest, ":"))
		if !isName(label) {
			return nil, p.errorf(restPos, "remember_program requires a label, got %q", rest)
		}
		return newNode(KindRememberProgram, text, pos, Token(label)), nil

	case "generate_macro":
		words := strings.Fields(rest)
		if len(words) != 3 || words[1] != "from" || !isName(words[0]) || !isName(words[2]) {
			return nil, p.errorf(restPos, "expected 'generate_macro NAME from LABEL'")
		}
		return newNode(KindGenerateMacro, text, pos, Token(words[0]), Token(words[2])), nil

	case "expect":
		label, valueText, ok := strings.Cut(rest, "=")
		label = strings.TrimSpace(label)
		if !ok || !isName(label) || strings.TrimSpace(valueText) == "" {
			return nil, p.errorf(restPos, "expected 'expect LABEL=VALUE'")
		}
		valueAt := strings.Index(rest, "=") + 1
		trimmedValue, lead := trimWithOffset(valueText)
		expr, err := p.parseExpr(trimmedValue, shift(restPos, rest, valueAt+lead))
		if err != nil {
			return nil, err
		}
		return newNode(KindExpect, text, pos, Token(label), expr), nil
	}

	return nil, p.errorf(pos, "unrecognized statement %q", text)
}

var nameKinds = map[string]Kind{
	"recall":          KindRecall,
	"forget":          KindForget,
	"typeof":          KindTypeOf,
	"run_program":     KindRunProgram,
	"analyze_success": KindAnalyzeSuccess,
	"label_output":    KindLabelOutput,
	"rewrite_macro":   KindRewriteMacro,
	"suggest_fix":     KindSuggestFix,
	"remember_fix":    KindRememberFix,
	"apply_fix":       KindApplyFix,
}

var textKinds = map[string]Kind{
	"identity":      KindIdentity,
	"declare":       KindDeclare,
	"belief":        KindBelief,
	"intent":        KindIntent,
	"goal":          KindGoal,
	"reason":        KindReason,
	"evaluate":      KindEvaluate,
	"adjust":        KindAdjust,
	"contradiction": KindContradiction,
	"explain":       KindExplain,
}

func (p *Parser) parseCall(text, name, args string, pos *SourcePosition) (*Node, error) {
	argsAt := len(name) + 1
	parts, err := splitTopLevel(args, ',')
	if err != nil {
		return nil, p.errorf(pos, "%v", err)
	}
	operands := []Operand{Token(name)}
	offset := argsAt
	for _, part := range parts {
		argText, lead := trimWithOffset(part)
		if argText == "" {
			if len(parts) == 1 {
				break
			}
			return nil, p.errorf(shift(pos, text, offset), "empty argument in call to %s", name)
		}
		expr, err := p.parseExpr(argText, shift(pos, text, offset+lead))
		if err != nil {
			return nil, err
		}
		operands = append(operands, expr)
		offset += len(part) + 1
	}
	return newNode(KindCall, text, pos, operands...), nil
}

func (p *Parser) parseIf(text, rest string, pos, restPos *SourcePosition) (*Node, error) {
	words, err := topLevelWords(rest)
	if err != nil {
		return nil, p.errorf(restPos, "%v", err)
	}
	thenAt, thenEnd := -1, -1
	elseAt, elseEnd := -1, -1
	pending := 0
	for _, w := range words {
		word := rest[w.start:w.end]
		if thenAt < 0 {
			if word == "then" {
				thenAt, thenEnd = w.start, w.end
			}
			continue
		}
		switch word {
		case "if":
			pending++
		case "else":
			if pending > 0 {
				pending--
				continue
			}
			elseAt, elseEnd = w.start, w.end
		}
		if elseAt >= 0 {
			break
		}
	}
	if thenAt < 0 {
		return nil, p.errorf(restPos, "if requires 'then'")
	}
	condText := strings.TrimSpace(rest[:thenAt])
	if condText == "" {
		return nil, p.errorf(restPos, "if requires a condition")
	}
	cond, err := p.parseExpr(condText, restPos)
	if err != nil {
		return nil, err
	}

	thenText := rest[thenEnd:]
	if elseAt >= 0 {
		thenText = rest[thenEnd:elseAt]
	}
	thenBlock, err := p.parseBranch(thenText, shift(restPos, rest, thenEnd))
	if err != nil {
		return nil, err
	}
	if elseAt < 0 {
		return newNode(KindIf, text, pos, cond, thenBlock), nil
	}
	elseBlock, err := p.parseBranch(rest[elseEnd:], shift(restPos, rest, elseEnd))
	if err != nil {
		return nil, err
	}
	return newNode(KindIf, text, pos, cond, thenBlock, elseBlock), nil
}

func (p *Parser) parseWhile(text, rest string, pos, restPos *SourcePosition) (*Node, error) {
	words, err := topLevelWords(rest)
	if err != nil {
		return nil, p.errorf(restPos, "%v", err)
	}
	for _, w := range words {
		if rest[w.start:w.end] != "do" {
			continue
		}
		condText := strings.TrimSpace(rest[:w.start])
		if condText == "" {
			return nil, p.errorf(restPos, "while requires a condition")
		}
		cond, err := p.parseExpr(condText, restPos)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBranch(rest[w.end:], shift(restPos, rest, w.end))
		if err != nil {
			return nil, err
		}
		return newNode(KindWhile, text, pos, cond, body), nil
	}
	return nil, p.errorf(restPos, "while requires 'do'")
}

func (p *Parser) parseDefine(text, rest string, pos, restPos *SourcePosition) (*Node, error) {
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return nil, p.errorf(restPos, "expected 'define NAME(params) as:'")
	}
	name := strings.TrimSpace(rest[:open])
	if !isName(name) {
		return nil, p.errorf(restPos, "invalid macro name %q", name)
	}
	closeAt := matchingClose(rest, open)
	if closeAt < 0 {
		return nil, p.errorf(shift(restPos, rest, open), "unclosed parameter list")
	}
	var params []Operand
	if paramText := strings.TrimSpace(rest[open+1 : closeAt]); paramText != "" {
		seen := make(map[string]bool)
		for _, param := range strings.Split(paramText, ",") {
			param = strings.TrimSpace(param)
			if !isName(param) {
				return nil, p.errorf(shift(restPos, rest, open+1), "invalid parameter name %q", param)
			}
			if seen[param] {
				return nil, p.errorf(shift(restPos, rest, open+1), "duplicate parameter %q", param)
			}
			seen[param] = true
			params = append(params, Token(param))
		}
	}
	paramNode := newNode(KindVector, rest[open:closeAt+1], shift(restPos, rest, open), params...)

	tail, lead := trimWithOffset(rest[closeAt+1:])
	if !strings.HasPrefix(tail, "as:") {
		return nil, p.errorf(shift(restPos, rest, closeAt+1), "expected 'as:' after parameter list")
	}
	bodyAt := closeAt + 1 + lead + len("as:")
	if strings.TrimSpace(rest[bodyAt:]) == "" {
		return newNode(KindFunctionDef, text, pos, Token(name), paramNode), nil
	}
	body, err := p.parseBranch(rest[bodyAt:], shift(restPos, rest, bodyAt))
	if err != nil {
		return nil, err
	}
	return newNode(KindFunctionDef, text, pos, Token(name), paramNode, body), nil
}

// parseBranch parses either a parenthesised ';'-separated block or a
// single statement, always returning a Block.
func (p *Parser) parseBranch(text string, pos *SourcePosition) (Block, error) {
	trimmed, lead := trimWithOffset(text)
	pos = shift(pos, text, lead)
	if trimmed == "" {
		return nil, p.errorf(pos, "missing statement")
	}
	if trimmed[0] == '(' && matchingClose(trimmed, 0) == len(trimmed)-1 {
		inner := trimmed[1 : len(trimmed)-1]
		parts, err := splitTopLevel(inner, ';')
		if err != nil {
			return nil, p.errorf(pos, "%v", err)
		}
		block := Block{}
		offset := 1
		for _, part := range parts {
			stmtText, stmtLead := trimWithOffset(part)
			if stmtText != "" {
				stmt, err := p.parseStatement(stmtText, shift(pos, trimmed, offset+stmtLead))
				if err != nil {
					return nil, err
				}
				block = append(block, stmt)
			}
			offset += len(part) + 1
		}
		return block, nil
	}
	stmt, err := p.parseStatement(trimmed, pos)
	if err != nil {
		return nil, err
	}
	return Block{stmt}, nil
}

// isName reports whether s is an identifier: [A-Za-z_][A-Za-z0-9_]*
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r < utf8.RuneSelf && unicode.IsLetter(r)) {
			continue
		}
		if i > 0 && r < utf8.RuneSelf && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isNumber(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && !strings.ContainsAny(s, "nNiI")
}

// unquote strips one layer of matching double or single quotes
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// splitKeyword splits off the first whitespace-delimited word. restAt is the
// byte offset of rest within text.
func splitKeyword(text string) (keyword, rest string, restAt int) {
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, "", len(text)
	}
	keyword = text[:idx]
	rest, lead := trimWithOffset(text[idx:])
	return keyword, rest, idx + lead
}

// splitCall recognises NAME(args) spanning the whole text
func splitCall(text string) (name, args string, ok bool) {
	open := strings.IndexByte(text, '(')
	if open <= 0 || !isName(text[:open]) {
		return "", "", false
	}
	if matchingClose(text, open) != len(text)-1 {
		return "", "", false
	}
	return text[:open], text[open+1 : len(text)-1], true
}

// matchingClose returns the index of the bracket closing the one at open,
// skipping quoted text and nested brackets, or -1.
func matchingClose(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return i
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}

// splitTopLevel splits s on sep outside quotes and brackets
func splitTopLevel(s string, sep byte) ([]string, error) {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q", c)
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	return append(parts, s[start:]), nil
}

type span struct {
	start, end int
}

// topLevelWords returns the whitespace-separated words of s that sit
// outside quotes and brackets. Bracketed groups are skipped entirely.
func topLevelWords(s string) ([]span, error) {
	var words []span
	depth := 0
	var quote byte
	start := -1
	flush := func(i int) {
		if start >= 0 {
			words = append(words, span{start, i})
			start = -1
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			flush(i)
			quote = c
		case c == '(' || c == '[':
			flush(i)
			depth++
		case c == ')' || c == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q", c)
			}
		case depth == 0 && (c == ' ' || c == '\t'):
			flush(i)
		case depth == 0 && start < 0:
			start = i
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	flush(len(s))
	return words, nil
}
