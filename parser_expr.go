package elan

import (
	"strings"
)

type exprItemKind int

const (
	itemAtom exprItemKind = iota
	itemString
	itemOp
	itemOpen
	itemClose
	itemVector
	itemCall
)

type exprItem struct {
	kind  exprItemKind
	text  string
	name  string // itemCall
	inner string // itemVector, itemCall
	at    int
}

// lexExpr splits an expression into atoms, operators, parentheses,
// vector literals and calls.
func (p *Parser) lexExpr(text string, pos *SourcePosition) ([]exprItem, error) {
	var items []exprItem
	atomStart := -1
	flushAtom := func(end int) {
		if atomStart < 0 {
			return
		}
		raw := text[atomStart:end]
		trimmed, lead := trimWithOffset(raw)
		if trimmed != "" {
			items = append(items, exprItem{kind: itemAtom, text: trimmed, at: atomStart + lead})
		}
		atomStart = -1
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '"', '\'':
			flushAtom(i)
			end := strings.IndexByte(text[i+1:], c)
			if end < 0 {
				return nil, p.errorf(shift(pos, text, i), "unterminated string")
			}
			end += i + 1
			items = append(items, exprItem{kind: itemString, text: text[i+1 : end], at: i})
			i = end

		case '[':
			flushAtom(i)
			end := matchingClose(text, i)
			if end < 0 {
				return nil, p.errorf(shift(pos, text, i), "unclosed vector literal")
			}
			items = append(items, exprItem{kind: itemVector, text: text[i : end+1], inner: text[i+1 : end], at: i})
			i = end

		case '(':
			end := matchingClose(text, i)
			if end < 0 {
				return nil, p.errorf(shift(pos, text, i), "unclosed '('")
			}
			// NAME( with no space in between is a call
			if atomStart >= 0 && isName(text[atomStart:i]) {
				items = append(items, exprItem{
					kind:  itemCall,
					text:  text[atomStart : end+1],
					name:  text[atomStart:i],
					inner: text[i+1 : end],
					at:    atomStart,
				})
				atomStart = -1
				i = end
				continue
			}
			flushAtom(i)
			items = append(items, exprItem{kind: itemOpen, text: "(", at: i})

		case ')':
			flushAtom(i)
			items = append(items, exprItem{kind: itemClose, text: ")", at: i})

		case ']':
			return nil, p.errorf(shift(pos, text, i), "unexpected ']'")

		case ',':
			return nil, p.errorf(shift(pos, text, i), "unexpected ','")

		case '+', '-', '*', '/':
			// keep the sign of an exponent inside a numeric literal: 1e-5
			if (c == '+' || c == '-') && atomStart >= 0 {
				soFar := strings.TrimSpace(text[atomStart:i])
				if len(soFar) > 1 && (soFar[len(soFar)-1] == 'e' || soFar[len(soFar)-1] == 'E') &&
					isNumber(soFar[:len(soFar)-1]) && i+1 < len(text) && text[i+1] >= '0' && text[i+1] <= '9' {
					continue
				}
			}
			flushAtom(i)
			items = append(items, exprItem{kind: itemOp, text: string(c), at: i})

		default:
			if atomStart < 0 {
				if c == ' ' || c == '\t' {
					continue
				}
				atomStart = i
			}
		}
	}
	flushAtom(len(text))
	return items, nil
}

type exprParser struct {
	p     *Parser
	text  string
	pos   *SourcePosition
	items []exprItem
	next  int
}

// parseExpr parses a value-position expression
func (p *Parser) parseExpr(text string, pos *SourcePosition) (Operand, error) {
	items, err := p.lexExpr(text, pos)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, p.errorf(pos, "missing value")
	}
	ep := &exprParser{p: p, text: text, pos: pos, items: items}
	op, err := ep.parseSum()
	if err != nil {
		return nil, err
	}
	if ep.next < len(ep.items) {
		item := ep.items[ep.next]
		return nil, p.errorf(shift(pos, text, item.at), "unexpected %q", item.text)
	}
	return op, nil
}

func (ep *exprParser) peekOp(ops string) (string, bool) {
	if ep.next >= len(ep.items) {
		return "", false
	}
	item := ep.items[ep.next]
	if item.kind == itemOp && strings.Contains(ops, item.text) {
		return item.text, true
	}
	return "", false
}

func (ep *exprParser) parseSum() (Operand, error) {
	left, err := ep.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ep.peekOp("+-")
		if !ok {
			return left, nil
		}
		ep.next++
		right, err := ep.parseProduct()
		if err != nil {
			return nil, err
		}
		left = ep.binary(op, left, right)
	}
}

func (ep *exprParser) parseProduct() (Operand, error) {
	left, err := ep.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ep.peekOp("*/")
		if !ok {
			return left, nil
		}
		ep.next++
		right, err := ep.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ep.binary(op, left, right)
	}
}

func (ep *exprParser) parseUnary() (Operand, error) {
	if _, ok := ep.peekOp("-"); ok {
		ep.next++
		operand, err := ep.parseUnary()
		if err != nil {
			return nil, err
		}
		if tok, ok := operand.(Token); ok && isNumber(string(tok)) {
			if strings.HasPrefix(string(tok), "-") {
				return Token(strings.TrimPrefix(string(tok), "-")), nil
			}
			return Token("-" + string(tok)), nil
		}
		return ep.binary("-", Token("0"), operand), nil
	}
	return ep.parsePrimary()
}

func (ep *exprParser) parsePrimary() (Operand, error) {
	if ep.next >= len(ep.items) {
		return nil, ep.p.errorf(shift(ep.pos, ep.text, len(ep.text)), "missing operand")
	}
	item := ep.items[ep.next]
	ep.next++
	itemPos := shift(ep.pos, ep.text, item.at)

	switch item.kind {
	case itemAtom:
		return Token(item.text), nil
	case itemString:
		return Token(`"` + item.text + `"`), nil
	case itemVector:
		return ep.p.parseVector(item.text, item.inner, itemPos)
	case itemCall:
		return ep.p.parseCall(item.text, item.name, item.inner, itemPos)
	case itemOpen:
		inner, err := ep.parseSum()
		if err != nil {
			return nil, err
		}
		if ep.next >= len(ep.items) || ep.items[ep.next].kind != itemClose {
			return nil, ep.p.errorf(itemPos, "missing ')'")
		}
		ep.next++
		return inner, nil
	}
	return nil, ep.p.errorf(itemPos, "unexpected %q", item.text)
}

func (ep *exprParser) binary(op string, left, right Operand) *Node {
	text := operandText(left, op, false) + " " + op + " " + operandText(right, op, true)
	return newNode(KindBinary, text, ep.pos, Token(op), left, right)
}

func (p *Parser) parseVector(text, inner string, pos *SourcePosition) (*Node, error) {
	var elements []Operand
	if strings.TrimSpace(inner) != "" {
		parts, err := splitTopLevel(inner, ',')
		if err != nil {
			return nil, p.errorf(pos, "%v", err)
		}
		offset := 1
		for _, part := range parts {
			elemText, lead := trimWithOffset(part)
			if elemText == "" {
				return nil, p.errorf(shift(pos, text, offset), "empty vector element")
			}
			elem, err := p.parseExpr(elemText, shift(pos, text, offset+lead))
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			offset += len(part) + 1
		}
	}
	return newNode(KindVector, text, pos, elements...), nil
}

func precedence(op string) int {
	if op == "*" || op == "/" {
		return 2
	}
	return 1
}

// operandText renders an operand inside a binary expression, adding
// parentheses where the tree would otherwise read differently.
func operandText(op Operand, parentOp string, right bool) string {
	switch v := op.(type) {
	case Token:
		return string(v)
	case *Node:
		if v.Kind == KindBinary {
			child := v.Token(0)
			if precedence(child) < precedence(parentOp) || (right && precedence(child) == precedence(parentOp)) {
				return "(" + v.Text + ")"
			}
		}
		return v.Text
	}
	return ""
}
