package elan

import (
	"strconv"
	"strings"

	"github.com/phroun/elan/pkg/typetag"
)

// eval evaluates an operand in the current scope
func (e *Executor) eval(op Operand) Value {
	switch v := op.(type) {
	case nil:
		return nil
	case Token:
		return e.resolveToken(string(v))
	case Block:
		return e.executeBlock(v).Value
	case *Node:
		switch v.Kind {
		case KindVector:
			list := make(List, len(v.Operands))
			for i, elem := range v.Operands {
				list[i] = e.eval(elem)
			}
			return list
		case KindBinary:
			return e.arithmetic(v)
		case KindCall:
			return e.call(v)
		}
		return e.execute(v).Value
	}
	return nil
}

// resolveToken tries integer, float and quoted string literals before
// falling back to a variable lookup. An unbound name is absent.
func (e *Executor) resolveToken(tok string) Value {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n
	}
	if isNumber(tok) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return f
		}
	}
	if len(tok) >= 2 && strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) {
		return tok[1 : len(tok)-1]
	}
	if value, ok := e.memory.Recall(tok); ok {
		return value
	}
	if !e.warnedVars[tok] {
		e.warnedVars[tok] = true
		e.warn(CatVariable, nil, "%v: %s", ErrUndefinedVariable, tok)
	}
	return nil
}

// arithmetic applies a binary operator. Two integers stay integral under
// + - *; "/" always divides as float. Two strings concatenate under "+".
func (e *Executor) arithmetic(node *Node) Value {
	op := node.Token(0)
	left := e.eval(node.Operand(1))
	right := e.eval(node.Operand(2))

	if op == "+" {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs
			}
		}
	}

	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		switch op {
		case "+":
			return li + ri
		case "-":
			return li - ri
		case "*":
			return li * ri
		}
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		e.warn(CatMath, node.Position, "%v: cannot apply %s to %s and %s",
			ErrArithmetic, op, typetag.Tag(left), typetag.Tag(right))
		return nil
	}

	switch op {
	case "+":
		return lf + rf
	case "-":
		return lf - rf
	case "*":
		return lf * rf
	case "/":
		if rf == 0 {
			e.warn(CatMath, node.Position, "%v: division by zero in %s", ErrArithmetic, node)
			return nil
		}
		return lf / rf
	}
	e.warn(CatMath, node.Position, "%v: unknown operator %q", ErrArithmetic, op)
	return nil
}
