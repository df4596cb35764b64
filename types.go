package elan

import (
	"fmt"
	"strconv"
	"strings"
)

// SourcePosition tracks the position of code in source files
type SourcePosition struct {
	Line         int
	Column       int
	Length       int
	OriginalText string
	Filename     string
	MacroContext *MacroContext
}

// MacroContext tracks the macro invocation chain for error reporting
type MacroContext struct {
	MacroName      string
	DefinitionFile string
	DefinitionLine int
	InvocationFile string
	InvocationLine int
	ParentMacro    *MacroContext
}

// Config holds configuration for the interpreter
type Config struct {
	Debug             bool
	LogCategories     []string
	MaxLoopIterations int
	MaxCallDepth      int
	ShowErrorContext  bool
	ContextLines      int
}

// Default limits. A while loop runs its body at most DefaultMaxLoopIterations
// times; calls and program replays nest at most DefaultMaxCallDepth deep.
const (
	DefaultMaxLoopIterations = 10000
	DefaultMaxCallDepth      = 256
)

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		MaxLoopIterations: DefaultMaxLoopIterations,
		MaxCallDepth:      DefaultMaxCallDepth,
		ShowErrorContext:  true,
		ContextLines:      2,
	}
}

// normalized fills zero limits with defaults.
func (c *Config) normalized() *Config {
	out := *c
	if out.MaxLoopIterations <= 0 {
		out.MaxLoopIterations = DefaultMaxLoopIterations
	}
	if out.MaxCallDepth <= 0 {
		out.MaxCallDepth = DefaultMaxCallDepth
	}
	if out.ContextLines < 0 {
		out.ContextLines = 0
	}
	return &out
}

// Value is a runtime value: nil (absent), int64, float64, string or List.
type Value interface{}

// List is the value produced by a vector literal.
type List []Value

// String renders the list the way say prints it
func (l List) String() string {
	parts := make([]string, len(l))
	for i, item := range l {
		parts[i] = FormatValue(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatValue renders a value for output. Absent renders as "none"; floats
// always carry a fractional part so they stay distinguishable from integers.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case nil:
		return "none"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		s := strconv.FormatFloat(val, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case string:
		return val
	case List:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Truthy reports whether a value counts as true in a condition:
// non-zero numbers, non-empty strings and lists.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case List:
		return len(val) > 0
	default:
		return true
	}
}

// ValuesEqual compares two values. Integers and floats compare numerically;
// lists compare element-wise.
func ValuesEqual(a, b Value) bool {
	if an, ok := toFloat(a); ok {
		if bn, ok := toFloat(b); ok {
			return an == bn
		}
		return false
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func toFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}
