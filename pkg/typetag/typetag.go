// Package typetag labels runtime values with coarse type tags. Tags are
// advisory: nothing in the interpreter refuses to run on a mismatch.
package typetag

import (
	"fmt"
	"reflect"
)

// Coarse tags
const (
	Int     = "int"
	Float   = "float"
	String  = "string"
	List    = "list"
	Map     = "map"
	Absent  = "absent"
	Unknown = "unknown"
)

// Mismatch records a failed CheckType
type Mismatch struct {
	Name     string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %s, got %s", m.Name, m.Expected, m.Actual)
}

// Engine remembers the last tag inferred for each name
type Engine struct {
	inferred   map[string]string
	mismatches []Mismatch
}

// New creates an empty engine
func New() *Engine {
	return &Engine{inferred: make(map[string]string)}
}

// InferType tags value and records the tag under name
func (e *Engine) InferType(name string, value interface{}) string {
	tag := Tag(value)
	e.inferred[name] = tag
	return tag
}

// TypeOf returns the last tag recorded for name
func (e *Engine) TypeOf(name string) (string, bool) {
	tag, ok := e.inferred[name]
	return tag, ok
}

// CheckType compares the recorded tag for name against expected, recording
// a mismatch when they differ
func (e *Engine) CheckType(name, expected string) bool {
	actual, ok := e.inferred[name]
	if !ok {
		actual = Unknown
	}
	if actual != expected {
		e.mismatches = append(e.mismatches, Mismatch{Name: name, Expected: expected, Actual: actual})
		return false
	}
	return true
}

// Mismatches returns every failed check in order
func (e *Engine) Mismatches() []Mismatch {
	return append([]Mismatch(nil), e.mismatches...)
}

// Tag returns the coarse tag of a value. Slices of any element type are
// lists; maps are maps.
func Tag(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return Absent
	case int, int32, int64:
		return Int
	case float32, float64:
		return Float
	case string:
		return String
	case []interface{}:
		return List
	case map[string]interface{}:
		return Map
	default:
		return kindTag(v)
	}
}

func kindTag(v interface{}) string {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return List
	case reflect.Map:
		return Map
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.String:
		return String
	}
	return Unknown
}
