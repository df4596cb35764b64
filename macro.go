package elan

import (
	"sync"
	"time"
)

// Macro is a named, parameterised statement sequence. The body is a
// snapshot taken at definition time.
type Macro struct {
	Name           string
	Params         []string
	Body           []*Node
	DefinitionFile string
	DefinitionLine int
	Timestamp      time.Time
}

// MacroTable stores macros by name, remembering definition order so
// reflection output is deterministic
type MacroTable struct {
	mu     sync.RWMutex
	macros map[string]*Macro
	order  []string
}

// NewMacroTable creates an empty macro table
func NewMacroTable() *MacroTable {
	return &MacroTable{
		macros: make(map[string]*Macro),
	}
}

// Define registers (or replaces) a macro. Params and body are copied, so
// later changes to the caller's slices do not reach the macro.
func (mt *MacroTable) Define(name string, params []string, body []*Node, position *SourcePosition) *Macro {
	macro := &Macro{
		Name:      name,
		Params:    append([]string(nil), params...),
		Body:      append([]*Node(nil), body...),
		Timestamp: time.Now(),
	}
	if position != nil {
		macro.DefinitionFile = position.Filename
		macro.DefinitionLine = position.Line
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()
	if _, exists := mt.macros[name]; !exists {
		mt.order = append(mt.order, name)
	}
	mt.macros[name] = macro
	return macro
}

// Get returns the macro registered under name
func (mt *MacroTable) Get(name string) (*Macro, bool) {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	macro, ok := mt.macros[name]
	return macro, ok
}

// Names returns macro names in definition order
func (mt *MacroTable) Names() []string {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return append([]string(nil), mt.order...)
}
