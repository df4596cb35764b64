package elan

import (
	"fmt"
	"sort"
	"sync"
)

// Frame is a call-scoped set of variable bindings
type Frame map[string]Value

// Memory holds global bindings, the stack of call frames and the macro
// table. Lookup runs innermost frame first, then outer frames, then globals.
type Memory struct {
	mu      sync.RWMutex
	globals Frame
	frames  []Frame
	macros  *MacroTable
	pushes  int
	pops    int
}

// NewMemory creates an empty memory with no active frame
func NewMemory() *Memory {
	return &Memory{
		globals: make(Frame),
		macros:  NewMacroTable(),
	}
}

// PushFrame creates a new empty innermost scope. Every push must be paired
// with exactly one PopFrame.
func (m *Memory) PushFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, make(Frame))
	m.pushes++
}

// PopFrame removes the innermost scope. Popping with no active frame is an
// executor defect and panics with ErrFrameUnderflow.
func (m *Memory) PopFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		panic(fmt.Errorf("%w (pushes=%d, pops=%d)", ErrFrameUnderflow, m.pushes, m.pops))
	}
	m.frames[len(m.frames)-1] = nil
	m.frames = m.frames[:len(m.frames)-1]
	m.pops++
}

// Depth returns the number of active frames
func (m *Memory) Depth() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.frames)
}

// FrameCounts returns how many frames have been pushed and popped so far
func (m *Memory) FrameCounts() (pushes, pops int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pushes, m.pops
}

// Define binds name in the innermost frame, or globally when no frame is
// active
func (m *Memory) Define(name string, value Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.frames); n > 0 {
		m.frames[n-1][name] = value
		return
	}
	m.globals[name] = value
}

// DefineGlobal always binds name in the global scope
func (m *Memory) DefineGlobal(name string, value Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globals[name] = value
}

// Recall looks name up innermost-first. The boolean is false when the name
// is bound nowhere.
func (m *Memory) Recall(name string) (Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.frames) - 1; i >= 0; i-- {
		if v, ok := m.frames[i][name]; ok {
			return v, true
		}
	}
	v, ok := m.globals[name]
	return v, ok
}

// Knows reports whether name is visible from the current scope
func (m *Memory) Knows(name string) bool {
	_, ok := m.Recall(name)
	return ok
}

// Forget removes name from the innermost frame if bound there, otherwise
// from the globals. Outer frames are never touched.
func (m *Memory) Forget(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.frames); n > 0 {
		if _, ok := m.frames[n-1][name]; ok {
			delete(m.frames[n-1], name)
			return true
		}
	}
	if _, ok := m.globals[name]; ok {
		delete(m.globals, name)
		return true
	}
	return false
}

// Snapshot returns a merged copy of every visible binding, inner frames
// overriding outer ones and globals. It does not modify memory.
func (m *Memory) Snapshot() map[string]Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Value, len(m.globals))
	for k, v := range m.globals {
		out[k] = v
	}
	for _, frame := range m.frames {
		for k, v := range frame {
			out[k] = v
		}
	}
	return out
}

// SnapshotKeys returns the names in Snapshot in sorted order
func SnapshotKeys(snapshot map[string]Value) []string {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Macros exposes the macro table
func (m *Memory) Macros() *MacroTable {
	return m.macros
}

// DefineMacro registers a macro; the body slice is copied
func (m *Memory) DefineMacro(name string, params []string, body []*Node, position *SourcePosition) *Macro {
	return m.macros.Define(name, params, body, position)
}

// Macro returns the macro registered under name
func (m *Memory) Macro(name string) (*Macro, bool) {
	return m.macros.Get(name)
}
