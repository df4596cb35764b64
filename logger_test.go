package elan

import (
	"bytes"
	"strings"
	"testing"
)

func newBufferedLogger(enabled bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := NewLogger(enabled)
	l.SetWriters(&out, &errOut)
	return l, &out, &errOut
}

func TestLoggerWarnFormat(t *testing.T) {
	l, out, errOut := newBufferedLogger(false)
	l.WarnCat(CatFlow, "x %d", 1)
	l.Warn("plain")

	if got := errOut.String(); got != "[ELAN:flow WARN] x 1\n[ELAN WARN] plain\n" {
		t.Errorf("warnings = %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("warnings leaked to the output writer: %q", out.String())
	}
}

func TestLoggerDebugGating(t *testing.T) {
	l, out, _ := newBufferedLogger(false)
	l.DebugCat(CatMacro, "hidden")
	if out.Len() != 0 {
		t.Fatalf("debug printed while disabled: %q", out.String())
	}

	l.SetEnabled(true)
	l.DebugCat(CatMacro, "still hidden")
	if out.Len() != 0 {
		t.Fatalf("debug printed for a disabled category: %q", out.String())
	}

	l.EnableCategory(CatMacro)
	l.DebugCat(CatMacro, "hello")
	l.Debug("uncategorized")
	if got := out.String(); got != "[DEBUG:macro] hello\n[DEBUG] uncategorized\n" {
		t.Errorf("debug output = %q", got)
	}

	l.DisableCategory(CatMacro)
	out.Reset()
	l.DebugCat(CatMacro, "gone")
	if out.Len() != 0 {
		t.Errorf("debug printed after DisableCategory: %q", out.String())
	}
}

func TestEnableCategoryNames(t *testing.T) {
	l, _, _ := newBufferedLogger(true)
	unknown := l.EnableCategoryNames([]string{" Macro ", "", "bogus", "flow"})
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Errorf("unknown = %v", unknown)
	}
	if !l.IsCategoryEnabled(CatMacro) || !l.IsCategoryEnabled(CatFlow) {
		t.Error("named categories were not enabled")
	}
	if l.IsCategoryEnabled(CatMath) {
		t.Error("math enabled without being named")
	}

	l.EnableCategoryNames([]string{"all"})
	for _, cat := range AllCategories {
		if !l.IsCategoryEnabled(cat) {
			t.Errorf("%s not enabled by 'all'", cat)
		}
	}
}

func TestLoggerSourceContext(t *testing.T) {
	l, _, errOut := newBufferedLogger(false)
	pos := &SourcePosition{Line: 2, Column: 3, Length: 2, Filename: "f.elan"}
	l.ParseError("bad", pos, []string{"a", "b  xx", "c"})

	got := errOut.String()
	for _, want := range []string{
		"[ELAN:parse ERROR] Parse error: bad",
		"at line 2, column 3 in f.elan",
		">   2 | b  xx",
		"      |   ^^",
		"    1 | a",
		"    3 | c",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestLoggerMacroChain(t *testing.T) {
	l, _, errOut := newBufferedLogger(false)
	pos := &SourcePosition{
		Line:     4,
		Filename: "m.elan",
		MacroContext: &MacroContext{
			MacroName:      "inner",
			DefinitionFile: "m.elan",
			DefinitionLine: 1,
			InvocationFile: "m.elan",
			InvocationLine: 2,
			ParentMacro:    &MacroContext{MacroName: "outer"},
		},
	}
	l.Log(LevelError, CatMacro, "boom", pos, nil)

	got := errOut.String()
	for _, want := range []string{
		"Macro call chain:",
		"  → macro \"inner\"",
		"defined in m.elan:1",
		"called from m.elan:2",
		"    → macro \"outer\"",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestLoggerCommandMessages(t *testing.T) {
	l, _, errOut := newBufferedLogger(false)
	l.CommandError(CatIO, "load", "no such file", nil)
	l.CommandWarning(CatIO, "", "empty file", nil)
	want := "[ELAN:io ERROR] LOAD: no such file\n[ELAN:io WARN] empty file\n"
	if errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}
