package elan

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// newTestInterpreter returns an interpreter writing into buffers
func newTestInterpreter(config *Config) (*Interpreter, *bytes.Buffer, *bytes.Buffer) {
	in := New(config)
	var out, errOut bytes.Buffer
	in.SetOutput(&out)
	in.SetErrorOutput(&errOut)
	return in, &out, &errOut
}

// runScript executes script and returns emitted output and diagnostics
func runScript(t *testing.T, script string) (string, string, *Interpreter) {
	t.Helper()
	in, out, errOut := newTestInterpreter(nil)
	if err := in.Execute(script); err != nil {
		t.Fatalf("Execute failed: %v\ndiagnostics:\n%s", err, errOut.String())
	}
	return out.String(), errOut.String(), in
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestExecuteSkipsUnparsableLines(t *testing.T) {
	in, out, errOut := newTestInterpreter(nil)
	err := in.Execute("say 1\nthis is not elan\nsay 2")

	if !errors.Is(err, ErrParseMismatch) {
		t.Errorf("Execute error = %v, want ErrParseMismatch", err)
	}
	if got := out.String(); got != lines("1", "2") {
		t.Errorf("output = %q", got)
	}
	if diag := errOut.String(); !strings.Contains(diag, "Parse error") || !strings.Contains(diag, "line 2") {
		t.Errorf("diagnostics missing parse error: %q", diag)
	}
}

func TestExecuteFileReportsFilename(t *testing.T) {
	in, _, errOut := newTestInterpreter(nil)
	_ = in.ExecuteFile("say 1\nsay (", "demo.elan")
	if !strings.Contains(errOut.String(), "demo.elan") {
		t.Errorf("diagnostic does not name the file: %q", errOut.String())
	}
}

func TestExecuteLine(t *testing.T) {
	in, out, _ := newTestInterpreter(nil)

	if _, ok := in.ExecuteLine("remember x 2"); !ok {
		t.Fatal("remember failed to parse")
	}
	v, ok := in.ExecuteLine("say x * 3")
	if !ok || v != int64(6) {
		t.Errorf("say x * 3 = %v, %v", v, ok)
	}
	if out.String() != "6\n" {
		t.Errorf("output = %q", out.String())
	}
	if _, ok := in.ExecuteLine("bogus bogus"); ok {
		t.Error("bogus line reported as parsed")
	}
}

func TestExecuteLineMultiLineDefine(t *testing.T) {
	in, _, _ := newTestInterpreter(nil)

	in.ExecuteLine("define inc(a) as:")
	if !in.Pending() {
		t.Fatal("open definition should leave the interpreter pending")
	}
	in.ExecuteLine("return a + 1")
	in.ExecuteLine("end")
	if in.Pending() {
		t.Fatal("'end' should close the definition")
	}

	v, _ := in.ExecuteLine("inc(1)")
	if v != int64(2) {
		t.Errorf("inc(1) = %v, want 2", v)
	}
	if names := in.Macros(); len(names) != 1 || names[0] != "inc" {
		t.Errorf("Macros = %v", names)
	}
}

func TestUnclosedBlocksAreReported(t *testing.T) {
	_, diag, in := runScript(t, lines("remember_program p:", "say 1"))
	if !strings.Contains(diag, "never closed") {
		t.Errorf("missing warning for open recording: %q", diag)
	}
	if len(in.Programs()) != 0 {
		t.Errorf("unclosed recording was stored: %v", in.Programs())
	}
	if in.Pending() {
		t.Error("interpreter still pending after the run")
	}
}

func TestReset(t *testing.T) {
	_, _, in := runScript(t, lines(
		"remember x 1",
		"define f() as: say 1",
		"remember_program p:",
		"say 2",
		"end program",
	))
	in.Reset()

	if in.Memory().Knows("x") {
		t.Error("variable survived Reset")
	}
	if len(in.Macros()) != 0 || len(in.Programs()) != 0 {
		t.Errorf("macros %v / programs %v survived Reset", in.Macros(), in.Programs())
	}

	var out bytes.Buffer
	in.SetOutput(&out)
	in.ExecuteLine("say 5")
	if out.String() != "5\n" {
		t.Errorf("output after Reset = %q", out.String())
	}
}

func TestUnknownLogCategoryIsReported(t *testing.T) {
	config := DefaultConfig()
	config.LogCategories = []string{"macro", "nonsense"}
	in := New(config)
	if !in.Logger().IsCategoryEnabled(CatMacro) {
		t.Error("macro category not enabled")
	}
	if in.Logger().IsCategoryEnabled(CatFlow) {
		t.Error("flow category enabled without being asked for")
	}
}
