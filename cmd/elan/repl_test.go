package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/phroun/elan"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"say 1", true},
		{"while i do (say i", false},
		{"while i do (say i ; remember i i - 1)", true},
		{"remember v [1, 2", false},
		{`say "a (b"`, true},
		{`say "open`, false},
		{"say 1)", true},
	}
	for _, tt := range tests {
		if got := isComplete(tt.input); got != tt.want {
			t.Errorf("isComplete(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLayoutColumns(t *testing.T) {
	got := layoutColumns([]string{"a", "bb", "ccc"}, 10)
	want := []string{"a    bb", "ccc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layoutColumns = %q, want %q", got, want)
	}

	narrow := layoutColumns([]string{"long", "names"}, 3)
	if len(narrow) != 2 {
		t.Errorf("narrow layout = %q", narrow)
	}
}

func TestReplCommand(t *testing.T) {
	in := elan.New(nil)
	in.SetOutput(io.Discard)
	var out bytes.Buffer

	replCommand(in, ":macros", &out)
	replCommand(in, ":programs", &out)
	if out.String() != "No macros defined.\nNo programs recorded.\n" {
		t.Errorf("empty listings = %q", out.String())
	}

	in.ExecuteLine("define f() as: say 1")
	in.ExecuteLine("remember_program p:")
	in.ExecuteLine("end program")
	out.Reset()
	replCommand(in, ":macros", &out)
	replCommand(in, ":programs", &out)
	if out.String() != "f\np\n" {
		t.Errorf("listings = %q", out.String())
	}

	out.Reset()
	replCommand(in, ":reset", &out)
	if out.String() != "Interpreter reset.\n" || len(in.Macros()) != 0 {
		t.Errorf(":reset output %q, macros %v", out.String(), in.Macros())
	}

	out.Reset()
	replCommand(in, ":frobnicate", &out)
	if out.String() != "Unknown command :frobnicate. Type :help for commands.\n" {
		t.Errorf("unknown command output = %q", out.String())
	}

	out.Reset()
	replCommand(in, ":load", &out)
	if out.String() != "Usage: :load FILE\n" {
		t.Errorf(":load without a file = %q", out.String())
	}

	out.Reset()
	replCommand(in, ":help", &out)
	if !strings.Contains(out.String(), ":programs") {
		t.Errorf("help = %q", out.String())
	}
}

func TestReplLoad(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "lib")
	if err := os.WriteFile(base+".elan", []byte("define twice(n) as: return n * 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	in := elan.New(nil)
	var out bytes.Buffer
	in.SetOutput(&out)
	replCommand(in, ":load "+base, &out)
	if v, _ := in.ExecuteLine("twice(21)"); v != int64(42) {
		t.Errorf("twice(21) = %v after :load", v)
	}
}

func TestFindScriptFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello.elan")
	if err := os.WriteFile(script, []byte("say 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := findScriptFile(script); got != script {
		t.Errorf("exact name = %q", got)
	}
	if got := findScriptFile(filepath.Join(dir, "hello")); got != script {
		t.Errorf("name without extension = %q", got)
	}
	if got := findScriptFile(filepath.Join(dir, "absent")); got != "" {
		t.Errorf("missing script = %q", got)
	}
}

func TestRunFileExitCode(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.elan")
	bad := filepath.Join(dir, "bad.elan")
	if err := os.WriteFile(good, []byte("remember x 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("remember x 1\nnot a statement\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if code := runFile(good, elan.DefaultConfig()); code != 0 {
		t.Errorf("good script exit code = %d", code)
	}
	if code := runFile(bad, elan.DefaultConfig()); code != 1 {
		t.Errorf("script with a parse error exit code = %d", code)
	}
	if code := runFile(filepath.Join(dir, "none.elan"), elan.DefaultConfig()); code != 1 {
		t.Errorf("missing script exit code = %d", code)
	}
}

func TestIsScriptChange(t *testing.T) {
	target := filepath.Join(string(filepath.Separator), "tmp", "x.elan")
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: target, Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: target + ".swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := isScriptChange(tt.ev, target); got != tt.want {
			t.Errorf("isScriptChange(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}
