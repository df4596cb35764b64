package typetag

import "testing"

type vector []interface{}

func TestTag(t *testing.T) {
	tests := []struct {
		value interface{}
		want  string
	}{
		{nil, Absent},
		{int64(3), Int},
		{7, Int},
		{uint8(1), Int},
		{2.5, Float},
		{"s", String},
		{[]interface{}{1}, List},
		{vector{1, "a"}, List},
		{[2]int{}, List},
		{map[string]interface{}{}, Map},
		{map[int]bool{}, Map},
		{true, Unknown},
		{struct{}{}, Unknown},
	}
	for _, tt := range tests {
		if got := Tag(tt.value); got != tt.want {
			t.Errorf("Tag(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestEngineCheckType(t *testing.T) {
	e := New()
	if _, ok := e.TypeOf("x"); ok {
		t.Fatal("TypeOf on an empty engine reported ok")
	}

	e.InferType("x", int64(1))
	if !e.CheckType("x", Int) {
		t.Error("CheckType(x, int) failed")
	}
	e.InferType("x", "now a string")
	if tag, _ := e.TypeOf("x"); tag != String {
		t.Errorf("TypeOf(x) = %q after retagging", tag)
	}
	if e.CheckType("x", Int) {
		t.Error("CheckType(x, int) passed for a string")
	}
	if e.CheckType("y", Float) {
		t.Error("CheckType on an untagged name passed")
	}

	mismatches := e.Mismatches()
	if len(mismatches) != 2 {
		t.Fatalf("Mismatches = %v", mismatches)
	}
	if got := mismatches[0].String(); got != "x: expected int, got string" {
		t.Errorf("first mismatch = %q", got)
	}
	if mismatches[1].Actual != Unknown {
		t.Errorf("untagged mismatch Actual = %q", mismatches[1].Actual)
	}
}
