package selfmodel

import (
	"strings"
	"testing"
)

func TestExplain(t *testing.T) {
	ie := NewInferenceEngine()
	ie.AddBelief("it rains")
	ie.AddRule("it rains", "ground is wet")
	ie.AddRule("ground is wet", "road is slippery")
	ie.AddRule("loop a", "loop b")
	ie.AddRule("loop b", "loop a")

	tests := []struct {
		query string
		want  string
	}{
		{"it rains", "Belief 'it rains' is directly asserted."},
		{"  it rains ", "Belief 'it rains' is directly asserted."},
		{"ground is wet", "'ground is wet' is inferred from 'it rains' via rule."},
		{"road is slippery", "'road is slippery' is inferred via 'it rains' -> 'ground is wet'."},
		{"loop a", "No explanation found for 'loop a'."},
		{"sun shines", "No explanation found for 'sun shines'."},
	}
	for _, tt := range tests {
		if got := ie.Explain(tt.query); got != tt.want {
			t.Errorf("Explain(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestQuantifiers(t *testing.T) {
	ie := NewInferenceEngine()
	hasSky := func(b string) bool { return strings.Contains(b, "sky") }

	if !ie.ForAll(hasSky) {
		t.Error("ForAll over no beliefs should be true")
	}
	if ie.Exists(hasSky) {
		t.Error("Exists over no beliefs should be false")
	}

	ie.AddBelief("sky is blue")
	ie.AddBelief("grass is green")
	if ie.ForAll(hasSky) {
		t.Error("ForAll should fail on 'grass is green'")
	}
	if !ie.Exists(hasSky) {
		t.Error("Exists should find 'sky is blue'")
	}
}
