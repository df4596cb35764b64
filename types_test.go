package elan

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{nil, "none"},
		{int64(-3), "-3"},
		{2.0, "2.0"},
		{3.5, "3.5"},
		{1e21, "1e+21"},
		{"text", "text"},
		{List{int64(1), "a", nil, List{}}, "[1, a, none, []]"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	truthy := []Value{int64(1), int64(-1), 0.1, "x", List{nil}}
	falsy := []Value{nil, int64(0), 0.0, "", List{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%#v) = false", v)
		}
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%#v) = true", v)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{int64(2), 2.0, true},
		{int64(2), int64(3), false},
		{int64(1), "1", false},
		{"a", "a", true},
		{nil, nil, true},
		{nil, int64(0), false},
		{List{int64(1), "x"}, List{1.0, "x"}, true},
		{List{int64(1)}, List{int64(1), int64(2)}, false},
		{List{}, nil, false},
	}
	for _, tt := range tests {
		if got := ValuesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("ValuesEqual(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestConfigNormalized(t *testing.T) {
	c := (&Config{MaxLoopIterations: -1, ContextLines: -5}).normalized()
	if c.MaxLoopIterations != DefaultMaxLoopIterations || c.MaxCallDepth != DefaultMaxCallDepth {
		t.Errorf("limits = %d, %d", c.MaxLoopIterations, c.MaxCallDepth)
	}
	if c.ContextLines != 0 {
		t.Errorf("ContextLines = %d, want 0", c.ContextLines)
	}
}
