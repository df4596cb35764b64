package elan

import "testing"

func TestLedgerPendingIsTakenOnce(t *testing.T) {
	l := NewLedger()
	if _, ok := l.TakePending(); ok {
		t.Fatal("fresh ledger has a pending label")
	}
	l.SetPending("t1")
	if label, ok := l.TakePending(); !ok || label != "t1" {
		t.Errorf("TakePending = %q, %v", label, ok)
	}
	if _, ok := l.TakePending(); ok {
		t.Error("pending label survived TakePending")
	}
}

func TestLedgerScore(t *testing.T) {
	l := NewLedger()
	l.Record("a", int64(10))
	l.Record("b", "x")
	l.Expect("b", "y")
	l.Expect("a", 10.0)
	l.Expect("c", int64(1))
	l.Expect("b", "x")

	scores := l.Score()
	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}
	want := []string{
		"b: expected x → OK",
		"a: expected 10.0 → OK",
		"c: expected 1 → FAIL (got none)",
	}
	for i, s := range scores {
		if s.String() != want[i] {
			t.Errorf("score %d = %q, want %q", i, s, want[i])
		}
	}
}

func TestRegistryStoreCopies(t *testing.T) {
	r := NewRegistry()
	first := parseOne(t, "say 1")
	nodes := []*Node{first}
	r.Store("p", nodes)
	nodes[0] = parseOne(t, "say 2")

	got, ok := r.Get("p")
	if !ok || got[0] != first {
		t.Error("registry shares storage with the recorded slice")
	}

	r.Store("q", nil)
	r.Store("p", nil)
	if labels := r.Labels(); len(labels) != 2 || labels[0] != "p" || labels[1] != "q" {
		t.Errorf("Labels = %v", labels)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) reported ok")
	}
}
