package selfmodel

import (
	"reflect"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	s := New()
	if got := s.Describe(); len(got) != 1 || got[0] != "Identity: ELAN" {
		t.Fatalf("empty Describe = %v", got)
	}

	s.SetIdentity("Nova")
	s.AddGoal("learn")
	s.AddDeclaration("I reflect")
	s.AddGoal("teach")
	s.AddAdjustment("Adjusted: pace")

	want := []string{
		"Identity: Nova",
		"Declarations:",
		"- I reflect",
		"Goals:",
		"- learn",
		"- teach",
		"Adjustments:",
		"- Adjusted: pace",
	}
	if got := s.Describe(); !reflect.DeepEqual(got, want) {
		t.Errorf("Describe =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestAskSelf(t *testing.T) {
	s := New()
	tests := []struct {
		query string
		want  string
	}{
		{"Who are you?", "I am ELAN."},
		{"why do you exist", "Because I am designed to reflect, reason, and learn."},
		{"what are your goals", "I do not yet understand the question."},
		{"hello", "I do not yet understand the question."},
	}
	for _, tt := range tests {
		if got := s.AskSelf(tt.query); len(got) != 1 || got[0] != tt.want {
			t.Errorf("AskSelf(%q) = %v", tt.query, got)
		}
	}

	s.AddGoal("grow")
	got := s.AskSelf("list your goals")
	if !reflect.DeepEqual(got, []string{"My goals:", "- grow"}) {
		t.Errorf("AskSelf(goals) = %v", got)
	}
}

func TestResolveContradictions(t *testing.T) {
	s := New()
	s.AddContradiction("a vs b")
	s.AddContradiction("c vs d")

	got := s.ResolveContradictions()
	want := []string{
		"Resolving contradictions:",
		"- a vs b -> resolved or acknowledged.",
		"- c vs d -> resolved or acknowledged.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveContradictions = %v", got)
	}
	if got := s.ResolveContradictions(); len(got) != 1 || got[0] != "No contradictions detected." {
		t.Errorf("second ResolveContradictions = %v", got)
	}
}

func TestBeliefsIsACopy(t *testing.T) {
	s := New()
	s.AddBelief("water is wet")
	beliefs := s.Beliefs()
	beliefs[0] = "changed"
	if s.Beliefs()[0] != "water is wet" {
		t.Error("Beliefs exposes internal storage")
	}
	if s.Identity() != DefaultIdentity {
		t.Errorf("Identity = %q", s.Identity())
	}
}
