// Package selfmodel accumulates the free-form statements an ELAN script
// makes about itself and answers canned introspective questions.
package selfmodel

import "strings"

// DefaultIdentity is the identity reported before any identity statement
const DefaultIdentity = "ELAN"

// SelfModel collects identity, declarations, beliefs and the rest of the
// introspective record of one run.
type SelfModel struct {
	identity       string
	declarations   []string
	beliefs        []string
	intents        []string
	goals          []string
	reasons        []string
	evaluations    []string
	adjustments    []string
	contradictions []string
}

// New creates a self-model with the default identity
func New() *SelfModel {
	return &SelfModel{identity: DefaultIdentity}
}

func (s *SelfModel) SetIdentity(text string)   { s.identity = text }
func (s *SelfModel) Identity() string          { return s.identity }
func (s *SelfModel) AddDeclaration(text string) { s.declarations = append(s.declarations, text) }
func (s *SelfModel) AddBelief(text string)      { s.beliefs = append(s.beliefs, text) }
func (s *SelfModel) AddIntent(text string)      { s.intents = append(s.intents, text) }
func (s *SelfModel) AddGoal(text string)        { s.goals = append(s.goals, text) }
func (s *SelfModel) AddReason(text string)      { s.reasons = append(s.reasons, text) }
func (s *SelfModel) AddEvaluation(text string)  { s.evaluations = append(s.evaluations, text) }
func (s *SelfModel) AddAdjustment(text string)  { s.adjustments = append(s.adjustments, text) }
func (s *SelfModel) AddContradiction(note string) {
	s.contradictions = append(s.contradictions, note)
}

// Beliefs returns a copy of the recorded beliefs
func (s *SelfModel) Beliefs() []string {
	return append([]string(nil), s.beliefs...)
}

// ResolveContradictions acknowledges and clears every recorded contradiction
func (s *SelfModel) ResolveContradictions() []string {
	if len(s.contradictions) == 0 {
		return []string{"No contradictions detected."}
	}
	lines := []string{"Resolving contradictions:"}
	for _, c := range s.contradictions {
		lines = append(lines, "- "+c+" -> resolved or acknowledged.")
	}
	s.contradictions = nil
	return lines
}

// Describe lists the identity followed by each non-empty section
func (s *SelfModel) Describe() []string {
	lines := []string{"Identity: " + s.identity}
	sections := []struct {
		title string
		items []string
	}{
		{"Declarations", s.declarations},
		{"Beliefs", s.beliefs},
		{"Intents", s.intents},
		{"Goals", s.goals},
		{"Reasons", s.reasons},
		{"Evaluations", s.evaluations},
		{"Adjustments", s.adjustments},
	}
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		lines = append(lines, section.title+":")
		for _, item := range section.items {
			lines = append(lines, "- "+item)
		}
	}
	return lines
}

// AskSelf answers an introspective question
func (s *SelfModel) AskSelf(query string) []string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "why"):
		return []string{"Because I am designed to reflect, reason, and learn."}
	case strings.Contains(q, "who"):
		return []string{"I am " + s.identity + "."}
	case strings.Contains(q, "goal") && len(s.goals) > 0:
		return append([]string{"My goals:"}, prefixed(s.goals)...)
	}
	return []string{"I do not yet understand the question."}
}

func prefixed(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return out
}
