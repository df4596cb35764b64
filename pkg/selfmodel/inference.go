package selfmodel

import (
	"fmt"
	"strings"
)

// Rule is an implication: when Premise is believed, Conclusion follows.
type Rule struct {
	Premise    string
	Conclusion string
}

// InferenceEngine answers questions over a belief list and a rule list
type InferenceEngine struct {
	beliefs []string
	rules   []Rule
}

// NewInferenceEngine creates an empty engine
func NewInferenceEngine() *InferenceEngine {
	return &InferenceEngine{}
}

func (ie *InferenceEngine) AddBelief(proposition string) {
	ie.beliefs = append(ie.beliefs, proposition)
}

func (ie *InferenceEngine) AddRule(premise, conclusion string) {
	ie.rules = append(ie.rules, Rule{Premise: premise, Conclusion: conclusion})
}

func (ie *InferenceEngine) believes(p string) bool {
	for _, b := range ie.beliefs {
		if b == p {
			return true
		}
	}
	return false
}

// Explain reports whether query is asserted directly or follows from a
// believed premise. Chains of rules are followed; each proposition is
// visited at most once.
func (ie *InferenceEngine) Explain(query string) string {
	query = strings.TrimSpace(query)
	if ie.believes(query) {
		return fmt.Sprintf("Belief '%s' is directly asserted.", query)
	}
	if chain := ie.derive(query, map[string]bool{}); chain != nil {
		if len(chain) == 1 {
			return fmt.Sprintf("'%s' is inferred from '%s' via rule.", query, chain[0])
		}
		return fmt.Sprintf("'%s' is inferred via %s.", query, strings.Join(quoteAll(chain), " -> "))
	}
	return fmt.Sprintf("No explanation found for '%s'.", query)
}

// derive returns the premises leading to query, starting from a belief
func (ie *InferenceEngine) derive(query string, visited map[string]bool) []string {
	if visited[query] {
		return nil
	}
	visited[query] = true
	for _, rule := range ie.rules {
		if rule.Conclusion != query {
			continue
		}
		if ie.believes(rule.Premise) {
			return []string{rule.Premise}
		}
		if chain := ie.derive(rule.Premise, visited); chain != nil {
			return append(chain, rule.Premise)
		}
	}
	return nil
}

// ForAll reports whether every belief satisfies cond
func (ie *InferenceEngine) ForAll(cond func(string) bool) bool {
	for _, b := range ie.beliefs {
		if !cond(b) {
			return false
		}
	}
	return true
}

// Exists reports whether some belief satisfies cond
func (ie *InferenceEngine) Exists(cond func(string) bool) bool {
	for _, b := range ie.beliefs {
		if cond(b) {
			return true
		}
	}
	return false
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "'" + item + "'"
	}
	return out
}
