package elan

import "fmt"

// Ledger pairs labelled outputs with expected values. Expectations are
// scored in the order they were first recorded.
type Ledger struct {
	pending    string
	hasPending bool
	outputs    map[string]Value
	expected   map[string]Value
	order      []string
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		outputs:  make(map[string]Value),
		expected: make(map[string]Value),
	}
}

// SetPending marks label to capture the next emitted value
func (l *Ledger) SetPending(label string) {
	l.pending, l.hasPending = label, true
}

// TakePending returns and clears the pending label
func (l *Ledger) TakePending() (string, bool) {
	label, ok := l.pending, l.hasPending
	l.pending, l.hasPending = "", false
	return label, ok
}

// Record stores the latest output for label
func (l *Ledger) Record(label string, value Value) {
	l.outputs[label] = value
}

// Output returns the latest output recorded for label
func (l *Ledger) Output(label string) (Value, bool) {
	v, ok := l.outputs[label]
	return v, ok
}

// Expect sets the expected value for label, replacing any earlier one
func (l *Ledger) Expect(label string, value Value) {
	if _, exists := l.expected[label]; !exists {
		l.order = append(l.order, label)
	}
	l.expected[label] = value
}

// Score is the comparison of one expectation against its output
type Score struct {
	Label    string
	Expected Value
	Actual   Value
	OK       bool
}

func (s Score) String() string {
	if s.OK {
		return fmt.Sprintf("%s: expected %s → OK", s.Label, FormatValue(s.Expected))
	}
	return fmt.Sprintf("%s: expected %s → FAIL (got %s)", s.Label, FormatValue(s.Expected), FormatValue(s.Actual))
}

// Score compares every expectation with the recorded output. A label with
// no output compares as absent.
func (l *Ledger) Score() []Score {
	scores := make([]Score, 0, len(l.order))
	for _, label := range l.order {
		expected := l.expected[label]
		actual := l.outputs[label]
		scores = append(scores, Score{
			Label:    label,
			Expected: expected,
			Actual:   actual,
			OK:       ValuesEqual(actual, expected),
		})
	}
	return scores
}
