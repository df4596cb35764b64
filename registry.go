package elan

// Registry stores recorded programs as already-parsed nodes, so a replay
// never goes back to source text.
type Registry struct {
	programs map[string][]*Node
	order    []string
}

// NewRegistry creates an empty program registry
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string][]*Node)}
}

// Store saves a copy of nodes under label, replacing an earlier recording
func (r *Registry) Store(label string, nodes []*Node) {
	if _, exists := r.programs[label]; !exists {
		r.order = append(r.order, label)
	}
	r.programs[label] = append([]*Node(nil), nodes...)
}

// Get returns the nodes recorded under label
func (r *Registry) Get(label string) ([]*Node, bool) {
	nodes, ok := r.programs[label]
	return nodes, ok
}

// Labels returns program labels in recording order
func (r *Registry) Labels() []string {
	return append([]string(nil), r.order...)
}
