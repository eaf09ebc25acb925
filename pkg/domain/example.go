package domain

import "strings"

// Symbol is an opaque label naming a transition.
type Symbol string

// Example is a single trace: a sequence of symbols. The empty Example is the empty string.
type Example []Symbol

// String renders the example as "{a, b, c}".
func (e Example) String() string {
	parts := make([]string, len(e))
	for i, s := range e {
		parts[i] = string(s)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ExampleSet is an ordered collection of examples.
// Order only matters for diagnostics, never for outcomes.
type ExampleSet struct {
	examples []Example
}

// NewExampleSet creates a set holding the given examples in order.
func NewExampleSet(examples ...Example) *ExampleSet {
	set := &ExampleSet{}
	for _, ex := range examples {
		set.Add(ex)
	}
	return set
}

// Add appends a copy of ex to the set.
func (s *ExampleSet) Add(ex Example) {
	cp := make(Example, len(ex))
	copy(cp, ex)
	s.examples = append(s.examples, cp)
}

// All returns the examples in insertion order.
func (s *ExampleSet) All() []Example {
	if s == nil {
		return nil
	}
	return s.examples
}

// Len returns the number of examples.
func (s *ExampleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.examples)
}
