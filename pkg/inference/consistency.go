package inference

import (
	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
)

// Consistent reports whether a rejects every example of negatives.
// Examples are tried in order and the first accepted one is returned on failure.
func Consistent(a *automaton.Automaton, negatives *domain.ExampleSet) (bool, domain.Example) {
	for _, ex := range negatives.All() {
		if a.Accepts(ex) {
			return false, ex
		}
	}
	return true, nil
}
