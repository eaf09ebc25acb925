package inference

import (
	"fmt"
	"slices"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
)

// RunRPNI generalizes pta under the constraint that no example of negatives is accepted.
//
// The search keeps an ordered list of red (confirmed) states, seeded with the
// start state, and a FIFO queue of blue (frontier) states, seeded with the
// start state's children. Each blue state is tried against every red state in
// list order: the current hypothesis is cloned, the pair merged, the clone
// determinized and checked against negatives. The first consistent clone
// replaces the hypothesis, its merged state moves to the front of the red list
// and its non-red children join the queue. If no red state accepts the blue
// one, the blue state is promoted to red instead.
//
// pta is left untouched. The returned automaton is a new hypothesis.
func RunRPNI(pta *automaton.Automaton, negatives *domain.ExampleSet, opts ...Option) (*automaton.Automaton, error) {
	o := newOptions(opts)

	current := pta.Clone()
	if o.recorder != nil {
		current.SetRecorder(o.recorder)
	}

	start, err := current.Start()
	if err != nil {
		return nil, fmt.Errorf("rpni: %w", err)
	}
	if ok, ex := Consistent(current, negatives); !ok {
		o.logger.Warn("prefix tree accepts a negative example", "example", ex.String())
	}

	if err := promote(current, start, o); err != nil {
		return nil, err
	}
	red := []domain.Code{start}
	blue, err := markBlue(current, start, red, o)
	if err != nil {
		return nil, err
	}

	for len(blue) > 0 {
		head := blue[0]
		blue = blue[1:]

		sBlue, err := current.Resolve(head)
		if err != nil {
			return nil, fmt.Errorf("rpni: blue state: %w", err)
		}
		if slices.Contains(red, sBlue) {
			// Already folded into a red state by an earlier merge.
			continue
		}

		merged := false
		for _, sRed := range slices.Clone(red) {
			o.logger.Debug("merging", "red", sRed, "blue", sBlue)

			hyp := current.Clone()
			if err := hyp.Merge(sRed, sBlue); err != nil {
				return nil, fmt.Errorf("rpni: merge %d into %d: %w", sBlue, sRed, err)
			}
			if err := hyp.Determinize(); err != nil {
				return nil, fmt.Errorf("rpni: merge %d into %d: %w", sBlue, sRed, err)
			}
			ns, err := hyp.Resolve(sRed)
			if err != nil {
				return nil, fmt.Errorf("rpni: merged state: %w", err)
			}

			if ok, ex := Consistent(hyp, negatives); !ok {
				o.logger.Debug("hypothesis rejected", "red", sRed, "blue", sBlue, "example", ex.String())
				o.record(domain.OpRollback, fmt.Sprintf("Example %s was accepted, rollback", ex), sRed, sBlue)
				continue
			}

			o.record(domain.OpCommit, fmt.Sprintf("Merged %d into %d", sBlue, sRed), ns)
			o.logger.Debug("merge committed", "red", sRed, "blue", sBlue, "state", ns, "states", hyp.Len())
			current = hyp
			red, err = reorderRed(current, red, sRed, ns)
			if err != nil {
				return nil, err
			}
			if st, err := current.State(ns); err == nil {
				st.Blue = false
			}
			children, err := markBlue(current, ns, red, o)
			if err != nil {
				return nil, err
			}
			blue = append(blue, children...)
			merged = true
			break
		}

		if merged {
			continue
		}

		if err := promote(current, sBlue, o); err != nil {
			return nil, err
		}
		red = append(red, sBlue)
		o.logger.Debug("state promoted to red", "state", sBlue, "red", len(red))
		children, err := markBlue(current, sBlue, red, o)
		if err != nil {
			return nil, err
		}
		blue = append(blue, children...)
	}

	o.logger.Debug("rpni finished", "states", current.Len(), "red", len(red))
	return current, nil
}

// reorderRed puts ns at the front of the red list in place of sRed. Other red
// entries are re-resolved, since determinize may have folded some of them.
func reorderRed(a *automaton.Automaton, red []domain.Code, sRed, ns domain.Code) ([]domain.Code, error) {
	out := []domain.Code{ns}
	for _, r := range red {
		if r == sRed {
			continue
		}
		live, err := a.Resolve(r)
		if err != nil {
			return nil, fmt.Errorf("rpni: red state: %w", err)
		}
		if !slices.Contains(out, live) {
			out = append(out, live)
		}
	}
	return out, nil
}

func promote(a *automaton.Automaton, code domain.Code, o *options) error {
	st, err := a.State(code)
	if err != nil {
		return fmt.Errorf("rpni: promote: %w", err)
	}
	st.Red = true
	st.Blue = false
	o.record(domain.OpPromoteRed, fmt.Sprintf("State %s is red", st.DisplayName()), code)
	return nil
}

// markBlue flags the children of parent that are not red and returns them in order.
func markBlue(a *automaton.Automaton, parent domain.Code, red []domain.Code, o *options) ([]domain.Code, error) {
	var out []domain.Code
	for _, child := range a.Children(parent) {
		if slices.Contains(red, child) {
			continue
		}
		st, err := a.State(child)
		if err != nil {
			return nil, fmt.Errorf("rpni: mark blue: %w", err)
		}
		st.Blue = true
		out = append(out, child)
	}
	o.record(domain.OpMarkBlue, fmt.Sprintf("Children of %d are blue", parent), parent)
	return out, nil
}
