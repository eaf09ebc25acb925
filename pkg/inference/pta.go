package inference

import (
	"fmt"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
)

// Chain builds the linear automaton of one trace: a start state, one state per
// symbol, and the last state accepting. The empty trace yields a single state
// that is both start and accepting.
func Chain(ex domain.Example, opts ...automaton.Option) (*automaton.Automaton, error) {
	a := automaton.New(opts...)
	prev := a.NewState()
	if err := a.SetStart(prev); err != nil {
		return nil, err
	}
	for _, sym := range ex {
		next := a.NewState()
		if err := a.Connect(prev, next, sym); err != nil {
			return nil, err
		}
		prev = next
	}
	last, err := a.State(prev)
	if err != nil {
		return nil, err
	}
	last.Accepting = true
	return a, nil
}

// Chains builds one chain per example of set, in order.
func Chains(set *domain.ExampleSet, opts ...automaton.Option) ([]*automaton.Automaton, error) {
	out := make([]*automaton.Automaton, 0, set.Len())
	for _, ex := range set.All() {
		c, err := Chain(ex, opts...)
		if err != nil {
			return nil, fmt.Errorf("chain %s: %w", ex, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// BuildPTA folds chains into a prefix tree acceptor.
//
// The first chain is the running reference. Every following chain has its start
// state merged out into the reference's start state, then the reference is
// determinized. The chains are consumed: the first one becomes the result and
// the others lose their start state.
func BuildPTA(chains []*automaton.Automaton, opts ...Option) (*automaton.Automaton, error) {
	if len(chains) == 0 {
		return nil, domain.ErrNoTraces
	}
	o := newOptions(opts)

	ref := chains[0]
	if o.recorder != nil {
		ref.SetRecorder(o.recorder)
	}

	for i, next := range chains[1:] {
		f1, err := ref.Start()
		if err != nil {
			return nil, fmt.Errorf("prefix tree: %w", err)
		}
		f2, err := next.Start()
		if err != nil {
			return nil, fmt.Errorf("trace %d: %w", i+1, err)
		}
		if err := ref.MergeOut(f1, f2, next); err != nil {
			return nil, fmt.Errorf("fold trace %d: %w", i+1, err)
		}
		if err := ref.Determinize(); err != nil {
			return nil, fmt.Errorf("fold trace %d: %w", i+1, err)
		}
	}

	if err := ref.ResolveStart(); err != nil {
		return nil, fmt.Errorf("prefix tree: %w", err)
	}

	o.logger.Debug("prefix tree built", "traces", len(chains), "states", ref.Len())
	return ref, nil
}
