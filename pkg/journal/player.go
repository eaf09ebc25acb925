package journal

import (
	"errors"
	"fmt"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
)

// ErrNoMoreSteps is returned when stepping past either end of the log.
var ErrNoMoreSteps = errors.New("no more steps")

// Player rebuilds the automaton of every step of a log.
//
// It keeps a working automaton and a checkpoint: merges apply to the working
// automaton, a rollback restores it from the checkpoint, and commits as well as
// blue marking move the checkpoint forward.
type Player struct {
	initial *automaton.Automaton
	ops     []domain.Operation

	current    *automaton.Automaton
	checkpoint *automaton.Automaton
	index      int
}

// NewPlayer creates a player positioned before the first operation.
// initial is cloned and never modified.
func NewPlayer(initial *automaton.Automaton, ops []domain.Operation) *Player {
	p := &Player{
		initial: initial.Clone(),
		ops:     ops,
	}
	p.reset()
	return p
}

func (p *Player) reset() {
	p.current = p.initial.Clone()
	p.current.SetRecorder(nil)
	p.checkpoint = p.current.Clone()
	p.index = 0
}

// HasNext reports whether an operation remains to be applied.
func (p *Player) HasNext() bool {
	return p.index < len(p.ops)
}

// HasPrev reports whether at least one operation has been applied.
func (p *Player) HasPrev() bool {
	return p.index > 0
}

// Index returns the number of operations applied so far.
func (p *Player) Index() int {
	return p.index
}

// Len returns the number of operations in the log.
func (p *Player) Len() int {
	return len(p.ops)
}

// Operations returns the replayed log.
func (p *Player) Operations() []domain.Operation {
	return p.ops
}

// Peek returns the next operation without applying it.
func (p *Player) Peek() (domain.Operation, bool) {
	if !p.HasNext() {
		return domain.Operation{}, false
	}
	return p.ops[p.index], true
}

// Current returns a clone of the automaton at the current step.
func (p *Player) Current() *automaton.Automaton {
	return p.current.Clone()
}

// Next applies the next operation and returns the resulting automaton.
func (p *Player) Next() (*automaton.Automaton, error) {
	if !p.HasNext() {
		return nil, ErrNoMoreSteps
	}
	op := p.ops[p.index]
	if err := p.apply(op); err != nil {
		return nil, fmt.Errorf("step %d (%s): %w", p.index, op.Kind, err)
	}
	p.index++
	return p.Current(), nil
}

// Prev steps back by one operation. The automaton is recomputed from the
// beginning of the log.
func (p *Player) Prev() (*automaton.Automaton, error) {
	if !p.HasPrev() {
		return nil, ErrNoMoreSteps
	}
	return p.Seek(p.index - 1)
}

// Seek recomputes the automaton after the first n operations.
func (p *Player) Seek(n int) (*automaton.Automaton, error) {
	if n < 0 || n > len(p.ops) {
		return nil, fmt.Errorf("%w: %d", ErrNoMoreSteps, n)
	}
	p.reset()
	for p.index < n {
		if _, err := p.Next(); err != nil {
			return nil, err
		}
	}
	return p.Current(), nil
}

func (p *Player) apply(op domain.Operation) error {
	switch op.Kind {
	case domain.OpMergeOut:
		if len(op.Codes) < 2 {
			return errMissingCodes
		}
		return p.current.MergeOut(op.Codes[0], op.Codes[1], p.current)
	case domain.OpMerge:
		if len(op.Codes) < 2 {
			return errMissingCodes
		}
		return p.current.Merge(op.Codes[0], op.Codes[1])
	case domain.OpDeterminize:
		// The merges it performed follow as merge_out operations.
		return nil
	case domain.OpRollback:
		p.current = p.checkpoint.Clone()
	case domain.OpCommit:
		p.checkpoint = p.current.Clone()
	case domain.OpPromoteRed:
		if len(op.Codes) < 1 {
			return errMissingCodes
		}
		st, err := p.current.State(op.Codes[0])
		if err != nil {
			return err
		}
		st.Red = true
		st.Blue = false
	case domain.OpMarkBlue:
		if len(op.Codes) < 1 {
			return errMissingCodes
		}
		for _, child := range p.current.Children(op.Codes[0]) {
			st, err := p.current.State(child)
			if err != nil {
				return err
			}
			if !st.Red {
				st.Blue = true
			}
		}
		p.checkpoint = p.current.Clone()
	case domain.OpResolveStart:
		return p.current.ResolveStart()
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
	return nil
}

var errMissingCodes = errors.New("operation is missing state codes")
