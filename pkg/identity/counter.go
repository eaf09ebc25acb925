// Package identity hands out the codes that identify states.
//
// A code is minted once, when a state is created, and is never minted again for
// a clone of that state: cloning duplicates the existing code instead. Cloning
// an automaton of N states therefore leaves the counter exactly where it was,
// which is what allows two automata to be compared state by state after any
// number of clone/merge rounds.
package identity

import (
	"sync/atomic"

	"github.com/aretw0/rpni/pkg/domain"
)

// Counter is a monotonically increasing source of codes.
// Safe for concurrent use.
type Counter struct {
	next atomic.Int64
}

// Default is the process-wide counter used by automata that are not given one.
var Default = &Counter{}

// Allocate mints a new code.
func (c *Counter) Allocate() domain.Code {
	return domain.Code(c.next.Add(1) - 1)
}

// Duplicate returns code unchanged, for a clone of the state that owns it.
// The counter does not move.
func (c *Counter) Duplicate(code domain.Code) domain.Code {
	return code
}

// Peek returns the code the next Allocate will mint.
func (c *Counter) Peek() domain.Code {
	return domain.Code(c.next.Load())
}

// Reserve advances the counter past code, so restored snapshots never collide
// with freshly minted states.
func (c *Counter) Reserve(code domain.Code) {
	for {
		cur := c.next.Load()
		if int64(code) < cur {
			return
		}
		if c.next.CompareAndSwap(cur, int64(code)+1) {
			return
		}
	}
}
