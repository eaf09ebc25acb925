/*
Package automaton implements the finite automaton the learner works on, and its
graph-mutation primitives.

States live in an arena keyed by their identity code (see package identity).
Cloning keeps every code, so a code captured on one automaton designates "the
same logical state" on any of its clones. When a state is merged away its code
stops resolving to a live state, but Resolve still forwards it to the state that
absorbed it.

# Operations

  - Connect, Clone, Union: construction.
  - GoToStart, Feed, IsFinished, Accepts: trace execution.
  - Descendants, Ascendants, Height, Width: cycle-safe traversals.
  - MergeOut, Merge, MergeFrom, Determinize: state merging.
  - Snapshot, FromSnapshot: serialization.
*/
package automaton
