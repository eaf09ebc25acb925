/*
Package domain contains the core domain models of the RPNI learner.

It defines the vocabulary shared by the automaton, the inference algorithms and
the adapters: states and their identity codes, transitions, example traces and
the operation records emitted while learning. This package is kept pure and
free of external dependencies like I/O or persistence.

# Key Entities

  - State: An identity-bearing node with start, accepting, red and blue flags.
  - Transition: A (symbol, target code) pair attached to a source state.
  - ExampleSet: An ordered collection of symbol sequences.
  - Operation: A replayable record of one mutation performed while learning.
  - Run: The persisted outcome of a learning run (PTA, hypothesis and log).
*/
package domain
