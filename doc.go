/*
Package rpni learns deterministic finite automata from examples.

Given positive traces (strings the target language contains) and negative traces
(strings it does not), it builds the prefix tree acceptor of the positive traces
and generalizes it with the Regular Positive and Negative Inference algorithm:
states are merged greedily, in a red/blue order, as long as no negative trace
becomes accepted.

# Usage

	positive := domain.NewExampleSet(
		domain.Example{"a"},
		domain.Example{"a", "a"},
	)
	negative := domain.NewExampleSet(domain.Example{})

	res, err := rpni.New().Learn(positive, negative)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Hypothesis.Accepts(domain.Example{"a", "a", "a"})) // true

Every mutation performed while learning is kept in Result.Log. Result.Player
replays it step by step, and Runner drives such a replay over an io.Reader and
an io.Writer.

# Packages

  - pkg/automaton: the automaton model (merge, merge-out, determinize, traversals).
  - pkg/inference: prefix tree construction, the RPNI search and the consistency test.
  - pkg/journal: operation log and replay.
  - pkg/adapters: trace files and run stores (memory, file, redis) and the HTTP API.
*/
package rpni
