/*
Package inference learns a deterministic automaton from example traces with the
RPNI (regular positive and negative inference) state-merging strategy.

Learning runs in two phases:

  - BuildPTA folds one linear chain per positive trace into a prefix tree
    acceptor that accepts exactly those traces.
  - RunRPNI generalizes the prefix tree with a red/blue merge search, rejecting
    every merge whose result accepts one of the negative examples.

Both phases are greedy and order-dependent: the same inputs in the same order
always produce the same automaton, but not necessarily the smallest one.
*/
package inference
