/*
Package ports defines the driven ports (interfaces) of the learner.

These interfaces decouple learning from the places its results are kept, so the
CLI and the HTTP server can work with several storage backends.

# Key Interfaces

  - RunStore: persists learning runs (traces counts, prefix tree, hypothesis and operation log).
*/
package ports
