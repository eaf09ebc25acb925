/*
Package journal records the operations performed while learning and replays them.

A Log is a domain.Recorder that keeps every operation in order. A Player starts
from the union of the positive trace chains and re-applies the log one operation
at a time, which is all a step-through visualization needs to know.
*/
package journal
