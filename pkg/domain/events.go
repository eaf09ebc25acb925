package domain

// OperationKind defines the category of a recorded operation.
type OperationKind string

const (
	OpMergeOut     OperationKind = "merge_out"     // Codes: [target, absorbed]
	OpMerge        OperationKind = "merge"         // Codes: [red, blue]
	OpDeterminize  OperationKind = "determinize"   // Codes: [start]
	OpRollback     OperationKind = "rollback"      // discard the working hypothesis
	OpCommit       OperationKind = "commit"        // the working hypothesis becomes current
	OpPromoteRed   OperationKind = "promote_red"   // Codes: [state]
	OpMarkBlue     OperationKind = "mark_blue"     // Codes: [parent]
	OpResolveStart OperationKind = "resolve_start" // re-scan for the flagged start state
)

// Operation is a discrete, replayable record of one mutation performed while learning.
type Operation struct {
	Kind  OperationKind `json:"kind"`
	Note  string        `json:"note"`
	Codes []Code        `json:"codes,omitempty"`
}

// Recorder receives operations in execution order.
type Recorder interface {
	Record(op Operation)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(op Operation)

// Record implements Recorder.
func (f RecorderFunc) Record(op Operation) {
	f(op)
}
