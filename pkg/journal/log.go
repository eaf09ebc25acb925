package journal

import (
	"sync"

	"github.com/aretw0/rpni/pkg/domain"
)

// Log is an append-only operation log.
// Safe for concurrent use.
type Log struct {
	mu  sync.RWMutex
	ops []domain.Operation
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Record implements domain.Recorder.
func (l *Log) Record(op domain.Operation) {
	cp := op
	cp.Codes = append([]domain.Code(nil), op.Codes...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, cp)
}

// Operations returns a copy of the recorded operations.
func (l *Log) Operations() []domain.Operation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Operation, len(l.ops))
	copy(out, l.ops)
	return out
}

// Len returns the number of recorded operations.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ops)
}

// Tee fans an operation out to several recorders. Nil recorders are skipped.
func Tee(recorders ...domain.Recorder) domain.Recorder {
	var live []domain.Recorder
	for _, r := range recorders {
		if r != nil {
			live = append(live, r)
		}
	}
	return domain.RecorderFunc(func(op domain.Operation) {
		for _, r := range live {
			r.Record(op)
		}
	})
}
