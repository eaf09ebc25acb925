package inference

import (
	"io"
	"log/slog"

	"github.com/aretw0/rpni/pkg/domain"
)

// Option configures BuildPTA and RunRPNI.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	recorder domain.Recorder
}

// WithLogger sets the structured logger (default: discard).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRecorder receives every operation performed while learning, in execution order.
func WithRecorder(r domain.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

func (o *options) record(kind domain.OperationKind, note string, codes ...domain.Code) {
	if o.recorder == nil {
		return
	}
	o.recorder.Record(domain.Operation{Kind: kind, Note: note, Codes: codes})
}
