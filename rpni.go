package rpni

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/rpni/internal/metrics"
	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/identity"
	"github.com/aretw0/rpni/pkg/inference"
	"github.com/aretw0/rpni/pkg/journal"
	"github.com/aretw0/rpni/pkg/layout"
)

// Version is the release of the library and the CLI.
const Version = "0.3.0"

// Learner is the high-level entry point of the library.
// It turns positive and negative examples into a learned automaton.
type Learner struct {
	logger    *slog.Logger
	recorders []domain.Recorder
	metrics   *metrics.Collector
	counter   *identity.Counter
}

// Option defines a functional option for configuring the Learner.
type Option func(*Learner)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Learner) {
		l.logger = logger
	}
}

// WithRecorder adds a recorder that receives every operation of every run.
func WithRecorder(r domain.Recorder) Option {
	return func(l *Learner) {
		l.recorders = append(l.recorders, r)
	}
}

// WithMetrics feeds a Prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Learner) {
		l.metrics = c
	}
}

// WithCounter sets the identity counter states are minted from (default: identity.Default).
func WithCounter(c *identity.Counter) Option {
	return func(l *Learner) {
		l.counter = c
	}
}

// New creates a Learner.
func New(opts ...Option) *Learner {
	l := &Learner{
		counter: identity.Default,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// Result holds every stage of a learning run.
type Result struct {
	// Chains is the union of the trace chains, the automaton Log replays from.
	Chains     *automaton.Automaton
	PTA        *automaton.Automaton
	Hypothesis *automaton.Automaton
	Log        []domain.Operation

	Positive int
	Negative int
}

// Learn builds the prefix tree acceptor of positive and generalizes it with
// RPNI so that no example of negative is accepted.
func (l *Learner) Learn(positive, negative *domain.ExampleSet) (*Result, error) {
	if positive.Len() == 0 {
		return nil, domain.ErrNoTraces
	}

	chains, err := inference.Chains(positive, automaton.WithCounter(l.counter))
	if err != nil {
		return nil, err
	}
	union := automaton.Union(chains...)
	if _, err := layout.Relabel(union); err != nil {
		return nil, fmt.Errorf("label chains: %w", err)
	}
	for _, c := range chains {
		for _, code := range c.Codes() {
			labeled, err := union.State(code)
			if err != nil {
				return nil, err
			}
			st, err := c.State(code)
			if err != nil {
				return nil, err
			}
			st.Label = labeled.Label
		}
	}

	log := journal.NewLog()
	recorders := append([]domain.Recorder{log}, l.recorders...)
	if l.metrics != nil {
		recorders = append(recorders, l.metrics)
	}
	opts := []inference.Option{
		inference.WithLogger(l.logger),
		inference.WithRecorder(journal.Tee(recorders...)),
	}

	start := time.Now()
	pta, err := inference.BuildPTA(chains, opts...)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("prefix tree ready", "traces", positive.Len(), "states", pta.Len())

	h, err := inference.RunRPNI(pta, negative, opts...)
	if err != nil {
		return nil, err
	}
	pta.SetRecorder(nil)
	h.SetRecorder(nil)

	if l.metrics != nil {
		l.metrics.ObserveRun(h.Len())
	}
	l.logger.Info("automaton learned",
		"positive", positive.Len(),
		"negative", negative.Len(),
		"pta_states", pta.Len(),
		"states", h.Len(),
		"operations", log.Len(),
		"duration", time.Since(start),
	)

	return &Result{
		Chains:     union,
		PTA:        pta,
		Hypothesis: h,
		Log:        log.Operations(),
		Positive:   positive.Len(),
		Negative:   negative.Len(),
	}, nil
}

// Player replays the run from the trace chains.
func (r *Result) Player() *journal.Player {
	return journal.NewPlayer(r.Chains, r.Log)
}

// Run converts the result into its persisted form.
func (r *Result) Run(id string, createdAt time.Time) *domain.Run {
	return &domain.Run{
		ID:         id,
		CreatedAt:  createdAt,
		Positive:   r.Positive,
		Negative:   r.Negative,
		Initial:    r.Chains.Snapshot(),
		PTA:        r.PTA.Snapshot(),
		Hypothesis: r.Hypothesis.Snapshot(),
		Log:        r.Log,
	}
}

// FromRun restores a persisted run. The three automata share a fresh identity
// counter, so their codes can be compared with each other.
func FromRun(run *domain.Run) (*Result, error) {
	ids := &identity.Counter{}
	initial, err := automaton.FromSnapshot(run.Initial, automaton.WithCounter(ids))
	if err != nil {
		return nil, fmt.Errorf("restore initial automaton: %w", err)
	}
	pta, err := automaton.FromSnapshot(run.PTA, automaton.WithCounter(ids))
	if err != nil {
		return nil, fmt.Errorf("restore prefix tree: %w", err)
	}
	h, err := automaton.FromSnapshot(run.Hypothesis, automaton.WithCounter(ids))
	if err != nil {
		return nil, fmt.Errorf("restore hypothesis: %w", err)
	}
	return &Result{
		Chains:     initial,
		PTA:        pta,
		Hypothesis: h,
		Log:        run.Log,
		Positive:   run.Positive,
		Negative:   run.Negative,
	}, nil
}
