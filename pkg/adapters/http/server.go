package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/presentation/graph"
	"github.com/aretw0/rpni/pkg/adapters/tracefile"
	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/layout"
	"github.com/aretw0/rpni/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Learner defines what the server needs from the learning core.
type Learner interface {
	Learn(positive, negative *domain.ExampleSet) (*rpni.Result, error)
}

// Server exposes learning runs over HTTP.
type Server struct {
	Learner Learner
	Store   ports.RunStore
	Logger  *slog.Logger

	spec     *openapi3.T
	gatherer prometheus.Gatherer
	newID    func() string
	now      func() time.Time
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics exposes the gatherer at GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithIDGenerator replaces the random run IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(learner Learner, store ports.RunStore, opts ...Option) http.Handler {
	s := &Server{
		Learner: learner,
		Store:   store,
		Logger:  slog.Default(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if doc, err := LoadSpec(); err != nil {
		s.Logger.Error("request validation disabled", "error", err)
	} else {
		s.spec = doc
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", serveSpec)
	r.Post("/learn", s.Learn)
	r.Get("/runs", s.ListRuns)
	r.Route("/runs/{id}", func(r chi.Router) {
		r.Get("/", s.GetRun)
		r.Delete("/", s.DeleteRun)
		r.Get("/graph", s.GetGraph)
		r.Post("/accepts", s.Accepts)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LearnRequest carries traces in the trace file line format ("a;b").
type LearnRequest struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// LearnResponse summarizes a stored run.
type LearnResponse struct {
	ID         string          `json:"id"`
	PTAStates  int             `json:"pta_states"`
	States     int             `json:"states"`
	Operations int             `json:"operations"`
	Hypothesis domain.Snapshot `json:"hypothesis"`
}

// AcceptsRequest lists the traces to test against a learned automaton.
type AcceptsRequest struct {
	Examples []string `json:"examples"`
}

// Verdict is the outcome of one trace.
type Verdict struct {
	Example  string `json:"example"`
	Accepted bool   `json:"accepted"`
}

// AcceptsResponse lists the verdicts in request order.
type AcceptsResponse struct {
	Results []Verdict `json:"results"`
}

func parseLines(lines []string) *domain.ExampleSet {
	set := domain.NewExampleSet()
	for _, l := range lines {
		set.Add(tracefile.ParseLine(l))
	}
	return set
}

// Learn handles POST /learn.
func (s *Server) Learn(w http.ResponseWriter, r *http.Request) {
	var body LearnRequest
	if err := s.decodeBody(r, "LearnRequest", &body); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Learn: Invalid request body", "error", err)
		return
	}

	res, err := s.Learner.Learn(parseLines(body.Positive), parseLines(body.Negative))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoTraces) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Learn error: %v", err), status)
		s.Logger.Error("Learn failed", "error", err)
		return
	}

	run := res.Run(s.newID(), s.now())
	if err := s.Store.Save(r.Context(), run); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		s.Logger.Error("Learn: save failed", "error", err, "run_id", run.ID)
		return
	}
	s.Logger.Info("run stored", "run_id", run.ID, "states", res.Hypothesis.Len())

	writeJSON(w, http.StatusCreated, LearnResponse{
		ID:         run.ID,
		PTAStates:  res.PTA.Len(),
		States:     res.Hypothesis.Len(),
		Operations: len(run.Log),
		Hypothesis: run.Hypothesis,
	}, s.Logger)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids}, s.Logger)
}

// loadRun writes the error response itself and returns nil when the run is unavailable.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) *domain.Run {
	id, err := runID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	run, err := s.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return nil
		}
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		s.Logger.Error("load run failed", "error", err, "run_id", id)
		return nil
	}
	return run
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if run := s.loadRun(w, r); run != nil {
		writeJSON(w, http.StatusOK, run, s.Logger)
	}
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := runID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		s.Logger.Error("DeleteRun failed", "error", err, "run_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /runs/{id}/graph?format=mermaid|dot&stage=hypothesis|pta|initial.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	params, err := bindGraphParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	run := s.loadRun(w, r)
	if run == nil {
		return
	}

	res, err := rpni.FromRun(run)
	if err != nil {
		http.Error(w, "Corrupted run", http.StatusInternalServerError)
		s.Logger.Error("GetGraph: restore failed", "error", err, "run_id", run.ID)
		return
	}

	var a *automaton.Automaton
	switch stage := deref(params.Stage); stage {
	case "", "hypothesis":
		a = res.Hypothesis
	case "pta":
		a = res.PTA
	case "initial":
		a = res.Chains
	default:
		http.Error(w, fmt.Sprintf("Unknown stage %q", stage), http.StatusBadRequest)
		return
	}

	switch format := deref(params.Format); format {
	case "", "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, graph.GenerateMermaid(a, nil))
	case "dot":
		pos, err := layout.Positions(a, 1200, 800)
		if err != nil {
			s.Logger.Debug("GetGraph: no layout", "error", err, "run_id", run.ID)
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		fmt.Fprint(w, graph.GenerateDOT(a, pos))
	default:
		http.Error(w, fmt.Sprintf("Unknown format %q", format), http.StatusBadRequest)
	}
}

// Accepts handles POST /runs/{id}/accepts.
func (s *Server) Accepts(w http.ResponseWriter, r *http.Request) {
	var body AcceptsRequest
	if err := s.decodeBody(r, "AcceptsRequest", &body); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Accepts: Invalid request body", "error", err)
		return
	}

	run := s.loadRun(w, r)
	if run == nil {
		return
	}
	res, err := rpni.FromRun(run)
	if err != nil {
		http.Error(w, "Corrupted run", http.StatusInternalServerError)
		s.Logger.Error("Accepts: restore failed", "error", err, "run_id", run.ID)
		return
	}

	resp := AcceptsResponse{Results: make([]Verdict, 0, len(body.Examples))}
	for _, line := range body.Examples {
		resp.Results = append(resp.Results, Verdict{
			Example:  line,
			Accepted: res.Hypothesis.Accepts(tracefile.ParseLine(line)),
		})
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
