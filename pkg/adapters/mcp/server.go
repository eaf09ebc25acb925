// Package mcp exposes the learner and stored runs as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/presentation/graph"
	"github.com/aretw0/rpni/pkg/adapters/tracefile"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/ports"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const runsURI = "rpni://runs"

// LearnResponse mirrors the HTTP adapter's learn result.
type LearnResponse struct {
	ID         string `json:"id" jsonschema_description:"ID of the stored run"`
	PTAStates  int    `json:"pta_states" jsonschema_description:"States of the prefix tree acceptor"`
	States     int    `json:"states" jsonschema_description:"States of the learned automaton"`
	Operations int    `json:"operations" jsonschema_description:"Length of the operation log"`
	Mermaid    string `json:"mermaid" jsonschema_description:"Mermaid diagram of the learned automaton"`
}

// Verdict is the outcome of one trace.
type Verdict struct {
	Example  string `json:"example"`
	Accepted bool   `json:"accepted"`
}

// AcceptsResponse lists the verdicts in request order.
type AcceptsResponse struct {
	Results []Verdict `json:"results" jsonschema_description:"One verdict per trace"`
}

// RunList holds stored run IDs.
type RunList struct {
	Runs []string `json:"runs"`
}

// Learner defines what the MCP server needs from the learning core.
type Learner interface {
	Learn(positive, negative *domain.ExampleSet) (*rpni.Result, error)
}

// Server wraps a Learner and a RunStore and exposes them as an MCP Server.
type Server struct {
	learner   Learner
	store     ports.RunStore
	logger    *slog.Logger
	mcpServer *server.MCPServer

	newID func() string
	now   func() time.Time
}

// NewServer creates a new MCP Server instance.
func NewServer(learner Learner, store ports.RunStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		learner:   learner,
		store:     store,
		logger:    logger,
		mcpServer: server.NewMCPServer("rpni-mcp", strings.TrimSpace(rpni.Version)),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over Server-Sent Events on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: learn
	learnTool := mcp.NewTool("learn",
		mcp.WithDescription("Learn a deterministic automaton from example traces and store the run."),
		mcp.WithString("positive", mcp.Required(), mcp.Description("Positive traces, one per line, symbols separated by ';'")),
		mcp.WithString("negative", mcp.Description("Negative traces, one per line, symbols separated by ';'")),
		mcp.WithOutputSchema[LearnResponse](),
	)
	s.mcpServer.AddTool(learnTool, mcp.NewStructuredToolHandler(s.handleLearn))

	// TOOL: accepts
	acceptsTool := mcp.NewTool("accepts",
		mcp.WithDescription("Run traces through the automaton learned by a stored run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("ID of the stored run")),
		mcp.WithString("examples", mcp.Required(), mcp.Description("Traces, one per line, symbols separated by ';'")),
		mcp.WithOutputSchema[AcceptsResponse](),
	)
	s.mcpServer.AddTool(acceptsTool, mcp.NewStructuredToolHandler(s.handleAccepts))

	// TOOL: list_runs
	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List the IDs of the stored runs."),
		mcp.WithOutputSchema[RunList](),
	), mcp.NewStructuredToolHandler(s.handleListRuns))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the Mermaid diagram of a stored run's learned automaton."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("ID of the stored run")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := request.GetArguments()["run_id"].(string)
		text, err := s.runGraph(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

// parseTraces splits a multi-line argument into examples. Line endings are
// trimmed by the trace line parser.
func parseTraces(text string) *domain.ExampleSet {
	set := domain.NewExampleSet()
	if text == "" {
		return set
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		set.Add(tracefile.ParseLine(line))
	}
	return set
}

func (s *Server) handleLearn(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (LearnResponse, error) {
	positive, _ := args["positive"].(string)
	negative, _ := args["negative"].(string)

	res, err := s.learner.Learn(parseTraces(positive), parseTraces(negative))
	if err != nil {
		return LearnResponse{}, fmt.Errorf("learn failed: %w", err)
	}
	run := res.Run(s.newID(), s.now())
	if err := s.store.Save(ctx, run); err != nil {
		return LearnResponse{}, fmt.Errorf("save run: %w", err)
	}
	s.logger.Info("MCP: run stored", "run_id", run.ID, "states", res.Hypothesis.Len())

	return LearnResponse{
		ID:         run.ID,
		PTAStates:  res.PTA.Len(),
		States:     res.Hypothesis.Len(),
		Operations: len(run.Log),
		Mermaid:    graph.GenerateMermaid(res.Hypothesis, nil),
	}, nil
}

func (s *Server) handleAccepts(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AcceptsResponse, error) {
	id, _ := args["run_id"].(string)
	examples, _ := args["examples"].(string)

	res, err := s.loadResult(ctx, id)
	if err != nil {
		return AcceptsResponse{}, err
	}
	set := parseTraces(examples)
	resp := AcceptsResponse{Results: make([]Verdict, 0, set.Len())}
	for _, ex := range set.All() {
		resp.Results = append(resp.Results, Verdict{
			Example:  tracefile.FormatLine(ex),
			Accepted: res.Hypothesis.Accepts(ex),
		})
	}
	return resp, nil
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunList, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return RunList{}, fmt.Errorf("list runs: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return RunList{Runs: ids}, nil
}

func (s *Server) loadResult(ctx context.Context, id string) (*rpni.Result, error) {
	if id == "" {
		return nil, errors.New("run_id is required")
	}
	run, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", id, err)
	}
	return rpni.FromRun(run)
}

func (s *Server) runGraph(ctx context.Context, id string) (string, error) {
	res, err := s.loadResult(ctx, id)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(res.Hypothesis, nil), nil
}

func (s *Server) registerResources() {
	// EXPOSE: rpni://runs
	s.mcpServer.AddResource(mcp.NewResource(runsURI, "Stored runs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := s.handleListRuns(ctx, mcp.CallToolRequest{}, nil)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(list)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      runsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: rpni://runs/{id}/graph
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(runsURI+"/{id}/graph", "Run graph",
		mcp.WithTemplateDescription("Mermaid diagram of a stored run's learned automaton"),
		mcp.WithTemplateMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	prefix := runsURI + "/"
	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, "/graph") {
		return nil, fmt.Errorf("unexpected resource URI %q", uri)
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), "/graph")
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("unexpected resource URI %q", uri)
	}
	text, err := s.runGraph(ctx, id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}
