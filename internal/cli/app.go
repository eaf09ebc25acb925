// Package cli wires configuration, logging, stores and rendering for the rpni commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/config"
	"github.com/aretw0/rpni/internal/logging"
	"github.com/aretw0/rpni/internal/presentation/graph"
	"github.com/aretw0/rpni/pkg/adapters/file"
	"github.com/aretw0/rpni/pkg/adapters/memory"
	"github.com/aretw0/rpni/pkg/adapters/redis"
	"github.com/aretw0/rpni/pkg/adapters/tracefile"
	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/layout"
	"github.com/aretw0/rpni/pkg/persistence/middleware"
	"github.com/aretw0/rpni/pkg/ports"
)

// App is the per-invocation context of a command.
type App struct {
	Config config.Config
	Logger *slog.Logger
}

// NewApp loads the configuration at configPath. A non-empty level overrides
// the configured log level.
func NewApp(configPath, level string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if level != "" {
		cfg.Log.Level = level
	}
	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Logger: logging.New(lvl)}, nil
}

// OpenStore builds the configured RunStore, wrapped with call logging.
// The returned function releases it.
func (a *App) OpenStore() (ports.RunStore, func() error, error) {
	var (
		store   ports.RunStore
		closeFn = func() error { return nil }
	)
	sc := a.Config.Store
	switch sc.Backend {
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(sc.Dir)
	case "redis":
		rs := redis.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB,
			redis.WithPrefix(sc.Redis.Prefix),
			redis.WithTTL(sc.Redis.TTL),
		)
		store, closeFn = rs, rs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
	return middleware.Chain(store, middleware.NewLoggingMiddleware(a.Logger)), closeFn, nil
}

// Learner builds a learner that logs through the app logger.
func (a *App) Learner(opts ...rpni.Option) *rpni.Learner {
	return rpni.New(append([]rpni.Option{rpni.WithLogger(a.Logger)}, opts...)...)
}

// LoadTraces reads the positive and negative trace files. Empty paths fall back
// to the configured ones; a missing negative file yields no negative examples.
func (a *App) LoadTraces(positive, negative string) (*domain.ExampleSet, *domain.ExampleSet, error) {
	if positive == "" {
		positive = a.Config.Traces.Positive
	}
	if negative == "" {
		negative = a.Config.Traces.Negative
	}

	pos, err := tracefile.Load(positive)
	if err != nil {
		return nil, nil, err
	}
	neg := domain.NewExampleSet()
	if negative != "-" {
		neg, err = tracefile.Load(negative)
		if err != nil {
			a.Logger.Warn("no negative traces", "path", negative, "error", err)
			neg = domain.NewExampleSet()
		}
	}
	a.Logger.Debug("traces loaded", "positive", pos.Len(), "negative", neg.Len())
	return pos, neg, nil
}

// Render formats an automaton as Mermaid, DOT or JSON. An empty format uses
// the configured one. With relabel, states are renamed to their pre-order
// index on a copy first.
func (a *App) Render(aut *automaton.Automaton, format string, relabel bool) (string, error) {
	if format == "" {
		format = a.Config.Render.Format
	}
	if relabel {
		aut = aut.Clone()
		if _, err := layout.Relabel(aut); err != nil {
			return "", err
		}
	}

	switch format {
	case "mermaid":
		return graph.GenerateMermaid(aut, nil), nil
	case "dot":
		pos, err := layout.Positions(aut, a.Config.Render.Width, a.Config.Render.Height)
		if err != nil {
			return "", err
		}
		return graph.GenerateDOT(aut, pos), nil
	case "json":
		data, err := json.MarshalIndent(aut.Snapshot(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}
