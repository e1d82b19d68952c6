// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the state one host process shares across
// conversions: the engine path, the runner and the format catalog.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/pandoc-region/internal/catalog"
	"github.com/pdiddy/pandoc-region/internal/convert"
	"github.com/pdiddy/pandoc-region/internal/engine"
	"github.com/pdiddy/pandoc-region/internal/workflow"
	"github.com/pdiddy/pandoc-region/pkg/types"
)

// Runner is the engine runner a session needs: it can run the engine and
// resolve where it lives.
type Runner interface {
	engine.Runner
	Resolve(command string) (string, error)
}

// Session is created once per host process. Its engine path is fixed at
// construction.
type Session struct {
	cfg      types.Config
	runner   Runner
	catalogs *catalog.Store
	log      *slog.Logger
}

// New creates a session for cfg running the engine through r.
func New(cfg types.Config, r Runner, log *slog.Logger) *Session {
	return &Session{
		cfg:      cfg,
		runner:   r,
		catalogs: catalog.NewStore(),
		log:      log,
	}
}

// FromConfig creates a session backed by a real process runner.
func FromConfig(cfg types.Config, log *slog.Logger) *Session {
	r := engine.NewRunner(engine.WithTimeout(cfg.Timeout), engine.WithLogger(log))
	return New(cfg, r, log)
}

// EnginePath returns the configured engine command.
func (s *Session) EnginePath() string { return s.cfg.Engine }

// Status describes the engine found by Verify.
type Status struct {
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version" yaml:"version"`
}

// Verify checks that the engine can be located and run.
func (s *Session) Verify(ctx context.Context) (Status, error) {
	path, err := s.runner.Resolve(s.cfg.Engine)
	if err != nil {
		return Status{}, err
	}
	v, err := engine.Version(ctx, s.runner, s.cfg.Engine)
	if err != nil {
		return Status{}, fmt.Errorf("checking %s: %w", s.cfg.Engine, err)
	}
	s.log.Debug("engine verified", "path", path, "version", v)
	return Status{Path: path, Version: v}, nil
}

// Catalog returns the session catalog, loading it on first use.
func (s *Session) Catalog(ctx context.Context) (catalog.Catalog, error) {
	return s.catalogs.Ensure(ctx, s.runner, s.cfg.Engine)
}

// RefreshCatalog reloads the catalog from the engine. On failure the
// previous catalog stays in place.
func (s *Session) RefreshCatalog(ctx context.Context) (catalog.Catalog, error) {
	c, err := s.catalogs.Refresh(ctx, s.runner, s.cfg.Engine)
	if err != nil {
		s.log.Warn("catalog refresh failed", "error", err)
		return s.catalogs.Current(), err
	}
	s.log.Debug("catalog refreshed", "inputs", len(c.Input), "outputs", len(c.Output))
	return c, nil
}

// Converter returns a converter bound to the session engine.
func (s *Session) Converter() *convert.PandocConverter {
	return convert.NewPandocConverter(s.runner, s.cfg.Engine)
}

// Workflow wires a selection workflow for host onto the session.
func (s *Session) Workflow(host workflow.Host) *workflow.Workflow {
	return workflow.New(host, s.Converter(), s,
		workflow.WithFallback(s.cfg.Fallback),
		workflow.WithCommands(s.cfg.Commands),
		workflow.WithLogger(s.log),
	)
}

// Start verifies the engine and reports a failure through host. It is
// called once when a host comes up; the session stays usable either way.
func (s *Session) Start(ctx context.Context, host workflow.Host) (Status, bool) {
	st, err := s.Verify(ctx)
	if err != nil {
		s.log.Warn("engine unavailable", "engine", s.cfg.Engine, "error", err)
		host.ReportError(err.Error())
		return Status{}, false
	}
	return st, true
}
