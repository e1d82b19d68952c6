// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog discovers which input and output formats the conversion
// engine supports and keeps the result for the rest of the session.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/pdiddy/pandoc-region/internal/engine"
)

const (
	argListInput  = "--list-input-formats"
	argListOutput = "--list-output-formats"
)

// Catalog holds the format identifiers the engine reported, in the order it
// listed them. Membership is what matters; order only feeds pickers.
type Catalog struct {
	Input  []string `json:"input" yaml:"input"`
	Output []string `json:"output" yaml:"output"`
}

// Empty reports whether neither list has any entry.
func (c Catalog) Empty() bool {
	return len(c.Input) == 0 && len(c.Output) == 0
}

// SupportsInput reports whether format was listed as an input format.
func (c Catalog) SupportsInput(format string) bool {
	return lo.Contains(c.Input, format)
}

// SupportsOutput reports whether format was listed as an output format.
func (c Catalog) SupportsOutput(format string) bool {
	return lo.Contains(c.Output, format)
}

// ParseFormats turns newline-delimited engine output into an ordered list of
// identifiers. Lines are trimmed, blank lines dropped, repeats removed.
func ParseFormats(out string) []string {
	lines := lo.Map(strings.Split(out, "\n"), func(line string, _ int) string {
		return strings.TrimSpace(line)
	})
	return lo.Uniq(lo.Compact(lines))
}

// Store owns the session catalog. Refresh is the only way to change it.
type Store struct {
	mu      sync.RWMutex
	current Catalog
	loaded  bool
}

// NewStore returns a Store holding an empty catalog.
func NewStore() *Store {
	return &Store{}
}

// Current returns the stored catalog. It is empty until the first
// successful refresh.
func (s *Store) Current() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loaded reports whether a refresh has ever succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Refresh asks the engine for both format lists and replaces the stored
// catalog with them. If either call fails the stored catalog is left as it
// was.
func (s *Store) Refresh(ctx context.Context, r engine.Runner, enginePath string) (Catalog, error) {
	in, err := r.Run(ctx, enginePath, []string{argListInput}, "")
	if err != nil {
		return Catalog{}, fmt.Errorf("listing input formats: %w", err)
	}
	out, err := r.Run(ctx, enginePath, []string{argListOutput}, "")
	if err != nil {
		return Catalog{}, fmt.Errorf("listing output formats: %w", err)
	}

	c := Catalog{
		Input:  ParseFormats(in),
		Output: ParseFormats(out),
	}

	s.mu.Lock()
	s.current = c
	s.loaded = true
	s.mu.Unlock()
	return c, nil
}

// Ensure refreshes the catalog only if nothing has been loaded yet and
// returns whatever is stored afterwards. A failed first refresh returns the
// empty catalog together with the error.
func (s *Store) Ensure(ctx context.Context, r engine.Runner, enginePath string) (Catalog, error) {
	if s.Loaded() {
		return s.Current(), nil
	}
	if _, err := s.Refresh(ctx, r, enginePath); err != nil {
		return s.Current(), err
	}
	return s.Current(), nil
}
