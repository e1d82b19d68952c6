// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/pandoc-region/internal/engine"
)

// PandocConverter converts text by running the engine at enginePath with
// --from/--to and the input on stdin. It depends on an engine.Runner
// injected at construction time.
type PandocConverter struct {
	runner     engine.Runner
	enginePath string
}

// NewPandocConverter creates a converter that runs enginePath through r.
func NewPandocConverter(r engine.Runner, enginePath string) *PandocConverter {
	return &PandocConverter{runner: r, enginePath: enginePath}
}

// Convert returns the engine's stdout exactly as produced. Format names are
// not checked against the catalog; an unknown name fails in the engine.
func (p *PandocConverter) Convert(ctx context.Context, req Request) (string, error) {
	out, err := p.runner.Run(ctx, p.enginePath, Args(req), req.Input)
	if err != nil {
		return "", fmt.Errorf("converting %s to %s: %w", req.From, req.To, err)
	}
	return out, nil
}
