// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow converts the active selection of an editing host in place.
// One invocation reads the selection, hands it to the converter and replaces
// exactly that range with the result, or reports why it could not.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pdiddy/pandoc-region/internal/catalog"
	"github.com/pdiddy/pandoc-region/internal/convert"
	"github.com/pdiddy/pandoc-region/pkg/types"
)

var (
	// ErrEditRejected reports that the host refused the replacement edit.
	ErrEditRejected = errors.New("editor rejected the replacement")

	// ErrBusy reports that a conversion is already running on the document.
	ErrBusy = errors.New("a conversion is already running on this document")
)

// Catalogs supplies the format catalog used to populate pickers.
type Catalogs interface {
	Catalog(ctx context.Context) (catalog.Catalog, error)
}

// Workflow runs selection conversions against one host.
type Workflow struct {
	host     Host
	conv     convert.Converter
	formats  Catalogs
	fallback types.FormatPair
	pairs    []types.FormatPair
	log      *slog.Logger
	busy     *guard
}

// guard tracks documents with a conversion in progress.
type guard struct {
	mu   sync.Mutex
	docs map[string]struct{}
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithFallback sets the pair used when the user cancels a picker.
func WithFallback(p types.FormatPair) Option {
	return func(w *Workflow) { w.fallback = p }
}

// WithCommands adds fixed-pair actions on top of types.DefaultCommands.
func WithCommands(pairs []types.FormatPair) Option {
	return func(w *Workflow) { w.pairs = append(w.pairs, pairs...) }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Workflow) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a Workflow driving host.
func New(host Host, conv convert.Converter, formats Catalogs, opts ...Option) *Workflow {
	w := &Workflow{
		host:     host,
		conv:     conv,
		formats:  formats,
		fallback: types.DefaultFallback,
		pairs:    append([]types.FormatPair(nil), types.DefaultCommands...),
		log:      slog.New(slog.DiscardHandler),
		busy:     &guard{docs: make(map[string]struct{})},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.pairs = lo.UniqBy(w.pairs, types.FormatPair.Name)
	return w
}

// On returns a copy of w that drives host instead. Copies share the
// per-document in-flight set, so a document busy through one host is busy
// through all of them.
func (w *Workflow) On(host Host) *Workflow {
	c := *w
	c.host = host
	return &c
}

// ConvertSelection converts the active selection from one format to another
// and replaces it in place. Having no active selection, or an empty one, is
// a silent no-op. Every other failure is reported through the host and
// leaves the document untouched.
func (w *Workflow) ConvertSelection(ctx context.Context, from, to string) {
	log := w.log.With("invocation", uuid.NewString(), "from", from, "to", to)

	sel, ok := w.host.ActiveSelection()
	if !ok {
		log.Debug("no active document")
		return
	}
	if sel.Range.Empty() {
		log.Debug("empty selection")
		return
	}

	doc := sel.Document.ID()
	if !w.acquire(doc) {
		w.fail(log, fmt.Errorf("%w: %s", ErrBusy, doc))
		return
	}
	defer w.release(doc)

	if err := w.replace(ctx, sel, from, to); err != nil {
		w.fail(log, err)
		return
	}
	log.Info("selection converted", "document", doc)
}

func (w *Workflow) replace(ctx context.Context, sel Selection, from, to string) error {
	text, err := w.host.Text(sel.Document, sel.Range)
	if err != nil {
		return fmt.Errorf("reading selection: %w", err)
	}

	out, err := w.conv.Convert(ctx, convert.Request{From: from, To: to, Input: text})
	if err != nil {
		return err
	}

	if err := w.host.Replace(sel.Document, sel.Range, out); err != nil {
		return fmt.Errorf("%w: %w", ErrEditRejected, err)
	}
	return nil
}

// PromptAndConvert asks for the source and target formats, then converts the
// selection. A cancelled picker falls back to the configured pair.
func (w *Workflow) PromptAndConvert(ctx context.Context) {
	if !w.hasSelection() {
		return
	}
	cat, ok := w.catalog(ctx)
	if !ok {
		return
	}

	from, ok := w.host.Choose(ctx, "Convert from", cat.Input)
	if !ok {
		from = w.fallback.From
	}
	to, ok := w.host.Choose(ctx, "Convert to", cat.Output)
	if !ok {
		to = w.fallback.To
	}
	w.ConvertSelection(ctx, from, to)
}

// PromptTargetAndConvert converts the selection from the baseline format,
// asking only for the target.
func (w *Workflow) PromptTargetAndConvert(ctx context.Context) {
	if !w.hasSelection() {
		return
	}
	cat, ok := w.catalog(ctx)
	if !ok {
		return
	}

	to, ok := w.host.Choose(ctx, "Convert "+types.BaselineFormat+" to", cat.Output)
	if !ok {
		to = w.fallback.To
	}
	w.ConvertSelection(ctx, types.BaselineFormat, to)
}

// hasSelection reports whether there is a non-empty selection worth
// prompting for.
func (w *Workflow) hasSelection() bool {
	sel, ok := w.host.ActiveSelection()
	return ok && !sel.Range.Empty()
}

func (w *Workflow) catalog(ctx context.Context) (catalog.Catalog, bool) {
	cat, err := w.formats.Catalog(ctx)
	if err != nil {
		w.fail(w.log, fmt.Errorf("loading format catalog: %w", err))
		return catalog.Catalog{}, false
	}
	return cat, true
}

func (w *Workflow) fail(log *slog.Logger, err error) {
	log.Warn("conversion failed", "error", err)
	w.host.ReportError(err.Error())
}

func (w *Workflow) acquire(doc string) bool {
	w.busy.mu.Lock()
	defer w.busy.mu.Unlock()
	if _, busy := w.busy.docs[doc]; busy {
		return false
	}
	w.busy.docs[doc] = struct{}{}
	return true
}

func (w *Workflow) release(doc string) {
	w.busy.mu.Lock()
	delete(w.busy.docs, doc)
	w.busy.mu.Unlock()
}
