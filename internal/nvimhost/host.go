// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nvimhost exposes the selection workflow as Neovim commands through
// a remote plugin. The selection is the last visual selection when a
// command is run over it, otherwise the command's line range.
package nvimhost

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/neovim/go-client/nvim"

	"github.com/pdiddy/pandoc-region/internal/workflow"
)

// client is the part of the Neovim API the host uses; *nvim.Nvim
// satisfies it.
type client interface {
	CurrentBuffer() (nvim.Buffer, error)
	BufferMark(buffer nvim.Buffer, name string) ([2]int, error)
	BufferLineCount(buffer nvim.Buffer) (int, error)
	BufferLines(buffer nvim.Buffer, start, end int, strict bool) ([][]byte, error)
	Request(procedure string, result any, args ...any) error
	SetBufferText(buffer nvim.Buffer, startRow, startCol, endRow, endCol int, replacement [][]byte) error
	BufferChangedTick(buffer nvim.Buffer) (int, error)
	Call(fname string, result any, args ...any) error
	WritelnErr(str string) error
}

var _ client = (*nvim.Nvim)(nil)

// bufferText reads the text between two positions with nvim_buf_get_text.
func bufferText(nv client, buf nvim.Buffer, r workflow.Range) ([][]byte, error) {
	var lines [][]byte
	err := nv.Request("nvim_buf_get_text", &lines, buf, r.Start.Line, r.Start.Col, r.End.Line, r.End.Col, map[string]any{})
	return lines, err
}

type bufferDoc nvim.Buffer

func (b bufferDoc) ID() string { return "buffer:" + strconv.Itoa(int(b)) }

// Host implements the document side of workflow.Host for Neovim buffers.
// Per-command selections are supplied by invocation.
type Host struct {
	nv  client
	log *slog.Logger

	mu    sync.Mutex
	ticks map[nvim.Buffer]int
}

// New creates a host talking to nv.
func New(nv client, log *slog.Logger) *Host {
	return &Host{nv: nv, log: log, ticks: make(map[nvim.Buffer]int)}
}

// Text implements workflow.Host. It remembers the buffer's change tick so
// Replace can refuse to write over edits made in the meantime.
func (h *Host) Text(doc workflow.Document, r workflow.Range) (string, error) {
	buf := nvim.Buffer(doc.(bufferDoc))
	tick, err := h.nv.BufferChangedTick(buf)
	if err != nil {
		return "", fmt.Errorf("reading change tick: %w", err)
	}
	lines, err := bufferText(h.nv, buf, r)
	if err != nil {
		return "", fmt.Errorf("reading buffer text: %w", err)
	}

	h.mu.Lock()
	h.ticks[buf] = tick
	h.mu.Unlock()
	return joinLines(lines), nil
}

// Replace implements workflow.Host with a single nvim_buf_set_text call.
func (h *Host) Replace(doc workflow.Document, r workflow.Range, text string) error {
	buf := nvim.Buffer(doc.(bufferDoc))
	tick, err := h.nv.BufferChangedTick(buf)
	if err != nil {
		return fmt.Errorf("reading change tick: %w", err)
	}

	h.mu.Lock()
	read, ok := h.ticks[buf]
	delete(h.ticks, buf)
	h.mu.Unlock()
	if !ok || read != tick {
		return fmt.Errorf("buffer %d changed while converting", int(buf))
	}

	if err := h.nv.SetBufferText(buf, r.Start.Line, r.Start.Col, r.End.Line, r.End.Col, splitLines(text)); err != nil {
		return fmt.Errorf("setting buffer text: %w", err)
	}
	return nil
}

// Choose implements workflow.Host with inputlist().
func (h *Host) Choose(ctx context.Context, title string, options []string) (string, bool) {
	if len(options) == 0 || ctx.Err() != nil {
		return "", false
	}
	items := make([]string, 0, len(options)+1)
	items = append(items, title+":")
	for i, opt := range options {
		items = append(items, fmt.Sprintf("%d. %s", i+1, opt))
	}

	var picked int
	if err := h.nv.Call("inputlist", &picked, items); err != nil {
		h.log.Warn("inputlist failed", "error", err)
		return "", false
	}
	if picked < 1 || picked > len(options) {
		return "", false
	}
	return options[picked-1], true
}

// ReportError implements workflow.Host.
func (h *Host) ReportError(msg string) {
	if err := h.nv.WritelnErr("pandoc-region: " + msg); err != nil {
		h.log.Error("reporting error to nvim", "msg", msg, "error", err)
	}
}

// invocation binds the host to the line range a command was run with.
type invocation struct {
	*Host
	lines [2]int
}

// For returns a workflow.Host whose selection is resolved from the
// command's one-based, inclusive line range.
func (h *Host) For(lines [2]int) workflow.Host {
	return &invocation{Host: h, lines: lines}
}

// ActiveSelection implements workflow.Host. When the range matches the last
// visual selection the visual selection is used (characterwise or
// linewise); otherwise the whole lines of the range are selected.
func (inv *invocation) ActiveSelection() (workflow.Selection, bool) {
	buf, err := inv.nv.CurrentBuffer()
	if err != nil {
		inv.log.Warn("no current buffer", "error", err)
		return workflow.Selection{}, false
	}
	r, err := inv.selectionRange(buf)
	if err != nil {
		inv.log.Warn("resolving selection", "error", err)
		return workflow.Selection{}, false
	}
	return workflow.Selection{Document: bufferDoc(buf), Range: r}, true
}

func (inv *invocation) selectionRange(buf nvim.Buffer) (workflow.Range, error) {
	start, err := inv.nv.BufferMark(buf, "<")
	if err != nil {
		return workflow.Range{}, err
	}
	end, err := inv.nv.BufferMark(buf, ">")
	if err != nil {
		return workflow.Range{}, err
	}

	if start[0] == 0 || start[0] != inv.lines[0] || end[0] != inv.lines[1] {
		return inv.lineRange(buf, inv.lines[0], inv.lines[1])
	}

	var mode string
	if err := inv.nv.Call("visualmode", &mode); err != nil {
		return workflow.Range{}, err
	}
	if mode == "V" {
		return inv.lineRange(buf, start[0], end[0])
	}

	lines, err := inv.nv.BufferLines(buf, end[0]-1, end[0], true)
	if err != nil {
		return workflow.Range{}, err
	}
	var last []byte
	if len(lines) > 0 {
		last = lines[0]
	}
	r := workflow.Range{
		Start: workflow.Position{Line: start[0] - 1, Col: start[1]},
		End:   workflow.Position{Line: end[0] - 1, Col: inclusiveEnd(last, end[1])},
	}

	// A '> past the last character ($ or an empty line) selects the line
	// break too, as a yank of the same selection would.
	if end[1] >= len(last) {
		count, err := inv.nv.BufferLineCount(buf)
		if err != nil {
			return workflow.Range{}, err
		}
		if end[0] < count {
			r.End = workflow.Position{Line: end[0]}
		}
	}
	return r, nil
}

// lineRange selects lines first..last (one-based). The trailing newline is
// included unless last is the final line of the buffer.
func (inv *invocation) lineRange(buf nvim.Buffer, first, last int) (workflow.Range, error) {
	count, err := inv.nv.BufferLineCount(buf)
	if err != nil {
		return workflow.Range{}, err
	}
	first, last = max(first, 1), min(last, count)
	if first > last {
		return workflow.Range{}, nil
	}
	start := workflow.Position{Line: first - 1}
	if last < count {
		return workflow.Range{Start: start, End: workflow.Position{Line: last}}, nil
	}
	lines, err := inv.nv.BufferLines(buf, last-1, last, true)
	if err != nil {
		return workflow.Range{}, err
	}
	end := workflow.Position{Line: last - 1}
	if len(lines) > 0 {
		end.Col = len(lines[0])
	}
	return workflow.Range{Start: start, End: end}, nil
}

// inclusiveEnd turns the byte column of the last selected character into an
// exclusive end column, stepping over the whole UTF-8 sequence. Columns past
// the end of the line clamp to its length.
func inclusiveEnd(line []byte, col int) int {
	if col >= len(line) {
		return len(line)
	}
	_, size := utf8.DecodeRune(line[col:])
	return col + size
}

func joinLines(lines [][]byte) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func splitLines(text string) [][]byte {
	parts := strings.Split(text, "\n")
	lines := make([][]byte, len(parts))
	for i, p := range parts {
		lines[i] = []byte(p)
	}
	return lines
}
