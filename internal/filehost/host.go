// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filehost is the command-line editing surface: the document is a
// file (or stdin) and the selection is a line range, or the whole file.
package filehost

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pdiddy/pandoc-region/internal/workflow"
)

// Stdin is the path that makes the host read the document from stdin and
// write the result to stdout.
const Stdin = "-"

type document string

func (d document) ID() string { return string(d) }

// Host implements workflow.Host for a single file.
type Host struct {
	path        string
	lines       *LineRange
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool

	text   string
	digest [sha256.Size]byte
	errors []string

	input      *bufio.Reader
	errStyle   lipgloss.Style
	titleStyle lipgloss.Style
	faintStyle lipgloss.Style
}

// Option configures a Host.
type Option func(*Host)

// WithLines restricts the selection to a line range.
func WithLines(l LineRange) Option {
	return func(h *Host) { h.lines = &l }
}

// WithIO replaces the process standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(h *Host) {
		h.stdin, h.stdout, h.stderr = stdin, stdout, stderr
	}
}

// WithInteractive enables format pickers on stdin.
func WithInteractive(on bool) Option {
	return func(h *Host) { h.interactive = on }
}

// Open loads the document at path. An empty path yields a host with no
// active document.
func Open(path string, opts ...Option) (*Host, error) {
	h := &Host{
		path:   path,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := lipgloss.NewRenderer(h.stderr)
	h.errStyle = r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	h.titleStyle = r.NewStyle().Bold(true)
	h.faintStyle = r.NewStyle().Faint(true)

	switch path {
	case "":
		return h, nil
	case Stdin:
		data, err := io.ReadAll(h.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		h.text = string(data)
		h.interactive = false
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening document: %w", err)
		}
		h.text = string(data)
		h.digest = sha256.Sum256(data)
	}
	h.input = bufio.NewReader(h.stdin)
	return h, nil
}

// StdinIsTerminal reports whether prompts can be answered interactively.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Content returns the current document text.
func (h *Host) Content() string { return h.text }

// Errors returns every message reported so far.
func (h *Host) Errors() []string { return append([]string(nil), h.errors...) }

// ActiveSelection implements workflow.Host.
func (h *Host) ActiveSelection() (workflow.Selection, bool) {
	if h.path == "" {
		return workflow.Selection{}, false
	}
	r := wholeRange(h.text)
	if h.lines != nil {
		r = rangeOf(h.text, *h.lines)
	}
	return workflow.Selection{Document: document(h.path), Range: r}, true
}

// Text implements workflow.Host.
func (h *Host) Text(_ workflow.Document, r workflow.Range) (string, error) {
	start, end := workflow.Offset(h.text, r.Start), workflow.Offset(h.text, r.End)
	if start > end {
		return "", fmt.Errorf("selection %v is reversed", r)
	}
	return h.text[start:end], nil
}

// Replace implements workflow.Host. A file that changed on disk since it
// was opened is not written.
func (h *Host) Replace(_ workflow.Document, r workflow.Range, text string) error {
	start, end := workflow.Offset(h.text, r.Start), workflow.Offset(h.text, r.End)
	updated := h.text[:start] + text + h.text[end:]

	if h.path != Stdin {
		current, err := os.ReadFile(h.path)
		if err != nil {
			return fmt.Errorf("re-reading %s: %w", h.path, err)
		}
		if sha256.Sum256(current) != h.digest {
			return fmt.Errorf("%s changed on disk since it was read", h.path)
		}
		if err := writeAtomic(h.path, []byte(updated)); err != nil {
			return err
		}
		h.digest = sha256.Sum256([]byte(updated))
	}
	h.text = updated
	return nil
}

// Flush writes the document to stdout when it was read from stdin. It runs
// whether or not a conversion happened, so a failed conversion passes the
// input through unchanged.
func (h *Host) Flush() error {
	if h.path != Stdin {
		return nil
	}
	_, err := io.WriteString(h.stdout, h.text)
	return err
}

// Choose implements workflow.Host by listing numbered options on stderr and
// reading an answer from stdin. An empty answer, "q" or EOF cancels.
func (h *Host) Choose(ctx context.Context, title string, options []string) (string, bool) {
	if !h.interactive || len(options) == 0 || h.input == nil {
		return "", false
	}

	fmt.Fprintln(h.stderr, h.titleStyle.Render(title+":"))
	width := len(strconv.Itoa(len(options)))
	for i, opt := range options {
		fmt.Fprintf(h.stderr, "  %s %s\n", h.faintStyle.Render(fmt.Sprintf("%*d", width, i+1)), opt)
	}

	for ctx.Err() == nil {
		fmt.Fprint(h.stderr, "> ")
		line, err := h.input.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" || answer == "q" {
			return "", false
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		for _, opt := range options {
			if opt == answer {
				return opt, true
			}
		}
		if err != nil {
			return "", false
		}
		fmt.Fprintf(h.stderr, "%q is not one of the listed formats\n", answer)
	}
	return "", false
}

// ReportError implements workflow.Host.
func (h *Host) ReportError(msg string) {
	h.errors = append(h.errors, msg)
	fmt.Fprintln(h.stderr, h.errStyle.Render("error: "+msg))
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
