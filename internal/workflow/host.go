// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"strings"
)

// Position is a zero-based line and byte column inside a document.
type Position struct {
	Line int
	Col  int
}

// Range spans Start up to, but not including, End.
type Range struct {
	Start Position
	End   Position
}

// Empty reports whether the range selects nothing.
func (r Range) Empty() bool {
	return r.Start == r.End
}

// Document is a host-owned handle to a live document. ID must be stable for
// the lifetime of the document; it keys per-document serialization.
type Document interface {
	ID() string
}

// Selection is the host's active selection. The workflow borrows it for one
// invocation and never keeps it.
type Selection struct {
	Document Document
	Range    Range
}

// Host is the editing surface the workflow drives.
type Host interface {
	// ActiveSelection returns the current selection, or false when no
	// document is focused.
	ActiveSelection() (Selection, bool)

	// Text returns the content of r in doc.
	Text(doc Document, r Range) (string, error)

	// Replace swaps the content of r in doc for text as one edit. It either
	// applies completely or returns an error and leaves doc untouched.
	Replace(doc Document, r Range, text string) error

	// Choose asks the user to pick one of options. It returns false when
	// the user cancels.
	Choose(ctx context.Context, title string, options []string) (string, bool)

	// ReportError shows msg to the user without blocking.
	ReportError(msg string)
}

// Offset converts p into a byte offset in text. Lines past the end map to
// len(text); columns are clamped to the end of their line.
func Offset(text string, p Position) int {
	start := 0
	for i := 0; i < p.Line; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return len(text)
		}
		start += nl + 1
	}
	end := len(text)
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	return min(start+max(p.Col, 0), end)
}
