// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filehost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/pandoc-region/internal/workflow"
)

// LineRange is an inclusive, one-based range of lines as written on the
// command line ("3-7", or "5" for a single line).
type LineRange struct {
	First int
	Last  int
}

// ParseLines parses "A-B" or "A".
func ParseLines(s string) (LineRange, error) {
	first, last, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		last = first
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
	}
	if a < 1 || b < a {
		return LineRange{}, fmt.Errorf("invalid line range %q: want 1 <= first <= last", s)
	}
	return LineRange{First: a, Last: b}, nil
}

// String formats the range the way ParseLines reads it.
func (l LineRange) String() string {
	if l.First == l.Last {
		return strconv.Itoa(l.First)
	}
	return fmt.Sprintf("%d-%d", l.First, l.Last)
}

// rangeOf maps l onto text as a workflow range covering whole lines,
// including the final newline. Lines past the end of text are dropped, so a
// range entirely past the end is empty.
func rangeOf(text string, l LineRange) workflow.Range {
	start := workflow.Offset(text, workflow.Position{Line: l.First - 1})
	end := workflow.Offset(text, workflow.Position{Line: l.Last})
	return workflow.Range{Start: positionOf(text, start), End: positionOf(text, end)}
}

// wholeRange selects all of text.
func wholeRange(text string) workflow.Range {
	return workflow.Range{End: positionOf(text, len(text))}
}

// positionOf is the inverse of workflow.Offset.
func positionOf(text string, off int) workflow.Position {
	before := text[:off]
	line := strings.Count(before, "\n")
	return workflow.Position{Line: line, Col: off - (strings.LastIndexByte(before, '\n') + 1)}
}
