// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns text in one markup format into another by piping it
// through the conversion engine.
package convert

import (
	"context"
)

// Request is one conversion: Input written in From, wanted in To.
// Format names are passed to the engine untouched.
type Request struct {
	From  string
	To    string
	Input string
}

// Converter transforms a Request into converted text. Implementations must
// either return the complete output or an error, never a partial result.
type Converter interface {
	Convert(ctx context.Context, req Request) (string, error)
}

// Args builds the engine argument vector for req.
func Args(req Request) []string {
	return []string{
		"--from=" + req.From,
		"--to=" + req.To,
	}
}
