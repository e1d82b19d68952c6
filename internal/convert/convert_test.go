// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pdiddy/pandoc-region/internal/engine"
)

// recordingRunner implements engine.Runner for testing. It records the last
// call and returns canned output or an error.
type recordingRunner struct {
	output string
	err    error

	command string
	args    []string
	stdin   string
	calls   int
}

func (r *recordingRunner) Run(_ context.Context, command string, args []string, stdin string) (string, error) {
	r.calls++
	r.command, r.args, r.stdin = command, args, stdin
	if r.err != nil {
		return "", r.err
	}
	return r.output, nil
}

func TestArgs(t *testing.T) {
	got := Args(Request{From: "markdown", To: "jira", Input: "ignored"})
	want := []string{"--from=markdown", "--to=jira"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Args = %q, want %q", got, want)
	}
}

func TestPandocConverter_Convert(t *testing.T) {
	tests := []struct {
		name    string
		runner  *recordingRunner
		want    string
		wantErr error
	}{
		{
			name:   "output returned verbatim",
			runner: &recordingRunner{output: "\nh1. Title\n\n  "},
			want:   "\nh1. Title\n\n  ",
		},
		{
			name:   "empty output is a valid result",
			runner: &recordingRunner{output: ""},
			want:   "",
		},
		{
			name:    "engine failure propagates",
			runner:  &recordingRunner{err: &engine.ExitError{Command: "pandoc", Code: 21, Stderr: "Unknown output format jra"}},
			wantErr: engine.ErrNonZeroExit,
		},
		{
			name:    "timeout propagates",
			runner:  &recordingRunner{err: engine.ErrTimeout},
			wantErr: engine.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPandocConverter(tt.runner, "/usr/local/bin/pandoc")
			req := Request{From: "markdown", To: "jira", Input: "# Title\n"}

			got, err := c.Convert(context.Background(), req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if got != "" {
					t.Errorf("got %q on failure, want empty", got)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
			}

			if tt.runner.calls != 1 {
				t.Errorf("engine called %d times, want exactly 1", tt.runner.calls)
			}
			if tt.runner.command != "/usr/local/bin/pandoc" {
				t.Errorf("command = %q", tt.runner.command)
			}
			if fmt.Sprint(tt.runner.args) != "[--from=markdown --to=jira]" {
				t.Errorf("args = %q", tt.runner.args)
			}
			if tt.runner.stdin != "# Title\n" {
				t.Errorf("stdin = %q", tt.runner.stdin)
			}
		})
	}
}

func TestPandocConverter_UnknownFormatNotPrevalidated(t *testing.T) {
	r := &recordingRunner{output: "ok"}
	c := NewPandocConverter(r, "pandoc")

	if _, err := c.Convert(context.Background(), Request{From: "no-such", To: "also-not", Input: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.calls != 1 {
		t.Errorf("converter should hand unknown formats to the engine, calls = %d", r.calls)
	}
}
