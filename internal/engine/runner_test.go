// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngineEnv switches the test binary into fake-pandoc mode when it is
// re-executed as the engine.
const fakeEngineEnv = "PANDOC_REGION_FAKE_ENGINE"

func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeEngineEnv); mode != "" {
		os.Exit(fakeEngine(mode, os.Args[1:]))
	}
	os.Exit(m.Run())
}

// fakeEngine imitates the handful of pandoc behaviours the runner relies on.
func fakeEngine(mode string, args []string) int {
	stdin, _ := io.ReadAll(os.Stdin)
	switch mode {
	case "echo":
		fmt.Printf("%s\n%s", strings.Join(args, "|"), stdin)
	case "version":
		fmt.Print("\npandoc 3.1.11\nFeatures: +server +lua\n")
	case "fail":
		fmt.Fprintln(os.Stderr, "Unknown input format bogus")
		return 21
	case "hang":
		time.Sleep(time.Minute)
	}
	return 0
}

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	paths     map[string]string
	runFunc   func(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
	lastName  string
	lastArgs  []string
	lastStdin string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if p, ok := m.paths[file]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func (m *mockExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	data, _ := io.ReadAll(stdin)
	m.lastName, m.lastArgs, m.lastStdin = name, args, string(data)
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args, bytes.NewReader(data), stdout, stderr)
	}
	return nil
}

func TestRun_Mock(t *testing.T) {
	tests := []struct {
		name    string
		runFunc func(context.Context, string, []string, io.Reader, io.Writer, io.Writer) error
		wantOut string
		wantIs  error
	}{
		{
			name: "returns stdout verbatim",
			runFunc: func(_ context.Context, _ string, _ []string, stdin io.Reader, stdout, _ io.Writer) error {
				data, _ := io.ReadAll(stdin)
				_, _ = stdout.Write([]byte("  <" + string(data) + ">\n\n"))
				return nil
			},
			wantOut: "  <hello>\n\n",
		},
		{
			name: "missing binary maps to not found",
			runFunc: func(context.Context, string, []string, io.Reader, io.Writer, io.Writer) error {
				return &exec.Error{Name: "pandoc", Err: exec.ErrNotFound}
			},
			wantIs: ErrNotFound,
		},
		{
			name: "missing absolute path maps to not found",
			runFunc: func(context.Context, string, []string, io.Reader, io.Writer, io.Writer) error {
				return &os.PathError{Op: "fork/exec", Path: "/opt/pandoc", Err: os.ErrNotExist}
			},
			wantIs: ErrNotFound,
		},
		{
			name: "blocking past the deadline maps to timeout",
			runFunc: func(ctx context.Context, _ string, _ []string, _ io.Reader, _, _ io.Writer) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantIs: ErrTimeout,
		},
		{
			name: "other failures map to non-zero exit",
			runFunc: func(_ context.Context, _ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
				_, _ = stderr.Write([]byte("boom\n"))
				return errors.New("exit status 2")
			},
			wantIs: ErrNonZeroExit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockExecutor{runFunc: tt.runFunc}
			r := newRunner(m, WithTimeout(50*time.Millisecond))

			out, err := r.Run(context.Background(), "pandoc", []string{"--from=markdown"}, "hello")
			if tt.wantIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantIs)
				assert.Empty(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
			assert.Equal(t, "pandoc", m.lastName)
			assert.Equal(t, []string{"--from=markdown"}, m.lastArgs)
			assert.Equal(t, "hello", m.lastStdin)
		})
	}
}

func TestRun_ExitErrorCarriesStderr(t *testing.T) {
	m := &mockExecutor{runFunc: func(_ context.Context, _ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
		_, _ = stderr.Write([]byte("  Unknown output format nope\n"))
		return errors.New("exit status 21")
	}}
	r := newRunner(m)

	_, err := r.Run(context.Background(), "pandoc", nil, "")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, "Unknown output format nope", exitErr.Stderr)
	assert.Contains(t, err.Error(), "Unknown output format nope")
}

func TestResolve(t *testing.T) {
	m := &mockExecutor{paths: map[string]string{"pandoc": "/usr/bin/pandoc"}}
	r := newRunner(m)

	path, err := r.Resolve("pandoc")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/pandoc", path)

	_, err = r.Resolve("pandoc-nightly")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"pandoc-nightly"`)
}

func TestNewRunner_Options(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewRunner().Timeout())
	assert.Equal(t, 3*time.Second, NewRunner(WithTimeout(3*time.Second)).Timeout())
	assert.Equal(t, DefaultTimeout, NewRunner(WithTimeout(0)).Timeout())
}

// The tests below spawn the test binary itself as a fake engine.

func TestRun_Subprocess(t *testing.T) {
	t.Setenv(fakeEngineEnv, "echo")
	r := NewRunner(WithTimeout(10 * time.Second))

	out, err := r.Run(context.Background(), os.Args[0], []string{"--from=markdown", "--to=jira"}, "# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "--from=markdown|--to=jira\n# Title\n", out)
}

func TestRun_SubprocessArgsAreNotShellExpanded(t *testing.T) {
	t.Setenv(fakeEngineEnv, "echo")
	r := NewRunner(WithTimeout(10 * time.Second))

	arg := "--to=html; echo pwned $(id)"
	out, err := r.Run(context.Background(), os.Args[0], []string{arg}, "")
	require.NoError(t, err)
	assert.Equal(t, arg+"\n", out)
}

func TestRun_SubprocessNonZeroExit(t *testing.T) {
	t.Setenv(fakeEngineEnv, "fail")
	r := NewRunner(WithTimeout(10 * time.Second))

	_, err := r.Run(context.Background(), os.Args[0], []string{"--from=bogus"}, "x")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.ErrorIs(t, err, ErrNonZeroExit)
	assert.Equal(t, 21, exitErr.Code)
	assert.Equal(t, "Unknown input format bogus", exitErr.Stderr)
}

func TestRun_SubprocessTimeout(t *testing.T) {
	t.Setenv(fakeEngineEnv, "hang")
	r := NewRunner(WithTimeout(200 * time.Millisecond))

	start := time.Now()
	_, err := r.Run(context.Background(), os.Args[0], nil, "")
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, 5*time.Second, "runner should give up shortly after its timeout")
}

func TestRun_SubprocessNotFound(t *testing.T) {
	r := NewRunner()
	tests := []string{
		"pandoc-region-no-such-engine",
		filepath.Join(t.TempDir(), "missing", "pandoc"),
	}
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			_, err := r.Run(context.Background(), command, []string{"--version"}, "")
			require.ErrorIs(t, err, ErrNotFound)
			assert.Contains(t, err.Error(), command)
		})
	}
}

func TestVersion(t *testing.T) {
	t.Setenv(fakeEngineEnv, "version")
	r := NewRunner(WithTimeout(10 * time.Second))

	v, err := Version(context.Background(), r, os.Args[0])
	require.NoError(t, err)
	assert.Equal(t, "pandoc 3.1.11", v)
}
