// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pandoc-region/internal/filehost"
	"github.com/pdiddy/pandoc-region/internal/workflow"
)

// errReported is returned after the host has already shown the failure.
var errReported = errors.New("conversion did not apply")

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a region of FILE from one format to another",
	Long: `Convert replaces the region of FILE selected by --lines (or the whole
file) with the region converted from --from to --to. Use "-" to read the
document from stdin and write the result to stdout.`,
	Example: `  pandoc-region convert notes.md --from markdown --to jira --lines 10-24
  cat notes.md | pandoc-region convert - --from markdown --to rst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		return runOnFile(cmd, args[0], func(ctx context.Context, w *workflow.Workflow) {
			w.ConvertSelection(ctx, from, to)
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run ACTION FILE",
	Short: "Run a named action (see \"actions\") on FILE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		return runOnFile(cmd, args[1], func(ctx context.Context, w *workflow.Workflow) {
			a, _ := w.Action(name)
			a.Run(ctx)
		}, mustKnowAction(name))
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt FILE",
	Short: "Pick the source and target formats, then convert a region of FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnFile(cmd, args[0], func(ctx context.Context, w *workflow.Workflow) {
			w.PromptAndConvert(ctx)
		})
	},
}

var promptTargetCmd = &cobra.Command{
	Use:   "prompt-target FILE",
	Short: "Pick the target format, then convert a markdown region of FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnFile(cmd, args[0], func(ctx context.Context, w *workflow.Workflow) {
			w.PromptTargetAndConvert(ctx)
		})
	},
}

// mustKnowAction fails the command before the document is opened when
// name is not an action of w.
func mustKnowAction(name string) func(w *workflow.Workflow) error {
	return func(w *workflow.Workflow) error {
		if _, ok := w.Action(name); !ok {
			return fmt.Errorf("unknown action %q (run \"pandoc-region actions\" to list them)", name)
		}
		return nil
	}
}

// runOnFile opens path as a document, runs fn against it and writes the
// result back. Checks run after the workflow is built and before fn.
func runOnFile(cmd *cobra.Command, path string, fn func(context.Context, *workflow.Workflow), checks ...func(*workflow.Workflow) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	host, err := openHost(cmd, path)
	if err != nil {
		return err
	}
	w := s.Workflow(host)
	for _, check := range checks {
		if err := check(w); err != nil {
			return err
		}
	}

	fn(cmd.Context(), w)

	if err := host.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if len(host.Errors()) > 0 {
		return errReported
	}
	return nil
}

func openHost(cmd *cobra.Command, path string) (*filehost.Host, error) {
	opts := []filehost.Option{
		filehost.WithIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
		filehost.WithInteractive(filehost.StdinIsTerminal()),
	}
	if spec, _ := cmd.Flags().GetString("lines"); spec != "" {
		lines, err := filehost.ParseLines(spec)
		if err != nil {
			return nil, err
		}
		opts = append(opts, filehost.WithLines(lines))
	}
	return filehost.Open(path, opts...)
}

func init() {
	convertCmd.Flags().String("from", "", "source format (e.g. markdown)")
	convertCmd.Flags().String("to", "", "target format (e.g. jira)")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")

	for _, c := range []*cobra.Command{convertCmd, runCmd, promptCmd, promptTargetCmd} {
		c.Flags().String("lines", "", "line range to convert, e.g. 10-24 (default: whole file)")
		rootCmd.AddCommand(c)
	}
}
