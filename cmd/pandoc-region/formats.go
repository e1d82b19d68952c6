// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pandoc-region/internal/catalog"
	"github.com/pdiddy/pandoc-region/internal/filehost"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the input and output formats the engine supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		c, err := s.RefreshCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			out, err := yaml.Marshal(c)
			if err != nil {
				return fmt.Errorf("encoding catalog: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		printCatalog(cmd.OutOrStdout(), c)
		return nil
	},
}

func printCatalog(w io.Writer, c catalog.Catalog) {
	fmt.Fprintf(w, "Input formats (%d):\n", len(c.Input))
	for _, f := range c.Input {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintf(w, "Output formats (%d):\n", len(c.Output))
	for _, f := range c.Output {
		fmt.Fprintf(w, "  %s\n", f)
	}
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions \"run\" accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		host, err := filehost.Open("")
		if err != nil {
			return err
		}
		for _, a := range s.Workflow(host).Actions() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", a.Name, a.Description)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the engine can be found and run",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		st, err := s.Verify(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "engine:  %s\nversion: %s\n", st.Path, st.Version)
		return nil
	},
}

func init() {
	formatsCmd.Flags().Bool("yaml", false, "print the catalog as YAML")
	rootCmd.AddCommand(formatsCmd, actionsCmd, checkCmd)
}
