package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/cstforge/internal/engine"
	"github.com/oxhq/cstforge/internal/graph"
	"github.com/oxhq/cstforge/internal/lang"
)

func buildGraphCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "build-graph <paths...>",
		Short: "Extract symbols, imports, and per-line kinds into a Graph (spec.md §6 build_graph)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := engine.Expand(args)
			if err != nil {
				return err
			}
			if !all {
				paths = engine.FilterSupported(paths, lang.Default)
			}

			b := graph.NewBuilder(logger)
			g := b.Build(paths)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(g)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include paths with no registered language (they will simply contribute a Graph.Errors entry)")
	return cmd
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
