package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
	"github.com/oxhq/cstforge/internal/parser"
)

func locateCmd() *cobra.Command {
	var compareTo string
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "locate <locator.json>",
		Short: "Resolve a Locator against its file's live tree (spec.md §6 locate)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, l, tree, src, err := resolveLocatorFile(args[0])
			if err != nil {
				return err
			}
			defer tree.Close()

			matches := locate.Resolve(loc, l, tree, src)
			nodes := make([]contracts.Node, 0, len(matches))
			for _, m := range matches {
				nodes = append(nodes, locate.Describe(m, src))
			}

			out := map[string]any{
				"found": len(nodes) > 0,
				"count": len(nodes),
				"nodes": nodes,
			}

			if showDiff && len(matches) > 0 {
				compareText := ""
				if compareTo != "" {
					b, err := os.ReadFile(compareTo)
					if err != nil {
						return fmt.Errorf("reading --compare-to %s: %w", compareTo, err)
					}
					compareText = string(b)
				}
				out["diff"] = unifiedDiff(compareText, matches[0].Content(src), loc.File)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVarP(&showDiff, "diff", "D", false, "include a unified diff of the matched region against --compare-to (or against empty)")
	cmd.Flags().StringVar(&compareTo, "compare-to", "", "file whose content is diffed against the first matched region")
	return cmd
}

func locateRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate-region <locator.json>",
		Short: "Resolve a Locator to a byte/line range without a text preview (spec.md §6 locate_region)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, l, tree, src, err := resolveLocatorFile(args[0])
			if err != nil {
				return err
			}
			defer tree.Close()

			matches := locate.Resolve(loc, l, tree, src)
			if len(matches) == 0 {
				return contracts.Error{Code: contracts.ErrNoMatch, Message: "locator resolved to no node"}
			}

			region := locate.DescribeRegion(matches[0], src)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(region)
		},
	}
}

func resolveLocatorFile(path string) (contracts.Locator, *lang.Language, *sitter.Tree, []byte, error) {
	var loc contracts.Locator
	if err := readJSONFile(path, &loc); err != nil {
		return loc, nil, nil, nil, err
	}
	return resolveLocator(loc)
}

// resolveLocator parses loc.File and hands back its tree, the caller
// owning tree.Close(). Shared by the one-shot locate/locate-region
// subcommands and `cstforge serve`'s locate/locate_region requests.
func resolveLocator(loc contracts.Locator) (contracts.Locator, *lang.Language, *sitter.Tree, []byte, error) {
	if loc.File == "" {
		return loc, nil, nil, nil, contracts.Error{Code: contracts.ErrMissingParam, Message: "locator is missing \"file\""}
	}

	l, ok := lang.Default.Detect(loc.File)
	if !ok {
		return loc, nil, nil, nil, contracts.Error{Code: contracts.ErrUnsupportedLang, Message: "no language registered for " + loc.File}
	}

	src, err := os.ReadFile(loc.File)
	if err != nil {
		return loc, nil, nil, nil, contracts.Wrap(contracts.ErrFileNotFound, "reading "+loc.File, err)
	}

	tree, err := parser.Parse(l, src)
	if err != nil {
		return loc, nil, nil, nil, contracts.Wrap(contracts.ErrParseFailed, "parsing "+loc.File, err)
	}
	return loc, l, tree, src, nil
}

// serveLocate implements the serve-mode locate/locate_region requests,
// returning the same shapes the one-shot subcommands print.
func serveLocate(loc contracts.Locator, region bool) any {
	_, l, tree, src, err := resolveLocator(loc)
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}
	defer tree.Close()

	matches := locate.Resolve(loc, l, tree, src)
	if region {
		if len(matches) == 0 {
			return map[string]any{"success": false, "error": "locator resolved to no node"}
		}
		return locate.DescribeRegion(matches[0], src)
	}

	nodes := make([]contracts.Node, 0, len(matches))
	for _, m := range matches {
		nodes = append(nodes, locate.Describe(m, src))
	}
	return map[string]any{"found": len(nodes) > 0, "count": len(nodes), "nodes": nodes}
}

func unifiedDiff(before, after, label string) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: label,
		ToFile:   label + " (matched)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "(diff error: " + err.Error() + ")"
	}
	return strings.TrimRight(text, "\n")
}
