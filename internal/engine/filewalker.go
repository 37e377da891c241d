// Package engine expands a plan's or build-graph invocation's target
// path list — which may contain glob patterns — into concrete,
// de-duplicated file paths before internal/graph or internal/router
// ever sees them (SPEC_FULL.md §2 domain-stack wiring). Grounded in the
// teacher's core/filewalker.go matchPattern/isExcluded logic, narrowed
// from that file's full parallel worker-pool traversal down to a single
// glob-expand-and-filter pass since spec.md §5 models the engine itself
// as single-threaded and sequential.
package engine

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/cstforge/internal/lang"
)

// Expand resolves patterns (plain paths or doublestar globs like
// "src/**/*.py") against the filesystem, returning the de-duplicated,
// sorted union of matches. A plain path that names no actual glob
// metacharacter and matches nothing literally is passed through
// unchanged, so a caller naming a file that does not yet exist (a
// create-style step target) is not silently dropped.
func Expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, m := range matches {
			clean := filepath.Clean(m)
			if !seen[clean] {
				seen[clean] = true
				out = append(out, clean)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// FilterSupported drops any path the registry has no language for,
// mirroring the teacher's isIncluded/isExcluded include-pattern
// filtering but keyed off actual language detection rather than glob
// re-matching, since build_graph only ever wants files it can parse.
func FilterSupported(paths []string, registry *lang.Registry) []string {
	var out []string
	for _, p := range paths {
		if _, ok := registry.Detect(p); ok {
			out = append(out, p)
		}
	}
	return out
}
