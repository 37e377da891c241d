// Package planverify implements L10: the plan verifier that runs all
// layers before any byte is written, collecting every error/warning
// rather than short-circuiting (spec.md §4.9). Layers 0/0b/5 block
// (passed=false); the rest only warn.
//
// Grounded on internal/core/pipeline.go's multi-step "run everything,
// collect results" shape for the overall Run loop, and
// internal/core/fuzzy.go's Levenshtein-based scoring (reimplemented
// locally, scoped down to "similarity ratio" rather than the teacher's
// full multi-heuristic resolver) for Layer 1's fuzzy-match fallback.
package planverify

import (
	"os"
	"strconv"
	"strings"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
	"github.com/oxhq/cstforge/internal/parser"
)

// Run executes all layers against plan for the files it touches,
// returning the combined {passed, errors, warnings} (spec.md §4.9).
func Run(plan *contracts.Plan, graph *contracts.Graph, registry *lang.Registry) contracts.VerifyResult {
	var errs []contracts.PlanError
	var warnings []string

	if len(plan.Steps) == 0 {
		return contracts.VerifyResult{Passed: false, Errors: []contracts.PlanError{
			{Level: contracts.LevelParamValidation, StepIndex: -1, Message: "empty plan"},
		}}
	}

	for i, step := range plan.Steps {
		e, w := layer0Structural(i, step)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}

	fileBytes := map[string][]byte{}
	fileLangs := map[string]*lang.Language{}
	for i, step := range plan.Steps {
		file := stepFile(step)
		if file == "" {
			continue
		}
		src, l, err := loadFile(file, registry, fileBytes, fileLangs)
		if err != nil {
			errs = append(errs, contracts.PlanError{Level: contracts.LevelL0, StepIndex: i, Message: err.Error()})
			continue
		}

		e, w := layer0bLocatorPreconditions(i, step, l, src)
		errs = append(errs, e...)
		warnings = append(warnings, w...)

		w = append(w, layer1PatternExistence(step, src)...)
		warnings = append(warnings, w...)

		w = layer3ASTContext(step, l, src)
		warnings = append(warnings, w...)

		w = layer4SymbolScope(step, graph, file)
		warnings = append(warnings, w...)

		e = layer5PreflightSyntax(i, step, l, src)
		errs = append(errs, e...)
	}

	warnings = append(warnings, layer2LineDrift(plan.Steps)...)
	warnings = append(warnings, layer6CrossFileImpact(plan.Steps, graph)...)

	return contracts.VerifyResult{Passed: len(errs) == 0, Errors: errs, Warnings: warnings}
}

func loadFile(file string, registry *lang.Registry, cache map[string][]byte, langCache map[string]*lang.Language) ([]byte, *lang.Language, error) {
	if src, ok := cache[file]; ok {
		return src, langCache[file], nil
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, contracts.Wrap(contracts.ErrFileNotFound, "referenced file does not exist: "+file, err)
	}
	l, ok := registry.Detect(file)
	if !ok {
		return nil, nil, contracts.Error{Code: contracts.ErrUnsupportedLang, Message: "no language registered for " + file}
	}
	cache[file] = src
	langCache[file] = l
	return src, l, nil
}

func stepFile(step contracts.Step) string {
	if step.Target != nil {
		return step.Target.File
	}
	if step.Parent != nil {
		return step.Parent.File
	}
	for _, key := range []string{"target", "locator", "source", "parent", "a"} {
		v, ok := step.RawParams[key]
		if !ok {
			continue
		}
		if loc, ok := v.(contracts.Locator); ok && loc.File != "" {
			return loc.File
		}
		if m, ok := v.(map[string]any); ok {
			if f, ok := m["file"].(string); ok {
				return f
			}
		}
	}
	return ""
}

// layer0Structural: every step has a known op/template/fragment and
// required params present.
func layer0Structural(i int, step contracts.Step) ([]contracts.PlanError, []string) {
	var errs []contracts.PlanError
	tier := step.DetectTier()
	if tier == contracts.TierUnknown {
		errs = append(errs, contracts.PlanError{Level: contracts.LevelParamValidation, StepIndex: i, Message: "step has no recognizable op/template/fragment"})
	}
	if tier == contracts.TierFragment && step.Target == nil {
		errs = append(errs, contracts.PlanError{Level: contracts.LevelParamValidation, StepIndex: i, Message: "fragment step missing target locator"})
	}
	return errs, nil
}

// layer0bLocatorPreconditions: resolving any locator the step carries
// against the current tree must return at least one node; more than one
// match with no index is a warning, not an error.
func layer0bLocatorPreconditions(i int, step contracts.Step, l *lang.Language, src []byte) ([]contracts.PlanError, []string) {
	loc := stepLocator(step)
	if loc == nil {
		return nil, nil
	}
	tree, err := parser.Parse(l, src)
	if err != nil {
		return []contracts.PlanError{{Level: contracts.LevelL0, StepIndex: i, Message: "failed to parse target file"}}, nil
	}
	defer tree.Close()

	matches := locate.Resolve(*loc, l, tree, src)
	if len(matches) == 0 {
		return []contracts.PlanError{{Level: contracts.LevelL0, StepIndex: i, Message: "locator matches no node in current tree"}}, nil
	}
	if len(matches) > 1 && loc.Index == nil {
		return nil, []string{"locator is ambiguous: multiple matches and no index given"}
	}
	return nil, nil
}

func stepLocator(step contracts.Step) *contracts.Locator {
	if step.Target != nil {
		return step.Target
	}
	if step.Parent != nil {
		return step.Parent
	}
	if v, ok := step.RawParams["target"]; ok {
		if loc, ok := v.(contracts.Locator); ok {
			return &loc
		}
	}
	return nil
}

// layer1PatternExistence: for legacy string-pattern ops, the pattern
// must appear in the file; otherwise fall back to fuzzy similarity and
// warn when the best match scores >= 0.8 but isn't exact.
func layer1PatternExistence(step contracts.Step, src []byte) []string {
	if step.DetectTier() != contracts.TierLegacy {
		return nil
	}
	pattern, _ := step.RawParams["pattern"].(string)
	if pattern == "" {
		return nil
	}
	text := string(src)
	if strings.Contains(text, pattern) {
		return nil
	}
	if best, ok := bestFuzzyLine(pattern, text); ok && best >= 0.8 {
		return []string{"pattern not found verbatim; closest fuzzy match scores " + formatRatio(best)}
	}
	return []string{"pattern not found: " + pattern}
}

func bestFuzzyLine(pattern, text string) (float64, bool) {
	var best float64
	found := false
	for _, line := range strings.Split(text, "\n") {
		r := similarity(pattern, line)
		if r > best {
			best = r
			found = true
		}
	}
	return best, found
}

func formatRatio(r float64) string {
	return strconv.FormatFloat(r, 'f', 2, 64)
}
