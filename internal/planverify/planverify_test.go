package planverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
)

func testRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	r := lang.NewRegistry()
	lang.RegisterBuiltins(r)
	return r
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m.py")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestRun_EmptyPlanFails(t *testing.T) {
	res := Run(&contracts.Plan{}, contracts.NewGraph(), testRegistry(t))
	if res.Passed {
		t.Fatal("expected failure for empty plan")
	}
	if len(res.Errors) != 1 || res.Errors[0].Message != "empty plan" || res.Errors[0].StepIndex != -1 {
		t.Errorf("got errors %+v", res.Errors)
	}
}

func TestRun_UnrecognizableStepFails(t *testing.T) {
	plan := &contracts.Plan{Steps: []contracts.Step{{}}}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if res.Passed {
		t.Fatal("expected failure for a step with no op/template/fragment")
	}
	if !containsSubstring(errMessages(res.Errors), "no recognizable op/template/fragment") {
		t.Errorf("got errors %+v", res.Errors)
	}
}

func errMessages(errs []contracts.PlanError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func TestRun_LocatorPreconditionFailsWhenNoMatch(t *testing.T) {
	path := writeTemp(t, "def f():\n    pass\n")
	step := contracts.Step{
		Fragment: &contracts.ASTFrag{Kind: "return_statement", Properties: map[string]any{}},
		Target:   &contracts.Locator{Kind: contracts.KindFunction, Name: "missing", File: path},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if res.Passed {
		t.Fatal("expected failure when the target locator resolves to nothing")
	}
	if !containsSubstring(errMessages(res.Errors), "locator matches no node in current tree") {
		t.Errorf("got errors %+v", res.Errors)
	}
}

func TestRun_AmbiguousLocatorWarnsButPasses(t *testing.T) {
	path := writeTemp(t, "x = 1\ny = 2\nz = 3\n")
	step := contracts.Step{
		Op:     contracts.Operation("legacy_op"),
		Target: &contracts.Locator{Kind: contracts.KindStatement, File: path},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected a pass with only a warning, got errors %+v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "locator is ambiguous") {
		t.Errorf("got warnings %v", res.Warnings)
	}
}

func TestRun_LineDriftWarnsOnLaterStep(t *testing.T) {
	path := writeTemp(t, "a = 1\n")
	steps := []contracts.Step{
		{
			Op: contracts.Operation("legacy_op"),
			RawParams: map[string]any{
				"source":   contracts.Locator{File: path},
				"line":     float64(5),
				"old_text": "a\nb",
				"new_text": "x",
			},
		},
		{
			Op: contracts.Operation("legacy_op"),
			RawParams: map[string]any{
				"source": contracts.Locator{File: path},
				"line":   float64(10),
			},
		},
	}
	plan := &contracts.Plan{Steps: steps}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected pass, got errors %+v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "after a predicted drift of -1 lines") {
		t.Errorf("got warnings %v", res.Warnings)
	}
}

func TestRun_FuzzyPatternWarnsWhenClose(t *testing.T) {
	path := writeTemp(t, "x = 1\nreturn valu\n")
	step := contracts.Step{
		Op: contracts.Operation("legacy_op"),
		RawParams: map[string]any{
			"source":  contracts.Locator{File: path},
			"pattern": "return value",
		},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected pass, got errors %+v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "closest fuzzy match scores 0.92") {
		t.Errorf("got warnings %v", res.Warnings)
	}
}

func TestRun_PatternNotFoundAndNotFuzzyClose(t *testing.T) {
	path := writeTemp(t, "x = 1\n")
	step := contracts.Step{
		Op: contracts.Operation("legacy_op"),
		RawParams: map[string]any{
			"source":  contracts.Locator{File: path},
			"pattern": "completely_unrelated_text_zzz",
		},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected pass (warning only), got errors %+v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "pattern not found: completely_unrelated_text_zzz") {
		t.Errorf("got warnings %v", res.Warnings)
	}
}

func TestRun_PatternInsideStringWarns(t *testing.T) {
	path := writeTemp(t, "x = \"return value\"\n")
	step := contracts.Step{
		Op: contracts.Operation("legacy_op"),
		RawParams: map[string]any{
			"source":  contracts.Locator{File: path},
			"pattern": "return value",
		},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, contracts.NewGraph(), testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected pass, got errors %+v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "pattern match falls inside a string or comment literal") {
		t.Errorf("got warnings %v", res.Warnings)
	}
}

func TestRun_RenameSymbolScopeWarnsOnStringOrCommentOccurrence(t *testing.T) {
	path := writeTemp(t, "def foo():\n    s = \"foo\"\n")
	graph := contracts.NewGraph()
	graph.LineKinds[path] = map[int]string{1: "code", 2: "string"}

	step := contracts.Step{
		Op:     contracts.OpRenameIdentifier,
		Target: &contracts.Locator{Kind: contracts.KindFunction, Name: "foo", File: path},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, graph, testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected pass, got errors %+v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "rename target foo also appears in 1 string/comment line(s)") {
		t.Errorf("got warnings %v", res.Warnings)
	}
}

func TestRun_CrossFileImportWarnsWhenImporterOutsidePlan(t *testing.T) {
	mainPath := writeTemp(t, "def bar():\n    pass\n")
	otherPath := filepath.Join(filepath.Dir(mainPath), "other.py")

	graph := contracts.NewGraph()
	graph.Imports = append(graph.Imports, contracts.Import{File: otherPath, Module: "main", Symbol: "bar"})

	step := contracts.Step{
		Op:     contracts.OpRenameIdentifier,
		Target: &contracts.Locator{Kind: contracts.KindFunction, Name: "bar", File: mainPath},
	}
	plan := &contracts.Plan{Steps: []contracts.Step{step}}
	res := Run(plan, graph, testRegistry(t))
	if !res.Passed {
		t.Fatalf("expected pass, got errors %+v", res.Errors)
	}
	want := "symbol bar is imported from " + otherPath + ", which is not in this plan"
	if !containsSubstring(res.Warnings, want) {
		t.Errorf("got warnings %v, want to contain %q", res.Warnings, want)
	}
}

func TestRenameSymbolName_PrefersTargetName(t *testing.T) {
	step := contracts.Step{
		Op:        contracts.OpRenameIdentifier,
		Target:    &contracts.Locator{Kind: contracts.KindFunction, Name: "helper"},
		RawParams: map[string]any{"old_name": "stale"},
	}
	if got := renameSymbolName(step); got != "helper" {
		t.Errorf("got %q, want %q", got, "helper")
	}
}

func TestRenameSymbolName_FallsBackToSexpEqCapture(t *testing.T) {
	step := contracts.Step{
		Op: contracts.OpRenameIdentifier,
		Target: &contracts.Locator{
			Type:    "sexp",
			Query:   `(identifier) @name (#eq? @name "helper")`,
			Capture: "name",
		},
	}
	if got := renameSymbolName(step); got != "helper" {
		t.Errorf("got %q, want %q", got, "helper")
	}
}

func TestRenameSymbolName_FallsBackToOldNameForLegacyOp(t *testing.T) {
	step := contracts.Step{Op: contracts.OpRenameIdentifier, RawParams: map[string]any{"old_name": "legacy"}}
	if got := renameSymbolName(step); got != "legacy" {
		t.Errorf("got %q, want %q", got, "legacy")
	}
}

func TestSimilarity_IdenticalStringsScoreOne(t *testing.T) {
	if similarity("abc", "abc") != 1 {
		t.Error("expected identical strings to score 1.0")
	}
}

func TestSimilarity_CompletelyDifferentScoresLow(t *testing.T) {
	if s := similarity("abcdef", "zzzzzz"); s > 0.2 {
		t.Errorf("expected a low score for wholly different strings, got %v", s)
	}
}

func TestLevenshteinDistance_SingleSubstitution(t *testing.T) {
	if d := levenshteinDistance("cat", "cot"); d != 1 {
		t.Errorf("got %d, want 1", d)
	}
}
