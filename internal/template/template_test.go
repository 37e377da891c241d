package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

func testLang(t *testing.T) *lang.Language {
	t.Helper()
	r := lang.NewRegistry()
	lang.RegisterBuiltins(r)
	l, ok := r.Get("python")
	if !ok {
		t.Fatal("python language not registered")
	}
	return l
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m.py")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCatalog_HasFifteenTemplates(t *testing.T) {
	if len(Catalog) != 15 {
		t.Errorf("got %d catalog entries, want 15", len(Catalog))
	}
}

func TestApply_UnknownTemplate(t *testing.T) {
	res := Apply("does_not_exist", "", nil, nil, mutate.Context{})
	if res.Success {
		t.Fatal("expected failure for unknown template")
	}
}

// TestApply_GuardClause matches the guard-clause insertion scenario: a
// bare null-check is spliced in before a function's only statement, with
// the guard's own body nested one level deeper than its "if".
func TestApply_GuardClause(t *testing.T) {
	l := testLang(t)
	path := writeTemp(t, "def f(x):\n    return x + 1\n")

	params := map[string]any{
		"target":     contracts.Locator{Kind: contracts.KindStatement, Parent: &contracts.Locator{Kind: contracts.KindFunction, Name: "f"}},
		"condition":  "x is None",
		"guard_body": "return None",
	}
	res := Apply("guard_clause", path, l, params, mutate.Context{})
	if !res.Success {
		t.Fatalf("expected success, got err=%v", res.Err)
	}
	got, _ := os.ReadFile(path)
	want := "def f(x):\n    if x is None:\n        return None\n    return x + 1\n"
	if string(got) != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestApply_GuardClause_MissingRequiredParam(t *testing.T) {
	l := testLang(t)
	path := writeTemp(t, "def f(x):\n    return x + 1\n")

	params := map[string]any{
		"target":    contracts.Locator{Kind: contracts.KindStatement, Parent: &contracts.Locator{Kind: contracts.KindFunction, Name: "f"}},
		"condition": "x is None",
		// guard_body omitted
	}
	res := Apply("guard_clause", path, l, params, mutate.Context{})
	if res.Success {
		t.Fatal("expected failure for missing guard_body param")
	}
}

// TestApply_ModifyCondition only splices the condition field, leaving the
// if statement's body untouched.
func TestApply_ModifyCondition(t *testing.T) {
	l := testLang(t)
	path := writeTemp(t, "if x > 0:\n    y = 1\n")

	params := map[string]any{
		"target":        contracts.Locator{Kind: contracts.KindStatement, Index: intPtr(0)},
		"new_condition": "x >= 0",
	}
	res := Apply("modify_condition", path, l, params, mutate.Context{})
	if !res.Success {
		t.Fatalf("expected success, got err=%v", res.Err)
	}
	got, _ := os.ReadFile(path)
	want := "if x >= 0:\n    y = 1\n"
	if string(got) != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestApply_ModifyCondition_PreflightRejectsBadCondition(t *testing.T) {
	l := testLang(t)
	original := "if x > 0:\n    y = 1\n"
	path := writeTemp(t, original)

	params := map[string]any{
		"target":        contracts.Locator{Kind: contracts.KindStatement, Index: intPtr(0)},
		"new_condition": "x +",
	}
	res := Apply("modify_condition", path, l, params, mutate.Context{})
	if res.Success {
		t.Fatal("expected failure for unparseable condition")
	}
	got, _ := os.ReadFile(path)
	if string(got) != original {
		t.Errorf("file bytes changed despite preflight rejection: got %q want %q", got, original)
	}
}

func TestApply_AddDecorator_PrependsAtSign(t *testing.T) {
	l := testLang(t)
	path := writeTemp(t, "def f():\n    pass\n")

	params := map[string]any{
		"target":    contracts.Locator{Kind: contracts.KindFunction, Name: "f"},
		"decorator": "staticmethod",
	}
	res := Apply("add_decorator", path, l, params, mutate.Context{})
	if !res.Success {
		t.Fatalf("expected success, got err=%v", res.Err)
	}
	got, _ := os.ReadFile(path)
	want := "@staticmethod\ndef f():\n    pass\n"
	if string(got) != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestValidate_IdentifierRejectsKeyword(t *testing.T) {
	l := testLang(t)
	p := Param{Name: "param_name", Kind: KindIdentifier, Required: true}
	if err := ValidateParam(p, "class", l); err == nil {
		t.Fatal("expected rejection of reserved keyword")
	}
}

func TestValidate_EnumRejectsInvalidValue(t *testing.T) {
	p := Param{Name: "position", Kind: KindEnum, Enum: []string{"first", "last"}}
	if err := ValidateParam(p, "middle", nil); err == nil {
		t.Fatal("expected rejection of value outside enum")
	}
}

func TestValidate_MissingRequiredReportsError(t *testing.T) {
	p := Param{Name: "condition", Kind: KindExpression, Required: true}
	if err := ValidateParam(p, nil, nil); err == nil {
		t.Fatal("expected missing-required-param error")
	}
}

func TestValidate_OptionalMissingIsFine(t *testing.T) {
	p := Param{Name: "type_annotation", Kind: KindExpression, Required: false}
	if err := ValidateParam(p, nil, nil); err != nil {
		t.Errorf("optional param with no value should not error, got %v", err)
	}
}
