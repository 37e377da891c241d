package dsl

import (
	"reflect"
	"testing"

	"github.com/oxhq/cstforge/internal/contracts"
)

func TestSubstitute_WholeVarRefDeepCopiesMap(t *testing.T) {
	original := map[string]any{"a": float64(1)}
	scope := Scope{"payload": original}

	got := Substitute("$payload", scope)
	gotMap, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", got)
	}
	gotMap["a"] = float64(99)
	if original["a"] != float64(1) {
		t.Errorf("mutating substituted result mutated scope's original: %v", original)
	}
}

func TestSubstitute_StringInterpolation(t *testing.T) {
	scope := Scope{"name": "widget", "count": float64(3)}
	got := Substitute("renaming $name ($count times)", scope)
	want := "renaming widget (3 times)"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSubstitute_DottedFieldLookupIntoMap(t *testing.T) {
	scope := Scope{"node": map[string]any{"kind": "function_definition", "start_line": float64(4)}}
	got := Substitute("$node.kind", scope)
	if got != "function_definition" {
		t.Errorf("got %v want function_definition", got)
	}
}

func TestSubstitute_DottedIndexLookupIntoSlice(t *testing.T) {
	scope := Scope{"items": []any{"first", "second", "third"}}
	got := Substitute("$items.1", scope)
	if got != "second" {
		t.Errorf("got %v want second", got)
	}
}

func TestSubstitute_MissingRefInterpolatesEmpty(t *testing.T) {
	scope := Scope{}
	got := Substitute("prefix[$missing]suffix", scope)
	if got != "prefix[]suffix" {
		t.Errorf("got %q want %q", got, "prefix[]suffix")
	}
}

func TestSubstituteParams_RecursesThroughNestedStructures(t *testing.T) {
	scope := Scope{"x": "y"}
	params := map[string]any{
		"target": map[string]any{"name": "$x"},
		"list":   []any{"$x", "literal"},
	}
	out := SubstituteParams(params, scope)

	target := out["target"].(map[string]any)
	if target["name"] != "y" {
		t.Errorf("nested map substitution failed: got %v", target["name"])
	}
	list := out["list"].([]any)
	if !reflect.DeepEqual(list, []any{"y", "literal"}) {
		t.Errorf("nested slice substitution failed: got %v", list)
	}

	// original untouched
	if params["target"].(map[string]any)["name"] != "$x" {
		t.Errorf("SubstituteParams mutated its input")
	}
}

func TestEval_BooleanOperatorsAndComparison(t *testing.T) {
	scope := Scope{"a": float64(1), "b": "y"}
	got, err := Eval(`$a == 1 && $b != 'x'`, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true")
	}
}

func TestEval_NegationOfParenthesizedVar(t *testing.T) {
	scope := Scope{"flag": false}
	got, err := Eval("!($flag)", scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true (negation of a false flag)")
	}
}

func TestEval_OrAcrossParenthesizedOperands(t *testing.T) {
	scope := Scope{"a": false, "b": true}
	got, err := Eval("($a) || ($b)", scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true")
	}
}

func TestEval_MissingVarEqualsNull(t *testing.T) {
	got, err := Eval("$missing == null", Scope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true: unresolved var compares equal to null")
	}
}

func TestEval_BarewordsTrueFalse(t *testing.T) {
	got, err := Eval("true && !false", Scope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true")
	}
}

func TestEval_TrailingGarbageIsError(t *testing.T) {
	_, err := Eval("true true", Scope{})
	if err == nil {
		t.Fatal("expected error for unexpected trailing input")
	}
}

func TestInterpreter_BindThenBranchesOnBoundValue(t *testing.T) {
	var executed []string
	exec := func(name string, params map[string]any) (*contracts.Node, []string, error) {
		executed = append(executed, name)
		switch name {
		case "insert_before":
			return &contracts.Node{Kind: "function_definition", StartLine: 4}, nil, nil
		case "add_decorator":
			return nil, []string{"warn: " + params["target"].(string)}, nil
		default:
			t.Fatalf("unexpected exec call: %s", name)
			return nil, nil, nil
		}
	}

	in := NewInterpreter(Scope{}, exec)
	steps := []contracts.DSLStep{
		{Primitive: "insert_before", Params: map[string]any{}, Bind: "anchor"},
		{
			If: "$anchor.kind == 'function_definition'",
			Then: &contracts.DSLStep{
				Primitive: "add_decorator",
				Params:    map[string]any{"target": "line $anchor.start_line"},
			},
			Else: &contracts.DSLStep{Primitive: "should_not_run"},
		},
	}

	warnings, err := in.Run(steps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(executed, []string{"insert_before", "add_decorator"}) {
		t.Errorf("got exec order %v", executed)
	}
	if len(warnings) != 1 || warnings[0] != "warn: line 4" {
		t.Errorf("got warnings %v, want [\"warn: line 4\"]", warnings)
	}
}

func TestInterpreter_ElseBranchWhenConditionFalse(t *testing.T) {
	var executed []string
	exec := func(name string, params map[string]any) (*contracts.Node, []string, error) {
		executed = append(executed, name)
		return nil, nil, nil
	}

	in := NewInterpreter(Scope{"ready": false}, exec)
	steps := []contracts.DSLStep{
		{
			If:   "$ready",
			Then: &contracts.DSLStep{Primitive: "should_not_run"},
			Else: &contracts.DSLStep{Primitive: "fallback"},
		},
	}

	if _, err := in.Run(steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(executed, []string{"fallback"}) {
		t.Errorf("got exec order %v, want [fallback]", executed)
	}
}

func TestInterpreter_MissingBranchIsNoop(t *testing.T) {
	called := false
	exec := func(name string, params map[string]any) (*contracts.Node, []string, error) {
		called = true
		return nil, nil, nil
	}

	in := NewInterpreter(Scope{"ready": false}, exec)
	steps := []contracts.DSLStep{
		{If: "$ready", Then: &contracts.DSLStep{Primitive: "should_not_run"}},
	}

	if _, err := in.Run(steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("expected no primitive to run when the condition is false and Else is absent")
	}
}

func TestInterpreter_StopsAtFirstError(t *testing.T) {
	var executed []string
	exec := func(name string, params map[string]any) (*contracts.Node, []string, error) {
		executed = append(executed, name)
		if name == "fails" {
			return nil, nil, contracts.Error{Code: contracts.ErrNoMatch, Message: "boom"}
		}
		return nil, nil, nil
	}

	in := NewInterpreter(Scope{}, exec)
	steps := []contracts.DSLStep{
		{Primitive: "fails"},
		{Primitive: "never_runs"},
	}

	if _, err := in.Run(steps); err == nil {
		t.Fatal("expected error to propagate")
	}
	if !reflect.DeepEqual(executed, []string{"fails"}) {
		t.Errorf("got exec order %v, want [fails] only", executed)
	}
}
