// Package router implements L11: the step router. It inspects a decoded
// contracts.Step, classifies its tier (spec.md §4.10), and dispatches to
// the matching Tier 1/2/3 package, a bare L4 primitive, or a composed
// operator — returning the uniform contracts.StepResult every path
// shares. Grounded on no single teacher file (morfx has no tier
// concept), but the dispatch-order contract itself comes straight from
// spec.md §4.10 and contracts.Step.DetectTier, and the "decode params
// once, hand typed values to every layer below" shape mirrors the
// teacher's CLI flag-to-InputOptions conversion in internal/config/cli.go.
package router

import (
	"encoding/json"

	"github.com/oxhq/cstforge/internal/contracts"
)

// locatorKinds is the short enum of normalized Locator.Kind values
// (spec.md §3). A decoded JSON object whose "kind" field is one of
// these (or whose "type" is "sexp") is promoted to a contracts.Locator
// rather than left as a generic map.
var locatorKinds = map[string]bool{
	string(contracts.KindFunction):  true,
	string(contracts.KindClass):     true,
	string(contracts.KindMethod):    true,
	string(contracts.KindImport):    true,
	string(contracts.KindStatement): true,
	string(contracts.KindInterface): true,
	string(contracts.KindEnum):      true,
}

// fragmentKinds is the fifteen Tier-3 native kinds (spec.md §4.7). These
// never overlap with locatorKinds — Locator kinds are short normalized
// names ("function"), fragment kinds are native-shaped ("function_definition") —
// so a "kind" field disambiguates cleanly between the two.
var fragmentKinds = map[string]bool{
	"function_definition":  true,
	"class_definition":     true,
	"if_statement":         true,
	"elif_clause":          true,
	"else_clause":          true,
	"for_statement":        true,
	"while_statement":      true,
	"with_statement":       true,
	"try_statement":        true,
	"except_clause":        true,
	"finally_clause":       true,
	"return_statement":     true,
	"raise_statement":      true,
	"assignment":           true,
	"expression_statement": true,
}

// decodeParams unmarshals a step's raw params JSON into a
// map[string]any, promoting any nested Locator- or ASTFrag-shaped
// object into its typed Go form so that internal/template,
// internal/fragment, internal/compose, and internal/dsl never have to
// re-decode generic JSON themselves (they already expect
// params["target"].(contracts.Locator) etc., per their existing code).
func decodeParams(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	out, _ := normalizeValue(generic).(map[string]any)
	return out, nil
}

// paramsFor returns a step's already-decoded params if the caller
// supplied them (spec.md §3 RawParams), or decodes step.Params on
// demand otherwise.
func paramsFor(step contracts.Step) (map[string]any, error) {
	if step.RawParams != nil {
		return step.RawParams, nil
	}
	return decodeParams(step.Params)
}

// DecodePlan populates RawParams on every step of plan in place, so
// internal/planverify's layer checks and the router's own dispatch see
// the same promoted Locator/ASTFrag values (spec.md §6: verify_plan and
// execute_step both read a step's params; they must agree on shape).
// Safe to call more than once — a step whose RawParams is already set is
// left untouched.
func DecodePlan(plan *contracts.Plan) error {
	for i := range plan.Steps {
		if plan.Steps[i].RawParams != nil {
			continue
		}
		params, err := decodeParams(plan.Steps[i].Params)
		if err != nil {
			return err
		}
		plan.Steps[i].RawParams = params
	}
	return nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if kind, ok := t["kind"].(string); ok && locatorKinds[kind] {
			return toLocator(t)
		}
		if typ, ok := t["type"].(string); ok && typ == "sexp" {
			return toLocator(t)
		}
		if kind, ok := t["kind"].(string); ok && fragmentKinds[kind] {
			return toFragment(t)
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

func toLocator(m map[string]any) contracts.Locator {
	b, err := json.Marshal(m)
	if err != nil {
		return contracts.Locator{}
	}
	var loc contracts.Locator
	_ = json.Unmarshal(b, &loc)
	return loc
}

func toFragment(m map[string]any) *contracts.ASTFrag {
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var f contracts.ASTFrag
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	return &f
}

// locatorParam reads a named parameter already promoted to a
// contracts.Locator by decodeParams; absent or mistyped values yield
// the zero Locator, leaving the eventual resolve() call to report "no
// match" the same way a truly empty locator would.
func locatorParam(params map[string]any, name string) contracts.Locator {
	loc, _ := params[name].(contracts.Locator)
	return loc
}

func stringParam(params map[string]any, names ...string) string {
	for _, name := range names {
		if s, ok := params[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolParam(params map[string]any, name string, def bool) bool {
	if b, ok := params[name].(bool); ok {
		return b
	}
	return def
}
