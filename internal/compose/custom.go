package compose

import (
	"fmt"

	"github.com/oxhq/cstforge/internal/contracts"
)

// Table holds the custom operators defined by one plan's
// define_operators block. Custom ops live only for the current plan
// (spec.md §4.8); a Table is built fresh per plan run and discarded
// after, never persisted.
type Table map[string]contracts.CustomOp

// NewTable indexes a plan's define_operators list by name.
func NewTable(defs []contracts.CustomOp) Table {
	t := make(Table, len(defs))
	for _, d := range defs {
		t[d.Define] = d
	}
	return t
}

// CheckSchema type-checks params against a custom op's declared
// params_schema (spec.md §4.8: "parameters are type-checked against the
// declared schema (string, int, locator, ...)").
func CheckSchema(schema map[string]string, params map[string]any) error {
	for name, kind := range schema {
		v, present := params[name]
		if !present {
			return fmt.Errorf("missing parameter %q for custom operator", name)
		}
		if !matchesKind(v, kind) {
			return fmt.Errorf("parameter %q expected type %s", name, kind)
		}
	}
	return nil
}

func matchesKind(v any, kind string) bool {
	switch kind {
	case "string":
		_, ok := v.(string)
		return ok
	case "int":
		switch v.(type) {
		case int, float64:
			return true
		default:
			return false
		}
	case "bool":
		_, ok := v.(bool)
		return ok
	case "locator":
		_, ok := v.(contracts.Locator)
		return ok
	default:
		return true
	}
}

// Expand returns a custom operator's step body, which the caller's
// dsl.Interpreter then runs with a Scope seeded from params (step-level
// $var substitution resolves against that scope, not against this
// function's arguments).
func (t Table) Expand(name string, params map[string]any) (contracts.CustomOp, error) {
	op, ok := t[name]
	if !ok {
		return contracts.CustomOp{}, fmt.Errorf("undefined custom operator: %s", name)
	}
	if err := CheckSchema(op.ParamsSchema, params); err != nil {
		return contracts.CustomOp{}, err
	}
	return op, nil
}
