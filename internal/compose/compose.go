// Package compose implements L9: the composed-operator expander. A
// composed operator (built-in or plan-defined via define_operators)
// expands to a sequence of internal/dsl.DSLSteps that internal/dsl then
// runs through L4 (primitives). Grounded on no direct teacher
// equivalent — morfx has no macro/composition layer — built to the same
// "locate then insert" shape spec.md §4.8 describes for the three
// built-ins.
package compose

import (
	"fmt"

	"github.com/oxhq/cstforge/internal/contracts"
)

// Builtins is the fixed set recognized without a define_operators entry
// (spec.md §4.8).
var Builtins = map[string]bool{
	"add_method":          true,
	"add_import":          true,
	"add_class_attribute": true,
}

// Expand returns the DSLStep sequence for a built-in composed operator.
func Expand(name string, params map[string]any) ([]contracts.DSLStep, error) {
	switch name {
	case "add_method":
		return expandAddMethod(params)
	case "add_import":
		return expandAddImport(params)
	case "add_class_attribute":
		return expandAddClassAttribute(params)
	default:
		return nil, fmt.Errorf("unknown built-in composed operator: %s", name)
	}
}

func expandAddMethod(params map[string]any) ([]contracts.DSLStep, error) {
	target, ok := params["target"].(contracts.Locator)
	if !ok {
		return nil, fmt.Errorf("add_method: target must be a locator")
	}
	name, _ := params["method_name"].(string)
	sig, _ := params["params"].(string)
	body, _ := params["body"].(string)
	text := "def " + name + "(" + sig + "):\n    " + body

	return []contracts.DSLStep{
		{Primitive: "insert_after_node", Params: map[string]any{"locator": target, "text": text}},
	}, nil
}

func expandAddImport(params map[string]any) ([]contracts.DSLStep, error) {
	stmt, _ := params["import_statement"].(string)
	anchor, hasAnchor := params["anchor"].(contracts.Locator)
	if !hasAnchor {
		last := -1
		anchor = contracts.Locator{Kind: contracts.KindImport, Index: &last}
	}
	return []contracts.DSLStep{
		{Primitive: "insert_after_node", Params: map[string]any{"locator": anchor, "text": stmt}},
	}, nil
}

func expandAddClassAttribute(params map[string]any) ([]contracts.DSLStep, error) {
	target, ok := params["target"].(contracts.Locator)
	if !ok {
		return nil, fmt.Errorf("add_class_attribute: target must be a locator")
	}
	name, _ := params["attribute_name"].(string)
	value, _ := params["value"].(string)
	text := name + " = " + value

	return []contracts.DSLStep{
		{Primitive: "insert_before_node", Params: map[string]any{"locator": target, "text": text}},
	}, nil
}
