package dsl

import "github.com/oxhq/cstforge/internal/contracts"

// Exec runs one primitive or composed-operator name against already
// variable-substituted params, returning the node a successful step
// produced (for binding) and any advisory warnings. The interpreter
// never touches mutate/locate/template directly — the caller supplies
// this closure, keeping L8 decoupled from L4/L6/L9 (the composed-op
// expander and router own that wiring).
type Exec func(name string, params map[string]any) (*contracts.Node, []string, error)

// Interpreter walks a composed operator's DSLStep sequence against one
// owned Scope (spec.md §5: "a single owner ... mutates the scope").
type Interpreter struct {
	Scope Scope
	exec  Exec
}

// NewInterpreter builds an Interpreter seeded with initial (already
// type-checked) parameter bindings.
func NewInterpreter(initial Scope, exec Exec) *Interpreter {
	scope := Scope{}
	for k, v := range initial {
		scope[k] = v
	}
	return &Interpreter{Scope: scope, exec: exec}
}

// Run executes steps in order, stopping at the first error (spec.md §4.8
// composed operators expand to a DSLStep list; spec.md §5 "a step must
// fully commit ... before the next step begins").
func (in *Interpreter) Run(steps []contracts.DSLStep) ([]string, error) {
	var warnings []string
	for _, step := range steps {
		w, err := in.runStep(step)
		warnings = append(warnings, w...)
		if err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

func (in *Interpreter) runStep(step contracts.DSLStep) ([]string, error) {
	if step.If != "" {
		cond, err := Eval(step.If, in.Scope)
		if err != nil {
			return nil, err
		}
		var branch *contracts.DSLStep
		if cond {
			branch = step.Then
		} else {
			branch = step.Else
		}
		if branch == nil {
			return nil, nil
		}
		return in.runStep(*branch)
	}

	name := step.Primitive
	if name == "" {
		name = step.Op
	}
	params := SubstituteParams(step.Params, in.Scope)

	node, warnings, err := in.exec(name, params)
	if err != nil {
		return warnings, err
	}
	if step.Bind != "" {
		in.Scope[step.Bind] = nodeToScopeValue(node)
	}
	return warnings, nil
}

func nodeToScopeValue(n *contracts.Node) any {
	if n == nil {
		return nil
	}
	return map[string]any{
		"start_line":   float64(n.StartLine),
		"end_line":     float64(n.EndLine),
		"kind":         n.Kind,
		"text_preview": n.TextPreview,
		"start_byte":   float64(n.StartByte),
		"end_byte":     float64(n.EndByte),
	}
}
