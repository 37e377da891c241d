package router

import (
	"fmt"

	"github.com/oxhq/cstforge/internal/compose"
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/dsl"
	"github.com/oxhq/cstforge/internal/fragment"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
	"github.com/oxhq/cstforge/internal/surgery"
	"github.com/oxhq/cstforge/internal/template"
	"github.com/oxhq/cstforge/internal/verify"
)

// Router dispatches one decoded step to its tier (spec.md §4.10). It
// holds no per-plan state itself; the graph and custom-operator table
// are passed into ExecuteStep so a Router can be reused, uncontended,
// across an entire plan run (spec.md §5: single-threaded, sequential).
type Router struct {
	Registry *lang.Registry
}

// New builds a Router against the given language registry.
func New(registry *lang.Registry) *Router {
	return &Router{Registry: registry}
}

// ExecuteStep implements execute_step (spec.md §6): detect tier, resolve
// the target file's language, build the L3/L4/L6 warning context from
// the plan's Graph, and dispatch. customOps is the table built from the
// plan's define_operators block (nil/empty if the plan defined none).
func (rt *Router) ExecuteStep(step contracts.Step, graph *contracts.Graph, customOps compose.Table) contracts.StepResult {
	params, err := paramsFor(step)
	if err != nil {
		return errResult(contracts.Wrap(contracts.ErrParamValidation, "failed to decode step params", err))
	}

	file := stepFile(step, params)
	if file == "" {
		return errResult(contracts.Error{Code: contracts.ErrMissingParam, Message: "step does not name a target file"})
	}

	language, ok := rt.Registry.Detect(file)
	if !ok {
		return errResult(contracts.Error{Code: contracts.ErrUnsupportedLang, Message: "no language registered for " + file})
	}

	mctx := buildContext(graph, file)

	switch step.DetectTier() {
	case contracts.TierSurgery:
		return rt.runSurgery(step, params, file, language, mctx)
	case contracts.TierTemplate:
		return rt.runTemplate(step, params, file, language, mctx)
	case contracts.TierFragment:
		return rt.runFragment(step, file, language, mctx)
	case contracts.TierLegacy:
		return rt.runLegacyOrComposed(string(step.Op), params, file, language, mctx, customOps)
	default:
		return errResult(contracts.Error{Code: contracts.ErrUnknownOp, Message: "step has no recognizable op/template/fragment"})
	}
}

func stepFile(step contracts.Step, params map[string]any) string {
	if step.Target != nil && step.Target.File != "" {
		return step.Target.File
	}
	if step.Parent != nil && step.Parent.File != "" {
		return step.Parent.File
	}
	for _, key := range []string{"target", "locator", "source", "parent", "a"} {
		if loc, ok := params[key].(contracts.Locator); ok && loc.File != "" {
			return loc.File
		}
	}
	if f, ok := params["file"].(string); ok {
		return f
	}
	return ""
}

// buildContext narrows the plan's Graph down to the symbols/imports
// belonging to file and wraps them in the mutate.Context every
// primitive needs for its L3/L4 warning passes.
func buildContext(graph *contracts.Graph, file string) mutate.Context {
	if graph == nil {
		return mutate.Context{Scope: verify.NewScope(nil, nil)}
	}
	var syms []contracts.Symbol
	for _, s := range graph.Symbols {
		if s.File == file {
			syms = append(syms, s)
		}
	}
	var imps []contracts.Import
	hasStar := false
	for _, im := range graph.Imports {
		if im.File != file {
			continue
		}
		imps = append(imps, im)
		if im.Symbol == "*" || im.Module == "*" {
			hasStar = true
		}
	}
	return mutate.Context{Scope: verify.NewScope(syms, imps), HasStarImport: hasStar}
}

func (rt *Router) runSurgery(step contracts.Step, params map[string]any, file string, language *lang.Language, mctx mutate.Context) contracts.StepResult {
	switch step.Op {
	case contracts.OpRenameIdentifier:
		if step.Target == nil {
			return errResult(missingParam("target"))
		}
		return fromMutateResult(surgery.RenameIdentifier(file, language, *step.Target, step.NewName, step.Filter, mctx))

	case contracts.OpDeleteNode:
		if step.Target == nil {
			return errResult(missingParam("target"))
		}
		return fromMutateResult(surgery.DeleteNode(file, language, *step.Target, mctx))

	case contracts.OpCopyNode, contracts.OpMoveNode:
		src := locatorParam(params, "source")
		dest := locatorParam(params, "dest")
		insertAfter := boolParam(params, "insert_after", true)
		if step.Op == contracts.OpCopyNode {
			return fromMutateResult(surgery.CopyNode(file, language, src, dest, insertAfter, mctx))
		}
		return fromMutateResult(surgery.MoveNode(file, language, src, dest, insertAfter, mctx))

	case contracts.OpSwapNodes:
		a := locatorParam(params, "a")
		b := locatorParam(params, "b")
		return fromMutateResult(surgery.SwapNodes(file, language, a, b, mctx))

	case contracts.OpReorderChildren:
		parent := step.Parent
		if parent == nil {
			if loc, ok := params["parent"].(contracts.Locator); ok {
				parent = &loc
			}
		}
		if parent == nil {
			return errResult(missingParam("parent"))
		}
		return fromMutateResult(surgery.ReorderChildren(file, language, *parent, step.Order, mctx))

	default:
		return errResult(contracts.Error{Code: contracts.ErrUnknownOp, Message: "unknown surgery op: " + string(step.Op)})
	}
}

func (rt *Router) runTemplate(step contracts.Step, params map[string]any, file string, language *lang.Language, mctx mutate.Context) contracts.StepResult {
	t, ok := template.Get(step.Template)
	if !ok {
		return errResult(contracts.Error{Code: contracts.ErrUnknownOp, Message: "unknown template: " + step.Template})
	}
	if err := template.Validate(t, params, language); err != nil {
		return errResult(contracts.Wrap(contracts.ErrParamValidation, "template "+step.Template+" parameter validation failed", err))
	}
	return fromMutateResult(t.Handler(file, language, params, mctx))
}

func (rt *Router) runFragment(step contracts.Step, file string, language *lang.Language, mctx mutate.Context) contracts.StepResult {
	if step.Target == nil || step.Fragment == nil {
		return errResult(contracts.Error{Code: contracts.ErrMissingParam, Message: "fragment step requires target and fragment"})
	}
	action := step.Action
	if action == "" {
		action = contracts.ActionReplace
	}
	return fromMutateResult(fragment.Execute(file, language, *step.Target, step.Fragment, action, mctx))
}

// runLegacyOrComposed is dispatch steps 2-4 of spec.md §4.10's order: a
// bare L4 primitive name plus a locator, then a built-in or plan-defined
// composed operator. Anything else is ERR_UNKNOWN_OP.
func (rt *Router) runLegacyOrComposed(name string, params map[string]any, file string, language *lang.Language, mctx mutate.Context, customOps compose.Table) contracts.StepResult {
	if res, ok := rt.tryPrimitive(name, params, file, language, mctx); ok {
		return fromMutateResult(res)
	}

	node, warnings, err := rt.execComposed(name, params, file, language, mctx, customOps)
	if err != nil {
		return contracts.StepResult{Success: false, Error: err.Error(), Warnings: warnings}
	}
	return contracts.StepResult{Success: true, Result: node, Warnings: warnings}
}

// tryPrimitive dispatches the six L4 primitive names directly, used
// both for a top-level legacy step and as the base case of a composed
// operator's DSL interpreter.
func (rt *Router) tryPrimitive(name string, params map[string]any, file string, language *lang.Language, mctx mutate.Context) (mutate.Result, bool) {
	switch name {
	case "replace_node":
		loc := locatorParam(params, "locator")
		text := stringParam(params, "new_text", "text", "replacement")
		allowKindChange := boolParam(params, "allow_kind_change", false)
		return mutate.Replace(file, language, loc, text, allowKindChange, mctx), true

	case "insert_before_node":
		return mutate.InsertBefore(file, language, locatorParam(params, "locator"), stringParam(params, "text"), mctx), true

	case "insert_after_node":
		return mutate.InsertAfter(file, language, locatorParam(params, "locator"), stringParam(params, "text"), mctx), true

	case "delete_node":
		return mutate.Delete(file, language, locatorParam(params, "locator"), mctx), true

	case "wrap_node":
		before := stringParam(params, "before")
		after := stringParam(params, "after")
		indentBody := boolParam(params, "indent_body", false)
		return mutate.Wrap(file, language, locatorParam(params, "locator"), before, after, indentBody, mctx), true

	case "replace_all_matching":
		text := stringParam(params, "new_text", "text", "replacement")
		filter := stringParam(params, "filter")
		return mutate.ReplaceAllMatching(file, language, locatorParam(params, "locator"), text, filter, mctx), true

	default:
		return mutate.Result{}, false
	}
}

// execComposed expands name (built-in or plan-defined) into its DSLStep
// body and runs it through internal/dsl's interpreter, whose Exec
// closure recurses back into tryPrimitive/execComposed so nested
// composed operators resolve the same way a top-level step would
// (spec.md §4.8: "steps: {primitive|op|if}").
func (rt *Router) execComposed(name string, params map[string]any, file string, language *lang.Language, mctx mutate.Context, customOps compose.Table) (*contracts.Node, []string, error) {
	var steps []contracts.DSLStep
	switch {
	case compose.Builtins[name]:
		expanded, err := compose.Expand(name, params)
		if err != nil {
			return nil, nil, err
		}
		steps = expanded
	case customOps != nil:
		op, err := customOps.Expand(name, params)
		if err != nil {
			return nil, nil, err
		}
		steps = op.Steps
	default:
		return nil, nil, fmt.Errorf("unknown composed operator: %s", name)
	}

	scope := dsl.Scope{}
	for k, v := range params {
		scope[k] = v
	}
	exec := func(n string, p map[string]any) (*contracts.Node, []string, error) {
		if res, ok := rt.tryPrimitive(n, p, file, language, mctx); ok {
			if res.Err != nil {
				return nil, res.Warnings, res.Err
			}
			return res.Node, res.Warnings, nil
		}
		return rt.execComposed(n, p, file, language, mctx, customOps)
	}

	interp := dsl.NewInterpreter(scope, exec)
	warnings, err := interp.Run(steps)
	return nil, warnings, err
}

func missingParam(name string) error {
	return contracts.Error{Code: contracts.ErrMissingParam, Message: "missing required parameter: " + name}
}

func errResult(err error) contracts.StepResult {
	return contracts.StepResult{Success: false, Error: err.Error()}
}

func fromMutateResult(res mutate.Result) contracts.StepResult {
	if res.Err != nil {
		return contracts.StepResult{Success: false, Error: res.Err.Error(), RolledBack: res.RolledBack, Warnings: res.Warnings}
	}
	return contracts.StepResult{Success: true, Result: res.Node, Warnings: res.Warnings}
}
