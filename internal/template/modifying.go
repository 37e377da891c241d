package template

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/fragment"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

func init() {
	register(&Template{
		Name: "replace_expression",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "new_expression", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			return mutate.Replace(path, l, locParam(params, "target"), strParam(params, "new_expression"), false, mctx)
		},
	})

	register(&Template{
		Name: "modify_condition",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "new_condition", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			// spec.md §4.6: splice only the `condition` field of the
			// matched if/while/for; re-parse; rollback on ERROR. The
			// preflight check here rejects a condition that does not
			// parse on its own, with a more specific error message; a
			// condition that parses alone but breaks the host statement
			// passes it and is caught by run()'s L0 re-parse, which
			// rolls the edit back.
			newCond := strParam(params, "new_condition")
			if !preflightSyntax(newCond, l) {
				return mutate.Result{Err: contracts.Error{Code: contracts.ErrParamValidation, Message: "new_condition does not parse standalone"}}
			}
			loc := locParam(params, "target")
			loc.Field = "condition"
			return mutate.Replace(path, l, loc, newCond, true, mctx)
		},
	})

	register(&Template{
		Name: "change_return_value",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "new_value", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			return mutate.Replace(path, l, locParam(params, "target"), "return "+strParam(params, "new_value"), false, mctx)
		},
	})

	register(&Template{
		Name: "replace_function_body",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "new_body", Kind: KindFragment, Required: true},
		},
		InputKind:  contracts.KindFunction,
		OutputKind: contracts.KindFunction,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			frag, _ := params["new_body"].(*contracts.ASTFrag)
			loc := locParam(params, "target")
			loc.Field = "body"
			return fragment.Execute(path, l, loc, frag, contracts.ActionReplace, mctx)
		},
	})
}
