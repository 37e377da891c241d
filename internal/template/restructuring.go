package template

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

func init() {
	register(&Template{
		Name: "extract_variable",
		Params: []Param{
			{Name: "enclosing_statement", Kind: KindLocator, Required: true},
			{Name: "expression_target", Kind: KindLocator, Required: true},
			{Name: "name", Kind: KindIdentifier, Required: true},
			{Name: "expression_text", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			name := strParam(params, "name")
			expr := strParam(params, "expression_text")

			// spec.md §4.6: insert `<name> = <expr>` before the enclosing
			// statement, then replace the expression at its original
			// location with `<name>`. The two calls run against
			// independently re-read/re-parsed file state, so the second
			// locator (structural, not offset-based) resolves correctly
			// without any manual byte-offset bookkeeping.
			res := mutate.InsertBefore(path, l, locParam(params, "enclosing_statement"), name+" = "+expr, mctx)
			if !res.Success {
				return res
			}
			return mutate.Replace(path, l, locParam(params, "expression_target"), name, false, mctx)
		},
	})

	register(&Template{
		Name: "inline_variable",
		Params: []Param{
			{Name: "assignment", Kind: KindLocator, Required: true},
			{Name: "usage_target", Kind: KindLocator, Required: true},
			{Name: "value_text", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			value := strParam(params, "value_text")
			res := mutate.Replace(path, l, locParam(params, "usage_target"), value, false, mctx)
			if !res.Success {
				return res
			}
			return mutate.Delete(path, l, locParam(params, "assignment"), mctx)
		},
	})
}
