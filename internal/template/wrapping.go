package template

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

func init() {
	register(&Template{
		Name: "wrap_try_except",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "exception", Kind: KindExpression, Required: false, Default: "Exception"},
			{Name: "as_var", Kind: KindIdentifier, Required: false, Default: ""},
			{Name: "handler_body", Kind: KindStatement, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			exc := strParam(params, "exception")
			header := "except " + exc
			if as := strParam(params, "as_var"); as != "" {
				header += " as " + as
			}
			after := header + ":\n    " + strParam(params, "handler_body")
			return mutate.Wrap(path, l, locParam(params, "target"), "try:", after, true, mctx)
		},
	})

	register(&Template{
		Name: "wrap_context_manager",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "context_expr", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			return mutate.Wrap(path, l, locParam(params, "target"), "with "+strParam(params, "context_expr")+":", "", true, mctx)
		},
	})
}
