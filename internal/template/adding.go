package template

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

func init() {
	register(&Template{
		Name: "guard_clause",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "condition", Kind: KindExpression, Required: true},
			{Name: "guard_body", Kind: KindStatement, Required: true},
		},
		InputKind:  contracts.KindFunction,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			cond := strParam(params, "condition")
			body := strParam(params, "guard_body")
			text := "if " + cond + ":\n    " + body
			return mutate.InsertBefore(path, l, locParam(params, "target"), text, mctx)
		},
	})

	register(&Template{
		Name: "add_import_and_use",
		Params: []Param{
			{Name: "import_statement", Kind: KindStatement, Required: true},
			{Name: "use_target", Kind: KindLocator, Required: true},
			{Name: "use_text", Kind: KindExpression, Required: true},
			{Name: "anchor", Kind: KindLocator, Required: false},
		},
		InputKind:  contracts.KindImport,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			anchor := locParam(params, "anchor")
			if anchor.Kind == "" {
				anchor = contracts.Locator{Kind: contracts.KindImport, Index: intPtr(-1)}
			}
			res := mutate.InsertAfter(path, l, anchor, strParam(params, "import_statement"), mctx)
			if !res.Success {
				return res
			}
			return mutate.Replace(path, l, locParam(params, "use_target"), strParam(params, "use_text"), true, mctx)
		},
	})

	register(&Template{
		Name: "add_method",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "method_name", Kind: KindIdentifier, Required: true},
			{Name: "params", Kind: KindExpression, Required: false, Default: ""},
			{Name: "body", Kind: KindStatement, Required: true},
		},
		InputKind:  contracts.KindClass,
		OutputKind: contracts.KindMethod,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			sig := strParam(params, "method_name") + "(" + strParam(params, "params") + ")"
			text := "def " + sig + ":\n    " + strParam(params, "body")
			return mutate.InsertAfter(path, l, locParam(params, "target"), text, mctx)
		},
	})

	register(&Template{
		Name: "add_parameter",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "param_name", Kind: KindIdentifier, Required: true},
			{Name: "type_annotation", Kind: KindExpression, Required: false, Default: ""},
			{Name: "default_value", Kind: KindExpression, Required: false, Default: ""},
			{Name: "position", Kind: KindEnum, Required: false, Default: "last", Enum: []string{"first", "last"}},
		},
		InputKind:  contracts.KindFunction,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			paramsLoc := locParam(params, "target")
			paramsLoc.Field = "parameters"

			text := strParam(params, "param_name")
			if t := strParam(params, "type_annotation"); t != "" {
				text += ": " + t
			}
			if d := strParam(params, "default_value"); d != "" {
				text += " = " + d
			}

			// insert_after_node against the last existing parameter (or
			// before the first, per position) keeps this a pure L4
			// insert rather than a bespoke child-splice primitive.
			loc := paramsLoc
			loc.NthChild = intPtr(-1)
			if strParam(params, "position") == "first" {
				loc.NthChild = intPtr(0)
				return mutate.InsertBefore(path, l, loc, text+",", mctx)
			}
			return mutate.InsertAfter(path, l, loc, ","+text, mctx)
		},
	})

	register(&Template{
		Name: "add_class_attribute",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "attribute_name", Kind: KindIdentifier, Required: true},
			{Name: "value", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindClass,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			text := strParam(params, "attribute_name") + " = " + strParam(params, "value")
			return mutate.InsertBefore(path, l, locParam(params, "target"), text, mctx)
		},
	})

	register(&Template{
		Name: "add_decorator",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "decorator", Kind: KindExpression, Required: true},
		},
		InputKind:  contracts.KindFunction,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			dec := strParam(params, "decorator")
			if len(dec) == 0 || dec[0] != '@' {
				dec = "@" + dec
			}
			return mutate.InsertBefore(path, l, locParam(params, "target"), dec, mctx)
		},
	})

	register(&Template{
		Name: "add_conditional_branch",
		Params: []Param{
			{Name: "target", Kind: KindLocator, Required: true},
			{Name: "branch_kind", Kind: KindEnum, Required: true, Enum: []string{"elif", "else"}},
			{Name: "condition", Kind: KindExpression, Required: false, Default: ""},
			{Name: "body", Kind: KindStatement, Required: true},
		},
		InputKind:  contracts.KindStatement,
		OutputKind: contracts.KindStatement,
		Handler: func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
			var header string
			if strParam(params, "branch_kind") == "elif" {
				header = "elif " + strParam(params, "condition") + ":"
			} else {
				header = "else:"
			}
			text := header + "\n    " + strParam(params, "body")
			return mutate.InsertAfter(path, l, locParam(params, "target"), text, mctx)
		},
	})
}

func intPtr(i int) *int { return &i }
