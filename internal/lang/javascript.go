package lang

import (
	tsjs "github.com/smacker/go-tree-sitter/javascript"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newJavaScript() *Language {
	return &Language{
		Name:       "javascript",
		Aliases:    []string{"js"},
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Sitter:     tsjs.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_declaration", "function", "arrow_function", "method_definition"},
			contracts.KindMethod:    {"method_definition"},
			contracts.KindClass:     {"class_declaration"},
			contracts.KindImport:    {"import_statement"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "return_statement", "expression_statement", "variable_declaration"},
		},
		LineKinds: map[string]string{
			"function_declaration": "function",
			"class_declaration":    "class",
			"import_statement":     "import",
			"if_statement":         "condition",
			"for_statement":        "loop",
			"while_statement":      "loop",
			"comment":              "comment",
		},
		SymbolsQuery: `
			(function_declaration name: (identifier) @name) @target
			(class_declaration name: (identifier) @name) @target
		`,
		ImportsQuery: `(import_statement source: (string) @module) @target`,
		Builtins: builtinSet(
			"undefined", "null", "this", "console", "window", "document", "require",
			"module", "exports", "Object", "Array", "Promise", "Error", "JSON", "Math",
		),
		IsExported: func(name string) bool { return true },
	}
}
