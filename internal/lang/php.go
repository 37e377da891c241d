package lang

import (
	tsphp "github.com/smacker/go-tree-sitter/php"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newPHP() *Language {
	return &Language{
		Name:       "php",
		Extensions: []string{".php"},
		Sitter:     tsphp.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_definition", "method_declaration"},
			contracts.KindMethod:    {"method_declaration"},
			contracts.KindClass:     {"class_declaration"},
			contracts.KindInterface: {"interface_declaration"},
			contracts.KindImport:    {"namespace_use_declaration"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "return_statement", "expression_statement"},
		},
		LineKinds: map[string]string{
			"function_definition":       "function",
			"method_declaration":        "function",
			"class_declaration":         "class",
			"interface_declaration":     "interface",
			"namespace_use_declaration": "import",
			"if_statement":              "condition",
			"while_statement":           "loop",
			"comment":                   "comment",
		},
		SymbolsQuery: `
			(function_definition name: (name) @name) @target
			(method_declaration name: (name) @name) @target
			(class_declaration name: (name) @name) @target
		`,
		ImportsQuery: `(namespace_use_declaration (namespace_use_clause (qualified_name) @module)) @target`,
		Builtins: builtinSet(
			"this", "self", "parent", "null", "true", "false", "static",
			"Exception", "array", "isset", "empty", "echo", "print",
		),
		IsExported: func(name string) bool { return true },
	}
}
