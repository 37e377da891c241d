package lang

import (
	tsts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newTypeScript() *Language {
	return &Language{
		Name:       "typescript",
		Aliases:    []string{"ts"},
		Extensions: []string{".ts", ".tsx"},
		Sitter:     tsts.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_declaration", "function", "arrow_function", "method_definition"},
			contracts.KindMethod:    {"method_definition"},
			contracts.KindClass:     {"class_declaration"},
			contracts.KindInterface: {"interface_declaration"},
			contracts.KindEnum:      {"enum_declaration"},
			contracts.KindImport:    {"import_statement"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "return_statement", "expression_statement", "variable_declaration"},
		},
		LineKinds: map[string]string{
			"function_declaration":  "function",
			"class_declaration":     "class",
			"interface_declaration": "interface",
			"enum_declaration":      "enum",
			"import_statement":      "import",
			"if_statement":          "condition",
			"for_statement":         "loop",
			"comment":               "comment",
		},
		SymbolsQuery: `
			(function_declaration name: (identifier) @name) @target
			(class_declaration name: (type_identifier) @name) @target
			(interface_declaration name: (type_identifier) @name) @target
		`,
		ImportsQuery: `(import_statement source: (string) @module) @target`,
		Builtins: builtinSet(
			"undefined", "null", "this", "console", "window", "document", "require",
			"Object", "Array", "Promise", "Error", "JSON", "Math", "any", "unknown", "never",
		),
		IsExported: func(name string) bool { return true },
	}
}
