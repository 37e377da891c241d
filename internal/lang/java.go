package lang

import (
	tsjava "github.com/smacker/go-tree-sitter/java"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newJava() *Language {
	return &Language{
		Name:       "java",
		Extensions: []string{".java"},
		Sitter:     tsjava.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"method_declaration", "constructor_declaration"},
			contracts.KindMethod:    {"method_declaration"},
			contracts.KindClass:     {"class_declaration"},
			contracts.KindInterface: {"interface_declaration"},
			contracts.KindEnum:      {"enum_declaration"},
			contracts.KindImport:    {"import_declaration"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "try_statement", "return_statement", "expression_statement"},
		},
		LineKinds: map[string]string{
			"method_declaration":    "function",
			"class_declaration":     "class",
			"interface_declaration": "interface",
			"enum_declaration":      "enum",
			"import_declaration":    "import",
			"if_statement":          "condition",
			"for_statement":         "loop",
			"line_comment":          "comment",
			"block_comment":         "comment",
		},
		SymbolsQuery: `
			(method_declaration name: (identifier) @name) @target
			(class_declaration name: (identifier) @name) @target
			(interface_declaration name: (identifier) @name) @target
		`,
		ImportsQuery: `(import_declaration (scoped_identifier) @module) @target`,
		Builtins: builtinSet(
			"this", "super", "null", "true", "false", "System", "Object", "String",
			"Integer", "Exception", "RuntimeException", "List", "Map", "Optional",
		),
		IsExported: func(name string) bool {
			return name != "" && name[0] >= 'A' && name[0] <= 'Z'
		},
	}
}
