package lang

import (
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newRust() *Language {
	return &Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		Sitter:     tsrust.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_item"},
			contracts.KindClass:     {"struct_item"},
			contracts.KindInterface: {"trait_item"},
			contracts.KindEnum:      {"enum_item"},
			contracts.KindImport:    {"use_declaration"},
			contracts.KindStatement: {"if_expression", "for_expression", "while_expression", "return_expression", "expression_statement", "let_declaration"},
		},
		LineKinds: map[string]string{
			"function_item":     "function",
			"struct_item":       "class",
			"trait_item":        "interface",
			"enum_item":         "enum",
			"use_declaration":   "import",
			"if_expression":     "condition",
			"for_expression":    "loop",
			"while_expression":  "loop",
			"line_comment":      "comment",
		},
		SymbolsQuery: `
			(function_item name: (identifier) @name) @target
			(struct_item name: (type_identifier) @name) @target
			(enum_item name: (type_identifier) @name) @target
		`,
		ImportsQuery: `(use_declaration argument: (_) @module) @target`,
		Builtins: builtinSet(
			"self", "Self", "None", "Some", "Ok", "Err", "true", "false",
			"String", "Vec", "Option", "Result", "Box", "panic!", "println!",
		),
		IsExported: func(name string) bool {
			return name != "" && name[0] >= 'A' && name[0] <= 'Z'
		},
	}
}
