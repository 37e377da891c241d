package lang

import (
	tsc "github.com/smacker/go-tree-sitter/c"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newC() *Language {
	return &Language{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		Sitter:     tsc.GetLanguage(),
		NameField:  "declarator",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_definition"},
			contracts.KindClass:     {"struct_specifier"},
			contracts.KindEnum:      {"enum_specifier"},
			contracts.KindImport:    {"preproc_include"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "return_statement", "expression_statement"},
		},
		LineKinds: map[string]string{
			"function_definition": "function",
			"struct_specifier":    "class",
			"preproc_include":     "import",
			"if_statement":        "condition",
			"for_statement":       "loop",
			"comment":             "comment",
		},
		SymbolsQuery: `(function_definition declarator: (function_declarator declarator: (identifier) @name)) @target`,
		ImportsQuery: `(preproc_include path: (_) @module) @target`,
		Builtins: builtinSet(
			"NULL", "true", "false", "printf", "malloc", "free", "memcpy", "sizeof",
		),
		IsExported: func(name string) bool { return true },
	}
}
