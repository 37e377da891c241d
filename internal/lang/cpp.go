package lang

import (
	tscpp "github.com/smacker/go-tree-sitter/cpp"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newCPP() *Language {
	return &Language{
		Name:       "cpp",
		Aliases:    []string{"c++", "cc"},
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp"},
		Sitter:     tscpp.GetLanguage(),
		NameField:  "declarator",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_definition"},
			contracts.KindClass:     {"class_specifier", "struct_specifier"},
			contracts.KindEnum:      {"enum_specifier"},
			contracts.KindImport:    {"preproc_include"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "return_statement", "expression_statement"},
		},
		LineKinds: map[string]string{
			"function_definition": "function",
			"class_specifier":     "class",
			"struct_specifier":    "class",
			"preproc_include":     "import",
			"if_statement":        "condition",
			"for_statement":       "loop",
			"comment":             "comment",
		},
		SymbolsQuery: `(function_definition declarator: (function_declarator declarator: (identifier) @name)) @target`,
		ImportsQuery: `(preproc_include path: (_) @module) @target`,
		Builtins: builtinSet(
			"nullptr", "true", "false", "this", "std", "cout", "cin", "endl", "new", "delete",
		),
		IsExported: func(name string) bool { return true },
	}
}
