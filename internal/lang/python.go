package lang

import (
	tspy "github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newPython() *Language {
	return &Language{
		Name:       "python",
		Aliases:    []string{"py"},
		Extensions: []string{".py"},
		Sitter:     tspy.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_definition"},
			contracts.KindMethod:    {"function_definition"},
			contracts.KindClass:     {"class_definition"},
			contracts.KindImport:    {"import_statement", "import_from_statement"},
			contracts.KindStatement: {"if_statement", "for_statement", "while_statement", "with_statement", "try_statement", "return_statement", "raise_statement", "assignment", "expression_statement"},
		},
		LineKinds: map[string]string{
			"function_definition":   "function",
			"class_definition":      "class",
			"import_statement":      "import",
			"import_from_statement": "import",
			"if_statement":          "condition",
			"for_statement":         "loop",
			"while_statement":       "loop",
			"comment":               "comment",
			"decorator":             "decorator",
		},
		SymbolsQuery: `
			(function_definition name: (identifier) @name) @target
			(class_definition name: (identifier) @name) @target
		`,
		ImportsQuery: `
			(import_statement name: (dotted_name) @module) @target
			(import_from_statement module_name: (dotted_name) @module) @target
		`,
		Builtins: builtinSet(
			"None", "True", "False", "self", "cls", "print", "len", "range",
			"str", "int", "float", "bool", "list", "dict", "set", "tuple",
			"isinstance", "super", "Exception", "ValueError", "TypeError", "KeyError",
		),
		IsExported: func(name string) bool {
			return name != "" && name[0] != '_'
		},
	}
}
