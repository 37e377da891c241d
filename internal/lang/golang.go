package lang

import (
	"unicode"

	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newGo() *Language {
	return &Language{
		Name:       "go",
		Aliases:    []string{"golang"},
		Extensions: []string{".go"},
		Sitter:     tsgo.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"function_declaration", "method_declaration"},
			contracts.KindMethod:    {"method_declaration"},
			contracts.KindClass:     {"type_spec"},
			contracts.KindInterface: {"type_spec"},
			contracts.KindImport:    {"import_spec"},
			contracts.KindStatement: {"if_statement", "for_statement", "expression_statement", "return_statement", "assignment_statement", "short_var_declaration"},
			contracts.KindEnum:      {"const_declaration"},
		},
		LineKinds: map[string]string{
			"function_declaration":  "function",
			"method_declaration":    "function",
			"import_declaration":    "import",
			"if_statement":          "condition",
			"for_statement":         "loop",
			"comment":               "comment",
			"type_declaration":      "type",
			"const_declaration":     "constant",
			"var_declaration":       "variable",
		},
		SymbolsQuery: `
			(function_declaration name: (identifier) @name) @target
			(method_declaration name: (field_identifier) @name) @target
			(type_spec name: (type_identifier) @name) @target
		`,
		ImportsQuery: `(import_spec path: (interpreted_string_literal) @module) @target`,
		Builtins: builtinSet(
			"len", "cap", "append", "make", "new", "copy", "delete", "panic",
			"recover", "print", "println", "close", "nil", "true", "false",
			"error", "string", "int", "int64", "int32", "float64", "bool", "byte", "rune",
		),
		IsExported: func(name string) bool {
			if name == "" {
				return false
			}
			r := []rune(name)[0]
			return unicode.IsUpper(r)
		},
	}
}

func builtinSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
