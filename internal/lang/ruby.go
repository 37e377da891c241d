package lang

import (
	tsruby "github.com/smacker/go-tree-sitter/ruby"

	"github.com/oxhq/cstforge/internal/contracts"
)

func newRuby() *Language {
	return &Language{
		Name:       "ruby",
		Aliases:    []string{"rb"},
		Extensions: []string{".rb"},
		Sitter:     tsruby.GetLanguage(),
		NameField:  "name",
		KindMap: map[contracts.Kind][]string{
			contracts.KindFunction:  {"method"},
			contracts.KindMethod:    {"method"},
			contracts.KindClass:     {"class"},
			contracts.KindImport:    {"call"}, // require/require_relative surface as call nodes
			contracts.KindStatement: {"if", "for", "while", "begin", "return", "assignment"},
		},
		LineKinds: map[string]string{
			"method":   "function",
			"class":    "class",
			"if":       "condition",
			"while":    "loop",
			"for":      "loop",
			"comment":  "comment",
		},
		SymbolsQuery: `
			(method name: (identifier) @name) @target
			(class name: (constant) @name) @target
		`,
		ImportsQuery: `(call method: (identifier) @_m (#match? @_m "^require") argument_list: (argument_list (string) @module)) @target`,
		Builtins: builtinSet(
			"self", "nil", "true", "false", "puts", "print", "require",
			"attr_accessor", "attr_reader", "attr_writer", "raise", "Kernel",
		),
		IsExported: func(name string) bool {
			return name != "" && name[0] != '_'
		},
	}
}
