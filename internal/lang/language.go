// Package lang is the L0 language registry: file-extension to language
// resolution, per-language CST node-type tables, and the symbol/import
// query strings higher layers use to build a Graph (internal/graph) and
// resolve Locators (internal/locate) without ever mentioning a native
// tree-sitter node type themselves.
//
// Grounded in providers/golang's Config (alias map, extensions,
// GetLanguage) and internal/registry's Registry (name/alias/extension
// lookup), generalized to the full 10-language matrix spec.md §4.1 asks
// for instead of Go alone.
package lang

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
)

// Language bundles everything higher layers need to speak in normalized
// kinds and queries instead of a parser's native vocabulary.
type Language struct {
	// Name is the canonical identifier ("go", "python", ...).
	Name string

	// Aliases are additional names this language answers to ("golang",
	// "js" -> "javascript", etc).
	Aliases []string

	// Extensions lists file extensions, each beginning with a dot.
	Extensions []string

	// Sitter is the tree-sitter grammar for this language.
	Sitter *sitter.Language

	// KindMap maps a normalized contracts.Kind to the native node type
	// names that realize it in this language's grammar.
	KindMap map[contracts.Kind][]string

	// NameField is the tree-sitter field name holding a definition's
	// identifier (usually "name"); used by the locator resolver to pull
	// the declared name out of a matched node.
	NameField string

	// LineKinds maps a native node type to the line-kind label the graph
	// builder reports for any line that node starts on.
	LineKinds map[string]string

	// SymbolsQuery is a tree-sitter query whose @name/@target captures
	// the graph builder runs to collect Symbol entries.
	SymbolsQuery string

	// ImportsQuery is a tree-sitter query whose @target/@module
	// captures the graph builder runs to collect Import entries.
	ImportsQuery string

	// Builtins is a static list of names considered always in scope for
	// L3 referential-integrity checks (spec.md §4.5 L3 clause c).
	Builtins map[string]bool

	// IsExported reports whether a symbol name is part of the language's
	// public surface, mirroring the teacher's
	// base.Provider.calculateConfidence "exported API" factor. No check
	// in this module calls it.
	IsExported func(name string) bool
}

// NativeTypes returns the native node types for a normalized kind, or nil
// if this language has no mapping for it.
func (l *Language) NativeTypes(k contracts.Kind) []string {
	return l.KindMap[k]
}

// LineKindFor returns the line-kind label for a native node type, or ""
// if this language assigns it none.
func (l *Language) LineKindFor(nodeType string) string {
	return l.LineKinds[nodeType]
}
