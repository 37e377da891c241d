package verify

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
)

// Scope describes what's visible at an edit site: symbols defined
// anywhere in the file (approximating "binding in scope", since a full
// lexical-scope walk is out of scope per spec.md §9's open question on
// L3/L4 false positives) plus the language's static builtin list and the
// file's import table.
type Scope struct {
	FileSymbols map[string]bool
	Imported    map[string]bool
}

// NewScope builds a Scope from the symbols/imports the graph builder
// already collected for this file.
func NewScope(symbols []contracts.Symbol, imports []contracts.Import) Scope {
	s := Scope{FileSymbols: map[string]bool{}, Imported: map[string]bool{}}
	for _, sym := range symbols {
		s.FileSymbols[sym.Name] = true
	}
	for _, imp := range imports {
		if imp.Symbol != "" {
			s.Imported[imp.Symbol] = true
		}
		s.Imported[imp.Module] = true
	}
	return s
}

// Referential runs the L3 check: every identifier read inside
// replacement must resolve to a local definition, a file-level binding,
// a builtin, or an import. It never blocks; it returns one warning per
// unresolved identifier (spec.md §4.5 L3).
func Referential(l *lang.Language, replacement *sitter.Node, src []byte, scope Scope, hasStarImport bool) []string {
	if replacement == nil {
		return nil
	}

	localDefs := map[string]bool{}
	collectLocalDefs(replacement, src, localDefs)

	var warnings []string
	seen := map[string]bool{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "identifier" || n.Type() == "field_identifier" {
			name := n.Content(src)
			if !seen[name] && !resolvable(name, localDefs, scope, l, hasStarImport) {
				seen[name] = true
				warnings = append(warnings, "unresolved identifier: "+name)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(replacement)
	return warnings
}

func resolvable(name string, localDefs map[string]bool, scope Scope, l *lang.Language, hasStarImport bool) bool {
	if localDefs[name] {
		return true
	}
	if scope.FileSymbols[name] {
		return true
	}
	if l.Builtins[name] {
		return true
	}
	if scope.Imported[name] {
		return true
	}
	if hasStarImport {
		return true
	}
	return false
}

// collectLocalDefs walks replacement gathering every name bound by a
// field named "name", "left" or "declarator" (covers function/class/variable
// definitions across the supported grammars closely enough for an
// advisory check).
func collectLocalDefs(n *sitter.Node, src []byte, out map[string]bool) {
	for _, field := range []string{"name", "left", "declarator"} {
		if named := n.ChildByFieldName(field); named != nil {
			out[named.Content(src)] = true
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectLocalDefs(n.Child(i), src, out)
	}
}
