package verify

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// selectorKinds lists the native node types across the supported
// grammars that represent "module.member" or "object.attribute" access,
// gathered from each language's KindMap in internal/lang.
var selectorKinds = map[string]bool{
	"selector_expression": true, // go
	"attribute":           true, // python
	"member_expression":   true, // js/ts
	"field_access":        true, // java/rust
	"scoped_identifier":   true, // rust paths
	"scope_resolution":    true, // php/cpp
}

// ImportClosure runs the L4 check: every qualified reference
// (pkg.Symbol) inside replacement must name a module that appears in the
// file's import table. It never blocks (spec.md §4.5 L4); it only warns,
// since a reference to an import added by the same plan step elsewhere
// in the file is legitimate and this check has no cross-step visibility.
func ImportClosure(replacement *sitter.Node, src []byte, imported map[string]bool) []string {
	if replacement == nil {
		return nil
	}

	var warnings []string
	seen := map[string]bool{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if selectorKinds[n.Type()] {
			if qualifier := leftmostIdentifier(n, src); qualifier != "" && !seen[qualifier] {
				if !imported[qualifier] {
					seen[qualifier] = true
					warnings = append(warnings, "reference to unimported module: "+qualifier)
				} else {
					seen[qualifier] = true
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(replacement)
	return warnings
}

// leftmostIdentifier descends a selector chain's first child until it
// hits a plain identifier, e.g. "a.b.c" -> "a".
func leftmostIdentifier(n *sitter.Node, src []byte) string {
	cur := n
	for cur != nil {
		if cur.Type() == "identifier" {
			return cur.Content(src)
		}
		left := cur.ChildByFieldName("object")
		if left == nil {
			left = cur.ChildByFieldName("left")
		}
		if left == nil && cur.NamedChildCount() > 0 {
			left = cur.NamedChild(0)
		}
		if left == nil || left == cur {
			break
		}
		cur = left
	}
	if cur != nil && cur.Type() == "identifier" {
		return cur.Content(src)
	}
	return firstIdentToken(n, src)
}

// firstIdentToken is a last-resort fallback: take the text before the
// first '.' when the grammar's field names don't match our guesses.
func firstIdentToken(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	if i := strings.IndexByte(text, '.'); i > 0 {
		return text[:i]
	}
	return ""
}
