package mutate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
)

// stringOrCommentKinds flags the native node types across the supported
// grammars that represent string literals and comments, used by the
// not_in_string_or_comment filter.
var stringOrCommentKinds = map[string]bool{
	"string":               true,
	"string_literal":       true,
	"interpreted_string_literal": true,
	"raw_string_literal":   true,
	"template_string":      true,
	"comment":              true,
	"line_comment":         true,
	"block_comment":        true,
}

// ReplaceAllMatching implements replace_all_matching: every node the
// locator resolves to is replaced with newText. When filter is
// "not_in_string_or_comment", matches whose ancestor chain includes a
// string or comment node are skipped (spec.md §4.4 algorithmic notes).
// Edits are applied in descending start-byte order (handled by run())
// so the result is independent of resolution order (spec.md §8 invariant 7).
func ReplaceAllMatching(path string, l *lang.Language, loc contracts.Locator, newText string, filter string, ctx Context) Result {
	return run(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]edit, string, bool, error) {
		matches := locate.Resolve(loc, l, tree, src)
		if filter == "not_in_string_or_comment" {
			matches = filterNotInStringOrComment(tree.RootNode(), matches)
		}
		if len(matches) == 0 {
			return nil, "", false, contracts.Error{Code: contracts.ErrNoEligibleOccur, Message: "replace_all_matching: no eligible occurrences"}
		}

		edits := make([]edit, 0, len(matches))
		for _, m := range matches {
			edits = append(edits, edit{start: int(m.StartByte()), end: int(m.EndByte()), text: []byte(newText)})
		}
		return edits, "", true, nil
	}, nil)
}

// filterNotInStringOrComment drops any match that is itself, or is
// nested inside, a string or comment node.
func filterNotInStringOrComment(root *sitter.Node, matches []*sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, m := range matches {
		if !ancestorIsStringOrComment(root, m) {
			out = append(out, m)
		}
	}
	return out
}

func ancestorIsStringOrComment(root, n *sitter.Node) bool {
	if n == nil {
		return false
	}
	if stringOrCommentKinds[n.Type()] {
		return true
	}
	parent := findParent(root, n)
	if parent == nil {
		return false
	}
	return ancestorIsStringOrComment(root, parent)
}

// findParent locates n's parent by walking from root, since tree-sitter
// nodes returned by query captures don't carry a direct Parent() handle
// in every binding version; this mirrors internal/locate's containment
// walk rather than relying on a possibly-absent API.
func findParent(root, n *sitter.Node) *sitter.Node {
	var found *sitter.Node
	var walk func(cur *sitter.Node)
	walk = func(cur *sitter.Node) {
		if found != nil {
			return
		}
		for i := 0; i < int(cur.ChildCount()); i++ {
			child := cur.Child(i)
			if child == nil {
				continue
			}
			if child.StartByte() == n.StartByte() && child.EndByte() == n.EndByte() && child.Type() == n.Type() {
				found = cur
				return
			}
			walk(child)
		}
	}
	walk(root)
	return found
}
