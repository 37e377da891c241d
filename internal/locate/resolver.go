// Package locate implements L3: resolving a contracts.Locator against a
// live CST. Resolution never throws and never caches across edits —
// every call walks the tree it is given (spec.md §4.3 Invariant, §3
// Locator.Invariant).
//
// Grounded in providers/base's findTargets/nodeMatches (type-then-name
// walk) and internal/matcher/tree.go's ASTMatcher (sexp query + capture
// resolution), unified behind one Resolve entry point that picks either
// strategy based on Locator.IsSexp().
package locate

import (
	"fmt"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
)

// Resolve implements resolve(loc, file, lang, tree, bytes) -> [Node]
// (spec.md §4.3). Never returns an error; an unresolvable locator simply
// yields an empty slice, leaving ambiguity/absence handling to the
// primitive precondition checks that call Resolve.
func Resolve(loc contracts.Locator, l *lang.Language, tree *sitter.Tree, src []byte) []*sitter.Node {
	if tree == nil || tree.RootNode() == nil {
		return nil
	}

	if loc.IsSexp() {
		return resolveSexp(loc, l, tree, src)
	}

	matches := resolveStructural(loc, l, tree, src)
	return applyModifiers(loc, matches)
}

// resolveSexp runs the raw tree-sitter query and returns every node
// captured under loc.Capture, in document order.
func resolveSexp(loc contracts.Locator, l *lang.Language, tree *sitter.Tree, src []byte) []*sitter.Node {
	q, err := sitter.NewQuery([]byte(loc.Query), l.Sitter)
	if err != nil {
		return nil
	}

	cursor := sitter.NewQueryCursor()
	cursor.Exec(q, tree.RootNode())

	var out []*sitter.Node
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, src)
		for _, cap := range match.Captures {
			if q.CaptureNameForId(cap.Index) == loc.Capture {
				out = append(out, cap.Node)
			}
		}
	}
	return out
}

// resolveStructural walks the tree collecting nodes whose native type
// matches loc.Kind and whose extracted name equals loc.Name (if given),
// honoring loc.Parent containment when present (spec.md §4.3 steps 2-4).
func resolveStructural(loc contracts.Locator, l *lang.Language, tree *sitter.Tree, src []byte) []*sitter.Node {
	targetTypes := l.NativeTypes(loc.Kind)
	if len(targetTypes) == 0 && loc.Kind != "" {
		return nil
	}

	var parentMatches []*sitter.Node
	if loc.Parent != nil {
		parentMatches = resolveStructural(*loc.Parent, l, tree, src)
		parentMatches = applyModifiers(*loc.Parent, parentMatches)
	}

	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if len(targetTypes) == 0 || slices.Contains(targetTypes, n.Type()) {
			if loc.Name == "" || extractName(l, n, src) == loc.Name {
				if loc.Parent == nil || isDescendantOfAny(n, parentMatches) {
					out = append(out, n)
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out
}

// applyModifiers applies loc.Field, loc.NthChild, and loc.Index in that
// order (spec.md §4.3 steps 5-7). An Index of -1 selects the last
// match, the same convention NthChild uses.
func applyModifiers(loc contracts.Locator, matches []*sitter.Node) []*sitter.Node {
	matches = applyFieldAndNthChild(loc, matches)

	if loc.Index != nil && len(matches) > 1 {
		idx := *loc.Index
		if idx == -1 {
			idx = len(matches) - 1
		}
		if idx < 0 || idx >= len(matches) {
			return nil
		}
		matches = []*sitter.Node{matches[idx]}
	}

	return matches
}

// IndexOutOfBounds reports whether loc names more than one candidate
// node but loc.Index falls outside that set, so a primitive precondition
// can surface spec.md §8's "locator index out of bounds" distinctly from
// plain "locator matched nothing" instead of Resolve's nil collapsing
// the two together.
func IndexOutOfBounds(loc contracts.Locator, l *lang.Language, tree *sitter.Tree, src []byte) bool {
	if loc.IsSexp() || loc.Index == nil || tree == nil || tree.RootNode() == nil {
		return false
	}
	matches := resolveStructural(loc, l, tree, src)
	matches = applyFieldAndNthChild(loc, matches)
	if len(matches) <= 1 {
		return false
	}
	idx := *loc.Index
	return idx < -1 || idx >= len(matches)
}

// applyFieldAndNthChild factors out the Field/NthChild stages of
// applyModifiers so IndexOutOfBounds can reconstruct the pre-Index match
// set without duplicating the Index branch itself.
func applyFieldAndNthChild(loc contracts.Locator, matches []*sitter.Node) []*sitter.Node {
	if loc.Field != "" {
		var withField []*sitter.Node
		for _, n := range matches {
			if f := n.ChildByFieldName(loc.Field); f != nil {
				withField = append(withField, f)
			}
		}
		matches = withField
	}

	if loc.NthChild != nil {
		var withChild []*sitter.Node
		for _, n := range matches {
			if c := nthChild(n, *loc.NthChild); c != nil {
				withChild = append(withChild, c)
			}
		}
		matches = withChild
	}

	return matches
}

func nthChild(n *sitter.Node, nth int) *sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	if nth == -1 {
		return n.NamedChild(count - 1)
	}
	if nth < 0 || nth >= count {
		return nil
	}
	return n.NamedChild(nth)
}

func isDescendantOfAny(n *sitter.Node, parents []*sitter.Node) bool {
	for _, p := range parents {
		if isDescendantOf(n, p) {
			return true
		}
	}
	return false
}

func isDescendantOf(n, p *sitter.Node) bool {
	if n == nil || p == nil {
		return false
	}
	if n.StartByte() >= p.StartByte() && n.EndByte() <= p.EndByte() && n != p {
		return true
	}
	return false
}

// extractName pulls a definition's identifier using the language's
// declared name field, falling back to the first identifier-ish child.
func extractName(l *lang.Language, n *sitter.Node, src []byte) string {
	field := l.NameField
	if field == "" {
		field = "name"
	}
	if named := n.ChildByFieldName(field); named != nil {
		return named.Content(src)
	}
	return ""
}

// ErrAmbiguous is returned by callers (primitives) that require a unique
// target when resolution produced more than one match and no Index was
// supplied to disambiguate (spec.md §4.4 precondition, §8 boundary case).
func ErrAmbiguous(count int) error {
	return fmt.Errorf("ambiguous locator: %d matches, no index provided", count)
}
