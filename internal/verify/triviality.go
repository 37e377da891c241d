package verify

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// trivialBodyKinds are native node types a replacement body consisting
// solely of one of these (plus whitespace/comments) is considered a
// stub rather than real work (spec.md §4.5 L6 "reject no-op bodies").
var trivialBodyKinds = map[string]bool{
	"pass_statement":  true, // python
	"empty_statement": true, // js/ts/go block `{}`
	"comment":         true,
}

// trivialText catches single-token bodies some grammars fold into a
// generic expression_statement rather than a dedicated node type.
var trivialText = map[string]bool{
	"pass": true, "...": true, "TODO": true, "": true,
}

// NonTrivial runs the L6 check: a replacement whose body is empty, a
// bare pass/ellipsis, or only comments is flagged. It never blocks
// (spec.md §4.5 L6); some templates (e.g. guard_clause against an empty
// function) legitimately produce a body that looks trivial on its own
// but is correct in context, so this is advisory only.
func NonTrivial(replacement *sitter.Node, src []byte) []string {
	if replacement == nil {
		return nil
	}

	body := bodyOf(replacement)
	if body == nil {
		return nil
	}

	meaningful := 0
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if trivialBodyKinds[child.Type()] {
			continue
		}
		text := strings.TrimSpace(child.Content(src))
		if trivialText[text] {
			continue
		}
		meaningful++
	}

	if meaningful == 0 {
		return []string{"replacement body contains no non-trivial statements"}
	}
	return nil
}

// bodyOf returns the node's "body" field when present, or the node
// itself when it has no such field (e.g. a bare statement replacement).
func bodyOf(n *sitter.Node) *sitter.Node {
	if b := n.ChildByFieldName("body"); b != nil {
		return b
	}
	return n
}
