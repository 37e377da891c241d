// Package parser is the L1 parser facade: parse a byte buffer into a CST,
// re-parse after edits, and detect ERROR subtrees. Every other layer that
// needs a tree calls through here instead of touching *sitter.Parser
// directly, so re-parsing stays a single well-known seam (spec.md §5:
// "Parse trees ... never cached across edits").
package parser

import (
	"context"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/lang"
)

// Parse parses src with l's grammar and returns the resulting tree. The
// caller owns the tree and must call tree.Close() when done with it,
// mirroring the teacher's base.Provider usage of sitter.Tree.
func Parse(l *lang.Language, src []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(l.Sitter)
	return p.ParseCtx(context.Background(), nil, src)
}

// ParsesOK reports whether tree contains no ERROR node, i.e. the source
// it was parsed from is syntactically valid for the language's grammar
// (spec.md L0 postcondition, parses_ok).
func ParsesOK(tree *sitter.Tree) bool {
	if tree == nil || tree.RootNode() == nil {
		return false
	}
	return !hasError(tree.RootNode())
}

func hasError(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if hasError(n.Child(i)) {
			return true
		}
	}
	return false
}

// ErrorNodes collects line/column-described error messages for every
// ERROR node in the tree, used for diagnostics when a parse fails.
func ErrorNodes(tree *sitter.Tree) []string {
	var out []string
	if tree == nil || tree.RootNode() == nil {
		return out
	}
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "ERROR" {
			out = append(out, formatErrorLoc(n))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out
}

func formatErrorLoc(n *sitter.Node) string {
	p := n.StartPoint()
	return "syntax error at line " + strconv.Itoa(int(p.Row)+1) + ", column " + strconv.Itoa(int(p.Column)+1)
}
