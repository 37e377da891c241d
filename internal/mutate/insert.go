package mutate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
)

// InsertBefore implements insert_before_node: text is spliced in before
// each matched node's line, indented to the anchor's column (spec.md
// §4.4 "insert_before/after auto-indents ... to the column of the anchor
// node's line").
func InsertBefore(path string, l *lang.Language, loc contracts.Locator, text string, ctx Context) Result {
	return insertAt(path, l, loc, text, true, ctx)
}

// InsertAfter implements insert_after_node, same indentation rule but
// placed after the anchor's full line.
func InsertAfter(path string, l *lang.Language, loc contracts.Locator, text string, ctx Context) Result {
	return insertAt(path, l, loc, text, false, ctx)
}

// indentEachLine prefixes indent to every line of text, not just the
// first, so a multi-line payload's own internal nesting (e.g. a guard
// clause's body one level deeper than its "if") stacks on top of the
// anchor's column instead of being flattened to it (spec.md §4.4
// "insert_before/after auto-indents... to the column of the anchor").
func indentEachLine(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

func insertAt(path string, l *lang.Language, loc contracts.Locator, text string, before bool, ctx Context) Result {
	return run(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]edit, string, bool, error) {
		matches := locate.Resolve(loc, l, tree, src)
		if len(matches) == 0 {
			if locate.IndexOutOfBounds(loc, l, tree, src) {
				return nil, "", false, contracts.Error{Code: contracts.ErrIndexOutOfBounds, Message: "insert: locator index out of bounds"}
			}
			return nil, "", false, contracts.Error{Code: contracts.ErrNoMatch, Message: "insert: locator matched nothing"}
		}

		var edits []edit
		for _, target := range matches {
			anchorStart, anchorEnd := int(target.StartByte()), int(target.EndByte())
			if before {
				lineStart, _ := onlyWhitespaceBefore(src, int(target.StartByte()))
				indent := indentOf(src, int(target.StartByte()))
				payload := []byte(indentEachLine(text, string(indent)) + "\n")
				edits = append(edits, edit{start: lineStart, end: lineStart, text: payload, anchorStart: anchorStart, anchorEnd: anchorEnd})
			} else {
				indent := indentOf(src, int(target.StartByte()))
				lineAfter := lineEndAfter(src, int(target.EndByte()))
				payload := []byte(indentEachLine(text, string(indent)) + "\n")
				edits = append(edits, edit{start: lineAfter, end: lineAfter, text: payload, anchorStart: anchorStart, anchorEnd: anchorEnd})
			}
		}
		return edits, "", true, nil
	}, nil)
}
