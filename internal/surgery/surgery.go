// Package surgery implements Tier 1: move/copy/swap/rename/reorder/
// delete over existing subtrees, no code generation (spec.md §1, §4.4
// "reorder_children (surgery)"). Every op here ultimately runs through
// internal/mutate's same execution protocol as the six L4 primitives;
// this package only supplies the structural logic (what to copy, what
// order to re-emit children in) on top of it.
package surgery

import (
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
	"github.com/oxhq/cstforge/internal/mutate"
	"github.com/oxhq/cstforge/internal/parser"
)

// RenameIdentifier renames every occurrence matched by loc (typically an
// identifier-kind locator scoped to a definition's reference set) to
// newName. It is replace_all_matching under a different name — the
// surgery-level framing is that the replacement text is always a bare
// identifier, never arbitrary code.
func RenameIdentifier(path string, l *lang.Language, loc contracts.Locator, newName string, filter string, ctx mutate.Context) mutate.Result {
	return mutate.ReplaceAllMatching(path, l, loc, newName, filter, ctx)
}

// DeleteNode is Tier 1's name for the L4 delete primitive.
func DeleteNode(path string, l *lang.Language, loc contracts.Locator, ctx mutate.Context) mutate.Result {
	return mutate.Delete(path, l, loc, ctx)
}

// CopyNode copies the unique node matched by src to before/after dest,
// verbatim, leaving src untouched.
func CopyNode(path string, l *lang.Language, src, dest contracts.Locator, insertAfter bool, ctx mutate.Context) mutate.Result {
	text, err := readUnique(path, l, src)
	if err != nil {
		return mutate.Result{Err: err}
	}
	if insertAfter {
		return mutate.InsertAfter(path, l, dest, text, ctx)
	}
	return mutate.InsertBefore(path, l, dest, text, ctx)
}

// MoveNode copies src to before/after dest, then deletes the original —
// two independent primitive calls, each re-reading and re-resolving
// against the file as it stands, so no manual offset bookkeeping is
// needed even though the two locators may describe overlapping regions
// of the same file.
func MoveNode(path string, l *lang.Language, src, dest contracts.Locator, insertAfter bool, ctx mutate.Context) mutate.Result {
	res := CopyNode(path, l, src, dest, insertAfter, ctx)
	if !res.Success {
		return res
	}
	delRes := mutate.Delete(path, l, src, ctx)
	if !delRes.Success {
		return delRes
	}
	return res
}

// SwapNodes exchanges the text of the two uniquely-matched nodes a and
// b in one combined edit, so the result is correct regardless of which
// node appears first in the file.
func SwapNodes(path string, l *lang.Language, a, b contracts.Locator, ctx mutate.Context) mutate.Result {
	return mutate.RunEdits(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]mutate.Edit, string, bool, error) {
		nodeA, err := uniqueMatch(l, tree, src, a, "swap_nodes")
		if err != nil {
			return nil, "", false, err
		}
		nodeB, err := uniqueMatch(l, tree, src, b, "swap_nodes")
		if err != nil {
			return nil, "", false, err
		}
		textA := nodeA.Content(src)
		textB := nodeB.Content(src)
		edits := []mutate.Edit{
			mutate.NewEdit(int(nodeA.StartByte()), int(nodeA.EndByte()), []byte(textB)),
			mutate.NewEdit(int(nodeB.StartByte()), int(nodeB.EndByte()), []byte(textA)),
		}
		return edits, "", true, nil
	})
}

// ReorderChildren reads the named children of the node matched by
// parent, re-emits them in the given permutation (a list of original
// indices), and re-parses; spec.md §4.4 requires rollback on ERROR,
// which mutate.RunEdits already provides via its L0 check.
func ReorderChildren(path string, l *lang.Language, parent contracts.Locator, order []int, ctx mutate.Context) mutate.Result {
	return mutate.RunEdits(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]mutate.Edit, string, bool, error) {
		matches := locate.Resolve(parent, l, tree, src)
		if len(matches) != 1 {
			return nil, "", false, contracts.Error{Code: contracts.ErrNoMatch, Message: "reorder_children: parent locator must match exactly one node"}
		}
		p := matches[0]
		count := int(p.NamedChildCount())
		if len(order) != count {
			return nil, "", false, contracts.Error{Code: contracts.ErrParamValidation, Message: "reorder_children: order length does not match child count"}
		}

		children := make([]*sitter.Node, count)
		for i := 0; i < count; i++ {
			children[i] = p.NamedChild(i)
		}

		start := int(children[0].StartByte())
		end := int(children[count-1].EndByte())

		var reordered []byte
		for i, idx := range order {
			if idx < 0 || idx >= count {
				return nil, "", false, contracts.Error{Code: contracts.ErrIndexOutOfBounds, Message: "reorder_children: index out of bounds"}
			}
			if i > 0 {
				// preserve the original separator between the previous
				// position and this one (whitespace/commas/newlines).
				sep := src[children[i-1].EndByte():children[i].StartByte()]
				reordered = append(reordered, sep...)
			}
			reordered = append(reordered, children[idx].Content(src)...)
		}

		return []mutate.Edit{mutate.NewEdit(start, end, reordered)}, "", true, nil
	})
}

func uniqueMatch(l *lang.Language, tree *sitter.Tree, src []byte, loc contracts.Locator, opName string) (*sitter.Node, error) {
	matches := locate.Resolve(loc, l, tree, src)
	if len(matches) == 0 {
		if locate.IndexOutOfBounds(loc, l, tree, src) {
			return nil, contracts.Error{Code: contracts.ErrIndexOutOfBounds, Message: opName + ": locator index out of bounds"}
		}
		return nil, contracts.Error{Code: contracts.ErrNoMatch, Message: opName + ": locator matched nothing"}
	}
	if len(matches) > 1 {
		return nil, contracts.Wrap(contracts.ErrAmbiguousMatch, opName+" requires a unique target", locate.ErrAmbiguous(len(matches)))
	}
	return matches[0], nil
}

func readUnique(path string, l *lang.Language, loc contracts.Locator) (string, error) {
	src, tree, err := parseFile(path, l)
	if err != nil {
		return "", err
	}
	defer tree.Close()
	n, err := uniqueMatch(l, tree, src, loc, "copy_node")
	if err != nil {
		return "", err
	}
	return n.Content(src), nil
}

func parseFile(path string, l *lang.Language) ([]byte, *sitter.Tree, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, contracts.Wrap(contracts.ErrIO, "read failed", err)
	}
	tree, err := parser.Parse(l, src)
	if err != nil {
		return nil, nil, contracts.Wrap(contracts.ErrParseFailed, "parse failed", err)
	}
	return src, tree, nil
}
