package mutate

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"

	sitter "github.com/smacker/go-tree-sitter"
)

// Delete implements delete_node: the unique matched node is removed,
// taking its whole line(s) with it when only whitespace precedes it on
// those lines (spec.md §4.4 algorithmic notes). Its blocking
// postcondition — the locator must no longer resolve against the
// post-edit tree — runs before the write via run()'s extraCheck hook, so
// a leftover match rolls the edit back like any other L0-L2 failure.
func Delete(path string, l *lang.Language, loc contracts.Locator, ctx Context) Result {
	return run(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]edit, string, bool, error) {
		matches := locate.Resolve(loc, l, tree, src)
		if len(matches) == 0 {
			if locate.IndexOutOfBounds(loc, l, tree, src) {
				return nil, "", false, contracts.Error{Code: contracts.ErrIndexOutOfBounds, Message: "delete_node: locator index out of bounds"}
			}
			return nil, "", false, contracts.Error{Code: contracts.ErrNoMatch, Message: "delete_node: locator matched nothing"}
		}
		if len(matches) > 1 {
			return nil, "", false, contracts.Wrap(contracts.ErrAmbiguousMatch, "delete_node requires a unique target", locate.ErrAmbiguous(len(matches)))
		}
		target := matches[0]
		start, end := int(target.StartByte()), int(target.EndByte())
		if lineStart, ok := onlyWhitespaceBefore(src, start); ok {
			start = lineStart
			end = lineEndAfter(src, end)
		}
		return []edit{{start: start, end: end, text: nil}}, "", true, nil
	}, func(newTree *sitter.Tree, newSrc []byte) error {
		if len(locate.Resolve(loc, l, newTree, newSrc)) > 0 {
			return contracts.Error{Code: contracts.ErrDeleteStillPresent, Message: "locator still resolves after delete_node"}
		}
		return nil
	})
}
