package mutate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
)

// Replace implements replace_node: the unique node matched by loc is
// swapped for newText verbatim (spec.md §4.4 replace_node).
// allowKindChange lets a Tier-2 template that deliberately changes node
// kind (e.g. extract_variable introducing a new statement) skip L1.
func Replace(path string, l *lang.Language, loc contracts.Locator, newText string, allowKindChange bool, ctx Context) Result {
	return run(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]edit, string, bool, error) {
		matches := locate.Resolve(loc, l, tree, src)
		if len(matches) == 0 {
			if locate.IndexOutOfBounds(loc, l, tree, src) {
				return nil, "", false, contracts.Error{Code: contracts.ErrIndexOutOfBounds, Message: "replace_node: locator index out of bounds"}
			}
			return nil, "", false, contracts.Error{Code: contracts.ErrNoMatch, Message: "replace_node: locator matched nothing"}
		}
		if len(matches) > 1 {
			return nil, "", false, contracts.Wrap(contracts.ErrAmbiguousMatch, "replace_node requires a unique target", locate.ErrAmbiguous(len(matches)))
		}
		target := matches[0]
		return []edit{{start: int(target.StartByte()), end: int(target.EndByte()), text: []byte(newText)}},
			target.Type(), allowKindChange, nil
	}, nil)
}
