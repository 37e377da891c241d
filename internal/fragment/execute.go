package fragment

import (
	"os"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
	"github.com/oxhq/cstforge/internal/mutate"
	"github.com/oxhq/cstforge/internal/parser"
)

// Execute implements execute_fragment(step) (spec.md §4.7):
// 1. Validate the fragment.
// 2. Determine indentation from the byte range of step.target in the
//    live bytes.
// 3. Serialize.
// 4. Apply via the primitive matching step.action.
func Execute(path string, l *lang.Language, target contracts.Locator, frag *contracts.ASTFrag, action contracts.Action, mctx mutate.Context) mutate.Result {
	if err := Validate(frag); err != nil {
		return mutate.Result{Err: err}
	}

	depth, err := targetIndentDepth(path, l, target)
	if err != nil {
		return mutate.Result{Err: err}
	}

	// Serialize pads every line at the requested depth, but the
	// primitives already anchor insert/replace at the target's own
	// column, so the first line's leading indent would double up;
	// strip it before handing the text to mutate.
	text := stripLeadingIndent(Serialize(frag, depth), depth)

	switch action {
	case contracts.ActionReplace:
		return mutate.Replace(path, l, target, text, true, mctx)
	case contracts.ActionInsertBefore:
		return mutate.InsertBefore(path, l, target, text, mctx)
	case contracts.ActionInsertAfter:
		return mutate.InsertAfter(path, l, target, text, mctx)
	default:
		return mutate.Result{Err: contracts.Error{Code: contracts.ErrUnknownOp, Message: "execute_fragment: unknown action " + string(action)}}
	}
}

func targetIndentDepth(path string, l *lang.Language, target contracts.Locator) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, contracts.Wrap(contracts.ErrIO, "read failed", err)
	}
	tree, err := parser.Parse(l, src)
	if err != nil {
		return 0, contracts.Wrap(contracts.ErrParseFailed, "parse failed", err)
	}
	defer tree.Close()

	matches := locate.Resolve(target, l, tree, src)
	if len(matches) == 0 {
		return 0, contracts.Error{Code: contracts.ErrNoMatch, Message: "execute_fragment: target locator matched nothing"}
	}
	col := columnOf(src, int(matches[0].StartByte()))
	return col / 4, nil
}

func columnOf(src []byte, pos int) int {
	col := 0
	for i := pos - 1; i >= 0 && src[i] != '\n'; i-- {
		col++
	}
	return col
}

func stripLeadingIndent(text string, depth int) string {
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += indentUnit
	}
	if len(text) >= len(prefix) && text[:len(prefix)] == prefix {
		return text[len(prefix):]
	}
	return text
}
