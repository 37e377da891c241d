package mutate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
)

// wrapIndent is the constant body indentation wrap_node applies when
// indentBody is requested (spec.md §4.4: "can indent the wrapped span by
// a constant (4 columns)").
const wrapIndent = "    "

// Wrap implements wrap_node(before, after, indent_body): the unique
// matched node's text is re-emitted as before + body + after, with the
// body re-indented by wrapIndent on every line when indentBody is set
// (e.g. wrapping a statement in `if cond:` or `try:`).
func Wrap(path string, l *lang.Language, loc contracts.Locator, before, after string, indentBody bool, ctx Context) Result {
	return run(path, l, ctx, func(tree *sitter.Tree, src []byte) ([]edit, string, bool, error) {
		matches := locate.Resolve(loc, l, tree, src)
		if len(matches) == 0 {
			if locate.IndexOutOfBounds(loc, l, tree, src) {
				return nil, "", false, contracts.Error{Code: contracts.ErrIndexOutOfBounds, Message: "wrap_node: locator index out of bounds"}
			}
			return nil, "", false, contracts.Error{Code: contracts.ErrNoMatch, Message: "wrap_node: locator matched nothing"}
		}
		if len(matches) > 1 {
			return nil, "", false, contracts.Wrap(contracts.ErrAmbiguousMatch, "wrap_node requires a unique target", locate.ErrAmbiguous(len(matches)))
		}
		target := matches[0]
		body := target.Content(src)
		if indentBody {
			body = indentLines(body, wrapIndent)
		}

		var buf strings.Builder
		buf.WriteString(before)
		if before != "" {
			buf.WriteByte('\n')
		}
		buf.WriteString(body)
		if after != "" {
			buf.WriteByte('\n')
			buf.WriteString(after)
		}

		return []edit{{start: int(target.StartByte()), end: int(target.EndByte()), text: []byte(buf.String())}},
			"", true, nil
	}, nil)
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
