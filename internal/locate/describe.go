package locate

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
)

const previewLimit = 120

// Describe converts a matched node into the read-only metadata shape
// returned by the `locate` CLI command (spec.md §6).
func Describe(n *sitter.Node, src []byte) contracts.Node {
	text := n.Content(src)
	preview := text
	if len(preview) > previewLimit {
		preview = preview[:previewLimit] + "..."
	}
	return contracts.Node{
		StartLine:   int(n.StartPoint().Row) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		Kind:        n.Type(),
		TextPreview: preview,
		StartByte:   int(n.StartByte()),
		EndByte:     int(n.EndByte()),
	}
}

// Region describes the byte/line range of a node without a text preview,
// for the `locate_region` CLI command.
type Region struct {
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
}

// DescribeRegion implements locate_region(locator) -> byte range
// (spec.md §6).
func DescribeRegion(n *sitter.Node, src []byte) Region {
	return Region{
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Text:      n.Content(src),
	}
}
