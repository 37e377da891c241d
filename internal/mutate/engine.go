package mutate

import (
	"os"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
	"github.com/oxhq/cstforge/internal/parser"
	"github.com/oxhq/cstforge/internal/verify"
)

// edit is one byte-range splice a primitive wants applied. Multiple
// edits (replace_all_matching) are applied in descending start order so
// earlier offsets stay valid (spec.md §4.4 algorithmic notes, §5
// invariant 7).
type edit struct {
	start, end int
	text       []byte

	// anchorStart/anchorEnd, when anchorEnd > anchorStart, is the range
	// of the node this edit is attached to (its locator's match), unioned
	// into the edit's containment span in addition to [start, end).
	// insert_before/after always set this: the raw splice is a zero-width
	// point, but the anchor node itself may grow to absorb the inserted
	// text (e.g. a decorator turns a function_definition into a
	// decorated_definition, an elif/else clause becomes a child of the
	// if_statement it follows) — without the union, the anchor would be
	// classified "outside the edit" in the pre-edit tree (a zero-width
	// point doesn't overlap a node touching only at its own boundary) but
	// "inside the edit" in the post-edit tree (the grown node does
	// overlap the inserted text's now-nonzero range), a spurious L2
	// failure on a perfectly ordinary insertion.
	anchorStart, anchorEnd int
}

// Edit is the exported name for edit, used by internal/surgery's
// multi-edit Tier 1 operations (swap_nodes, reorder_children) that need
// to build more than one simultaneous splice through RunEdits.
type Edit = edit

// NewEdit constructs an Edit from a byte range and replacement text.
func NewEdit(start, end int, text []byte) Edit {
	return Edit{start: start, end: end, text: text}
}

// builder resolves a primitive's target(s) against a freshly-parsed tree
// and returns the edits to perform, the native type of the replaced node
// for the L1 check, and whether a kind change is allowed (oldType is "" when the
// primitive doesn't replace a node, e.g. insert/delete).
type builder func(tree *sitter.Tree, src []byte) (edits []edit, oldType string, allowKindChange bool, err error)

// Result is what every primitive returns to the router (spec.md §4.4).
type Result struct {
	Success    bool
	RolledBack bool
	Err        error
	Node       *contracts.Node
	Warnings   []string
}

// Context carries the data the post-edit warning checks (L3/L4) need;
// callers build it once per file from the graph the plan verifier
// already computed.
type Context struct {
	Scope         verify.Scope
	HasStarImport bool
}

// run executes the fixed primitive protocol (spec.md §4.4) end to end.
// extraCheck, when non-nil, runs against the re-parsed post-edit tree
// before the write and before L3/L4/L6 warnings are collected; returning
// an error rolls back exactly like an L0-L2 failure (used by
// delete_node's "locator no longer resolves" postcondition).
func run(path string, l *lang.Language, ctx Context, build builder, extraCheck func(newTree *sitter.Tree, newSrc []byte) error) Result {
	snap, src, err := take(path)
	if err != nil {
		return Result{Err: contracts.Wrap(contracts.ErrIO, "read failed", err)}
	}

	tree, err := parser.Parse(l, src)
	if err != nil {
		return Result{Err: contracts.Wrap(contracts.ErrParseFailed, "pre-edit parse failed", err)}
	}
	defer tree.Close()

	edits, oldType, allowKindChange, err := build(tree, src)
	if err != nil {
		return Result{Err: err}
	}
	if len(edits) == 0 {
		return Result{Err: contracts.Error{Code: contracts.ErrNoMatch, Message: "locator matched nothing"}}
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	newSrc := applyEdits(src, edits)

	newTree, err := parser.Parse(l, newSrc)
	if err != nil {
		return rollback(snap, contracts.Wrap(contracts.ErrParseFailed, "post-edit parse failed", err))
	}
	defer newTree.Close()

	if diag := verify.ParsesOK(newTree); diag != nil {
		return rollback(snap, contracts.Error{Code: contracts.ErrParseFailed, Message: diag.Message})
	}

	beforeSpans, afterSpans := editSpans(edits)
	if diag := verify.ContainmentSpans(l, src, newSrc, beforeSpans, afterSpans); diag != nil {
		return rollback(snap, contracts.Error{Code: contracts.ErrContainmentBroken, Message: diag.Message})
	}

	primary := edits[len(edits)-1] // smallest start-byte among the batch, i.e. first in document order

	if extraCheck != nil {
		if err := extraCheck(newTree, newSrc); err != nil {
			return rollback(snap, err)
		}
	}

	newStart := primary.start
	newEnd := primary.start + len(primary.text)
	resultNode := nodeCoveringRange(newTree.RootNode(), newStart, newEnd)

	if oldType != "" && resultNode != nil {
		if diag := verify.KindPreservation(oldType, resultNode.Type(), allowKindChange); diag != nil {
			return rollback(snap, contracts.Error{Code: contracts.ErrKindMismatch, Message: diag.Message})
		}
	}

	var warnings []string
	if resultNode != nil {
		warnings = append(warnings, verify.Referential(l, resultNode, newSrc, ctx.Scope, ctx.HasStarImport)...)
		warnings = append(warnings, verify.ImportClosure(resultNode, newSrc, ctx.Scope.Imported)...)
		warnings = append(warnings, verify.NonTrivial(resultNode, newSrc)...)
	}

	if err := os.WriteFile(path, newSrc, 0o644); err != nil {
		return rollback(snap, contracts.Wrap(contracts.ErrIO, "write failed", err))
	}

	var out *contracts.Node
	if resultNode != nil {
		d := locate.Describe(resultNode, newSrc)
		out = &d
	}
	return Result{Success: true, Node: out, Warnings: warnings}
}

// RunEdits exposes the generic primitive protocol to internal/surgery
// for Tier 1 operations that need a caller-built set of simultaneous
// edits rather than one of the six fixed L4 shapes.
func RunEdits(path string, l *lang.Language, ctx Context, build func(tree *sitter.Tree, src []byte) ([]Edit, string, bool, error)) Result {
	return run(path, l, ctx, build, nil)
}

func rollback(snap *Snapshot, err error) Result {
	_ = snap.restore()
	return Result{RolledBack: true, Err: err}
}

// editSpans computes the L2 containment exclusion windows for a batch of
// edits: beforeSpans are each edit's original byte range, afterSpans its
// corresponding range in the post-edit buffer. edits is sorted descending
// by start (applyEdits' order); spans are produced in ascending order so
// the running offset accumulates left-to-right, since each edit's
// post-edit position shifts by the summed length delta of every edit to
// its left, not by the whole-buffer delta (spec.md §4.4 "descending
// start-byte order" only governs splice order, not where an edit's
// content ends up relative to edits to its left).
func editSpans(edits []edit) (before, after []verify.Span) {
	ascending := make([]edit, len(edits))
	copy(ascending, edits)
	sort.Slice(ascending, func(i, j int) bool { return ascending[i].start < ascending[j].start })

	before = make([]verify.Span, len(ascending))
	after = make([]verify.Span, len(ascending))
	offset := 0
	for i, e := range ascending {
		cs, ce := e.start, e.end
		if e.anchorEnd > e.anchorStart {
			if e.anchorStart < cs {
				cs = e.anchorStart
			}
			if e.anchorEnd > ce {
				ce = e.anchorEnd
			}
		}
		before[i] = verify.Span{Start: cs, End: ce}
		newStart := cs + offset
		newEnd := newStart + (ce - cs) + (len(e.text) - (e.end - e.start))
		after[i] = verify.Span{Start: newStart, End: newEnd}
		offset += len(e.text) - (e.end - e.start)
	}
	return before, after
}

// applyEdits splices edits (already sorted descending by start) into src.
func applyEdits(src []byte, edits []edit) []byte {
	out := append([]byte(nil), src...)
	for _, e := range edits {
		buf := make([]byte, 0, len(out)-(e.end-e.start)+len(e.text))
		buf = append(buf, out[:e.start]...)
		buf = append(buf, e.text...)
		buf = append(buf, out[e.end:]...)
		out = buf
	}
	return out
}

// nodeCoveringRange returns the smallest named node whose range contains
// [start, end), falling back to the root when nothing matches exactly
// (e.g. an inserted sibling with no pre-existing node to anchor to).
func nodeCoveringRange(root *sitter.Node, start, end int) *sitter.Node {
	var best *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if int(n.StartByte()) <= start && int(n.EndByte()) >= end {
			best = n
			for i := 0; i < int(n.NamedChildCount()); i++ {
				walk(n.NamedChild(i))
			}
		}
	}
	walk(root)
	if best == nil {
		return root
	}
	return best
}

// indentOf returns the leading whitespace of the line containing byte
// offset pos in src.
func indentOf(src []byte, pos int) []byte {
	lineStart := pos
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	i := lineStart
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return src[lineStart:i]
}

// onlyWhitespaceBefore reports whether every byte from lineStart to pos
// is horizontal whitespace, meaning a delete can safely remove the whole
// line rather than leaving a blank indent behind.
func onlyWhitespaceBefore(src []byte, pos int) (lineStart int, ok bool) {
	lineStart = pos
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	for i := lineStart; i < pos; i++ {
		if src[i] != ' ' && src[i] != '\t' {
			return lineStart, false
		}
	}
	return lineStart, true
}

// lineEndAfter returns the offset just past the newline following pos,
// or len(src) if pos is on the last line.
func lineEndAfter(src []byte, pos int) int {
	i := pos
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i < len(src) {
		i++
	}
	return i
}
