// Package verify implements the L0-L6 post-edit verification levels of
// spec.md §4.5. L0-L2 are blocking (a failure rolls the primitive back);
// L3, L4, and L6 only ever attach warnings (spec.md §8 invariant 5,
// "Non-destructive L3/L4/L6").
//
// Grounded in providers/base.Provider's findErrors (parse-error walk) and
// the teacher's overall "parse, check, diff" shape; containment hashing
// is new (the teacher has no equivalent — it does not verify structural
// containment of untouched siblings, only that the output still parses),
// built from crypto/sha256 the way core/transaction.go hashes file
// contents for its transaction ledger.
package verify

import (
	"crypto/sha256"
	"encoding/hex"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/parser"
)

// Level names the post-edit check a Diagnostic came from.
type Level string

const (
	L0ParsesOK     Level = "l0"
	L1KindPreserve Level = "l1"
	L2Containment  Level = "l2"
	L3Referential  Level = "l3"
	L4ImportClose  Level = "l4"
	L6NonTrivial   Level = "l6"
)

// Diagnostic is one verification finding. Blocking levels (L0-L2) stop
// execution; the rest are advisory warnings attached to the result.
type Diagnostic struct {
	Level    Level
	Blocking bool
	Message  string
}

// ParsesOK runs the L0 check: the new tree must contain no ERROR node.
func ParsesOK(tree *sitter.Tree) *Diagnostic {
	if parser.ParsesOK(tree) {
		return nil
	}
	return &Diagnostic{Level: L0ParsesOK, Blocking: true, Message: "edited source does not parse cleanly"}
}

// KindPreservation runs the L1 check: for replace_node, the native type
// of the replacement root must equal the type of the node it replaced,
// unless allowKindChange is set (an explicit Tier-2 template declaring a
// kind change, spec.md §4.5 L1 exception clause).
func KindPreservation(oldType, newType string, allowKindChange bool) *Diagnostic {
	if allowKindChange || oldType == newType {
		return nil
	}
	return &Diagnostic{
		Level:    L1KindPreserve,
		Blocking: true,
		Message:  "replacement changed node kind from " + oldType + " to " + newType,
	}
}

// Span is one byte range, in a single coordinate space (either the
// pre-edit or post-edit buffer), that Containment must treat as "inside
// the edit" rather than as an untouched sibling.
type Span struct{ Start, End int }

// Containment runs the L2 check: every top-level sibling node outside
// every edited span must hash identically before and after the edit.
// editStart/editEnd/delta describe a single splice for the common
// one-edit primitives (replace_node, wrap_node, ...); ContainmentSpans
// below generalizes this to replace_all_matching and surgery's
// multi-edit operations, where more than one top-level statement can be
// touched by the same primitive call (spec.md §4.4 "replace_all_matching
// walks matches in descending start-byte order").
func Containment(l *lang.Language, before, after []byte, editStart, editEnd, delta int) *Diagnostic {
	beforeSpans := []Span{{editStart, editEnd}}
	afterSpans := []Span{{editStart + delta, editEnd + delta}}
	return ContainmentSpans(l, before, after, beforeSpans, afterSpans)
}

// ContainmentSpans is Containment generalized to N simultaneous edits
// (replace_all_matching, surgery's multi-edit operations): beforeSpans
// are the edited byte ranges in the pre-edit buffer, afterSpans their
// corresponding ranges in the post-edit buffer. The caller (internal/
// mutate's run()) computes afterSpans with a running offset — each
// span's post-edit position shifts by the cumulative length delta of
// every span to its left — since a flat whole-buffer delta only holds
// for the single rightmost edit and would misalign every other span's
// exclusion window when per-edit lengths differ (e.g. renaming "x" to
// "total").
func ContainmentSpans(l *lang.Language, before, after []byte, beforeSpans, afterSpans []Span) *Diagnostic {
	beforeTree, err := parser.Parse(l, before)
	if err != nil {
		return nil
	}
	defer beforeTree.Close()
	afterTree, err := parser.Parse(l, after)
	if err != nil {
		return nil
	}
	defer afterTree.Close()

	beforeSibs := topLevelOutside(beforeTree.RootNode(), before, beforeSpans)
	afterSibs := topLevelOutside(afterTree.RootNode(), after, afterSpans)

	if len(beforeSibs) != len(afterSibs) {
		return &Diagnostic{Level: L2Containment, Blocking: true, Message: "top-level sibling count changed outside edit range"}
	}
	for i := range beforeSibs {
		if beforeSibs[i] != afterSibs[i] {
			return &Diagnostic{Level: L2Containment, Blocking: true, Message: "content outside the edit range was modified"}
		}
	}
	return nil
}

// topLevelOutside returns the content hash of every top-level child node
// whose range does not overlap any span in spans.
func topLevelOutside(root *sitter.Node, src []byte, spans []Span) []string {
	var hashes []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		cs, ce := int(child.StartByte()), int(child.EndByte())
		inside := false
		for _, sp := range spans {
			if ce > sp.Start && cs < sp.End {
				inside = true
				break
			}
		}
		if !inside {
			hashes = append(hashes, hashBytes(src[cs:ce]))
		}
	}
	return hashes
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
