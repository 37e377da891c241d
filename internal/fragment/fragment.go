// Package fragment implements L7: validating, serializing, and applying
// typed AST fragment descriptions (spec.md §4.7, Tier 3). There is no
// teacher equivalent of a typed-fragment serializer — the teacher's
// manipulator only ever splices raw text — so this package is new,
// written in the teacher's plain-recursive-walk style and delegating
// every actual byte edit to internal/mutate.
package fragment

import (
	"strings"

	"github.com/oxhq/cstforge/internal/contracts"
)

// requiredProps lists the non-empty properties each supported kind must
// carry (spec.md §4.7 "every required property for that kind is present
// and non-empty").
// Body content for every clause kind below comes from f.Children
// (serializeBody walks them), never from a "body" property — so unlike
// the other required properties, a body is never listed here; a missing
// body degrades to a single "pass" line (spec.md §4.7's leaf-kinds carry
// no children, every non-leaf kind may legally carry zero).
var requiredProps = map[string][]string{
	"function_definition":  {"name"},
	"class_definition":     {"name"},
	"if_statement":         {"condition"},
	"elif_clause":          {"condition"},
	"else_clause":          {},
	"for_statement":        {"target", "iterable"},
	"while_statement":      {"condition"},
	"with_statement":       {"context_expr"},
	"try_statement":        {},
	"except_clause":        {},
	"finally_clause":       {},
	"return_statement":     {},
	"raise_statement":      {},
	"assignment":           {"target", "value"},
	"expression_statement": {"expression"},
}

// Validate implements validate_fragment (spec.md §4.7).
func Validate(f *contracts.ASTFrag) error {
	required, ok := requiredProps[f.Kind]
	if !ok {
		return contracts.Error{Code: contracts.ErrInvalidFragment, Message: "unsupported fragment kind: " + f.Kind}
	}
	for _, prop := range required {
		v, present := f.Properties[prop]
		if !present || isEmptyValue(v) {
			return contracts.Error{Code: contracts.ErrInvalidFragment, Message: "fragment " + f.Kind + " missing required property " + prop}
		}
	}
	if isLeafKind(f.Kind) && len(f.Children) > 0 {
		return contracts.Error{Code: contracts.ErrInvalidFragment, Message: "fragment " + f.Kind + " is a leaf kind and cannot carry children"}
	}
	for i := range f.Children {
		if err := Validate(&f.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func isLeafKind(kind string) bool {
	switch kind {
	case "return_statement", "raise_statement", "assignment", "expression_statement":
		return true
	default:
		return false
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case nil:
		return true
	default:
		return false
	}
}

const indentUnit = "    "

// Serialize implements serialize_fragment(frag, indent) -> string
// (spec.md §4.7): children are indented four columns deeper than their
// parent, and multi-clause constructs are emitted as sibling clauses.
func Serialize(f *contracts.ASTFrag, indent int) string {
	pad := strings.Repeat(indentUnit, indent)

	switch f.Kind {
	case "function_definition":
		return pad + "def " + f.StringProp("name") + "(" + f.StringProp("params") + "):\n" + serializeBody(f, indent+1)
	case "class_definition":
		bases := f.StringProp("bases")
		header := pad + "class " + f.StringProp("name")
		if bases != "" {
			header += "(" + bases + ")"
		}
		return header + ":\n" + serializeBody(f, indent+1)
	case "if_statement":
		out := pad + "if " + f.StringProp("condition") + ":\n" + serializeBody(f, indent+1)
		return out + serializeClauseChildren(f, indent)
	case "elif_clause":
		return pad + "elif " + f.StringProp("condition") + ":\n" + serializeBody(f, indent+1)
	case "else_clause":
		return pad + "else:\n" + serializeBody(f, indent+1)
	case "for_statement":
		return pad + "for " + f.StringProp("target") + " in " + f.StringProp("iterable") + ":\n" + serializeBody(f, indent+1)
	case "while_statement":
		return pad + "while " + f.StringProp("condition") + ":\n" + serializeBody(f, indent+1)
	case "with_statement":
		return pad + "with " + f.StringProp("context_expr") + ":\n" + serializeBody(f, indent+1)
	case "try_statement":
		out := pad + "try:\n" + serializeBody(f, indent+1)
		return out + serializeClauseChildren(f, indent)
	case "except_clause":
		header := pad + "except"
		if exc := f.StringProp("exception_type"); exc != "" {
			header += " " + exc
			if as := f.StringProp("as"); as != "" {
				header += " as " + as
			}
		}
		return header + ":\n" + serializeBody(f, indent+1)
	case "finally_clause":
		return pad + "finally:\n" + serializeBody(f, indent+1)
	case "return_statement":
		if v := f.StringProp("value"); v != "" {
			return pad + "return " + v
		}
		return pad + "return"
	case "raise_statement":
		if v := f.StringProp("value"); v != "" {
			return pad + "raise " + v
		}
		return pad + "raise"
	case "assignment":
		return pad + f.StringProp("target") + " = " + f.StringProp("value")
	case "expression_statement":
		return pad + f.StringProp("expression")
	default:
		return pad
	}
}

// serializeBody renders f.Children at depth, one per line.
func serializeBody(f *contracts.ASTFrag, depth int) string {
	var b strings.Builder
	for _, child := range f.Children {
		if isClauseKind(child.Kind) {
			continue
		}
		b.WriteString(Serialize(&child, depth))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return strings.Repeat(indentUnit, depth) + "pass\n"
	}
	return b.String()
}

// serializeClauseChildren emits elif/else/except/finally children as
// sibling clauses at the same indent as the parent statement.
func serializeClauseChildren(f *contracts.ASTFrag, indent int) string {
	var b strings.Builder
	for _, child := range f.Children {
		if isClauseKind(child.Kind) {
			b.WriteString(Serialize(&child, indent))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func isClauseKind(kind string) bool {
	switch kind {
	case "elif_clause", "else_clause", "except_clause", "finally_clause":
		return true
	default:
		return false
	}
}
