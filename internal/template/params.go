// Package template implements L6: the fifteen Tier-2 templates (spec.md
// §4.6), each a closed-form combination of parameter validation and
// delegation to internal/mutate primitives. No template writes bytes
// directly — code construction always ends in a Replace/InsertBefore/
// InsertAfter/Wrap call, mirroring the teacher's "handler never touches
// the filesystem, the manipulator does" separation.
package template

import (
	"strings"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/fragment"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/parser"
)

// ParamKind names the six parameter validators spec.md §4.6 defines.
type ParamKind string

const (
	KindIdentifier ParamKind = "identifier"
	KindExpression ParamKind = "expression"
	KindStatement  ParamKind = "statement"
	KindLocator    ParamKind = "locator"
	KindEnum       ParamKind = "enum"
	KindFragment   ParamKind = "fragment"
)

// Param describes one template parameter.
type Param struct {
	Name     string
	Kind     ParamKind
	Required bool
	Default  any
	Enum     []string
}

// ValidateParam dispatches to the validator matching p.Kind. l is nil
// for locator/enum/fragment kinds that don't need a grammar.
func ValidateParam(p Param, value any, l *lang.Language) error {
	if value == nil {
		if p.Required {
			return contracts.Error{Code: contracts.ErrMissingParam, Message: "missing required param " + p.Name}
		}
		return nil
	}

	switch p.Kind {
	case KindIdentifier:
		s, _ := value.(string)
		return validateIdentifier(s, l)
	case KindExpression:
		s, _ := value.(string)
		return validateExpression(s, l)
	case KindStatement:
		s, _ := value.(string)
		return validateStatement(s, l)
	case KindLocator:
		_, ok := value.(contracts.Locator)
		if !ok {
			return contracts.Error{Code: contracts.ErrParamValidation, Message: p.Name + " is not a valid locator"}
		}
		return nil
	case KindEnum:
		s, _ := value.(string)
		for _, allowed := range p.Enum {
			if s == allowed {
				return nil
			}
		}
		return contracts.Error{Code: contracts.ErrParamValidation, Message: p.Name + " must be one of " + strings.Join(p.Enum, ", ")}
	case KindFragment:
		f, ok := value.(*contracts.ASTFrag)
		if !ok {
			return contracts.Error{Code: contracts.ErrParamValidation, Message: p.Name + " is not a fragment"}
		}
		return fragment.Validate(f)
	default:
		return contracts.Error{Code: contracts.ErrParamValidation, Message: "unknown param kind " + string(p.Kind)}
	}
}

// validateIdentifier checks s is a single identifier token and not a
// language keyword (spec.md §4.6 "valid identifier ... and not a keyword").
func validateIdentifier(s string, l *lang.Language) error {
	if s == "" {
		return contracts.Error{Code: contracts.ErrParamValidation, Message: "empty identifier"}
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && isDigit {
			return contracts.Error{Code: contracts.ErrParamValidation, Message: "identifier cannot start with a digit: " + s}
		}
		if !isAlpha && !isDigit {
			return contracts.Error{Code: contracts.ErrParamValidation, Message: "not a valid identifier: " + s}
		}
	}
	if isKeyword(s, l) {
		return contracts.Error{Code: contracts.ErrParamValidation, Message: s + " is a reserved keyword"}
	}
	return nil
}

var keywordsByLang = map[string]map[string]bool{
	"python": builtinSet("def", "class", "if", "elif", "else", "for", "while", "try", "except",
		"finally", "with", "return", "import", "from", "as", "pass", "raise", "lambda", "yield",
		"global", "nonlocal", "assert", "del", "in", "is", "not", "and", "or", "None", "True", "False"),
	"go": builtinSet("func", "package", "import", "var", "const", "type", "struct", "interface",
		"if", "else", "for", "range", "return", "go", "defer", "chan", "select", "switch", "case",
		"default", "break", "continue", "goto", "fallthrough", "map"),
	"javascript": builtinSet("function", "var", "let", "const", "if", "else", "for", "while",
		"return", "class", "extends", "new", "this", "typeof", "instanceof", "try", "catch",
		"finally", "throw", "import", "export", "default", "async", "await", "yield"),
}

func isKeyword(s string, l *lang.Language) bool {
	if l == nil {
		return false
	}
	set, ok := keywordsByLang[l.Name]
	if !ok {
		return false
	}
	return set[s]
}

func builtinSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// validateExpression parses s as an expression by wrapping it in a
// synthetic assignment, per spec.md §4.6's validator description.
func validateExpression(s string, l *lang.Language) error {
	if l == nil {
		return nil
	}
	wrapped := syntheticAssignment(s, l)
	tree, err := parser.Parse(l, []byte(wrapped))
	if err != nil {
		return contracts.Wrap(contracts.ErrParamValidation, "expression failed to parse", err)
	}
	defer tree.Close()
	if !parser.ParsesOK(tree) {
		return contracts.Error{Code: contracts.ErrParamValidation, Message: "not a valid expression: " + s}
	}
	return nil
}

func syntheticAssignment(expr string, l *lang.Language) string {
	switch l.Name {
	case "python", "ruby":
		return "__cstforge_tmp = " + expr + "\n"
	case "go":
		return "package p\nvar __cstforge_tmp = " + expr + "\n"
	case "java", "c", "cpp", "rust":
		return "var __cstforge_tmp = " + expr + ";\n"
	default:
		return "var __cstforge_tmp = " + expr + ";\n"
	}
}

// validateStatement parses s as a standalone statement.
func validateStatement(s string, l *lang.Language) error {
	if l == nil {
		return nil
	}
	tree, err := parser.Parse(l, []byte(s+"\n"))
	if err != nil {
		return contracts.Wrap(contracts.ErrParamValidation, "statement failed to parse", err)
	}
	defer tree.Close()
	if !parser.ParsesOK(tree) {
		return contracts.Error{Code: contracts.ErrParamValidation, Message: "not a valid statement: " + s}
	}
	return nil
}

// preflightSyntax re-parses replacement text standalone the way
// validateStatement does, used by handlers that need an ad-hoc preflight
// check before delegating to a primitive. It only sees the text on its
// own: text that parses alone but breaks its host statement passes here
// and is left to the primitive's post-edit L0 check.
func preflightSyntax(text string, l *lang.Language) bool {
	tree, err := parser.Parse(l, []byte(text))
	if err != nil {
		return false
	}
	defer tree.Close()
	return parser.ParsesOK(tree)
}
