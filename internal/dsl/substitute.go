// Package dsl implements L8: variable substitution, step sequencing, and
// conditional steps for composed operators (spec.md §4.8). There is no
// teacher equivalent of a templating/interpolation layer; this package is
// new, grounded only in the teacher's general JSON-driven operation shape
// (internal/core/contracts.go's Query/params maps) for how a step's
// params arrive as a loosely-typed map[string]any.
package dsl

import (
	"strconv"
	"strings"
)

// Scope is the DSL interpreter's single variable table (spec.md §5:
// "a single owner ... mutates the scope; nothing outside reads it
// mid-step").
type Scope map[string]any

var identChar = func(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// SubstituteParams walks params recursively, substituting every string
// leaf via Substitute. Maps and slices are deep-copied so the caller's
// original step definition is never mutated in place.
func SubstituteParams(params map[string]any, scope Scope) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = Substitute(v, scope)
	}
	return out
}

// Substitute implements the three substitution shapes spec.md §4.8
// describes for any value appearing in a step's params:
//   - "$var" (the whole string is one reference) -> the variable's value
//     as-is, deep-copied if it's a map/slice.
//   - "prefix $var suffix" -> string interpolation.
//   - "$var.field" / "$var.0" -> field/index lookup into the variable's
//     value before either of the above rules applies.
func Substitute(value any, scope Scope) any {
	switch v := value.(type) {
	case string:
		return substituteString(v, scope)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Substitute(e, scope)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Substitute(e, scope)
		}
		return out
	default:
		return v
	}
}

func substituteString(s string, scope Scope) any {
	if ref, ok := wholeVarRef(s); ok {
		return deepCopy(resolveRef(ref, scope))
	}

	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '$' && i+1 < len(s) && isIdentStart(s[i+1]) {
			j := i + 1
			for j < len(s) && (identChar(s[j]) || s[j] == '.') {
				j++
			}
			ref := s[i+1 : j]
			b.WriteString(toDisplayString(resolveRef(ref, scope)))
			i = j
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// wholeVarRef reports whether s is exactly one "$ref" token with nothing
// else around it, returning the dotted ref without its leading '$'.
func wholeVarRef(s string) (string, bool) {
	if len(s) < 2 || s[0] != '$' {
		return "", false
	}
	ref := s[1:]
	if !isIdentStart(ref[0]) {
		return "", false
	}
	for i := 0; i < len(ref); i++ {
		if !identChar(ref[i]) && ref[i] != '.' {
			return "", false
		}
	}
	return ref, true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// resolveRef looks up "name.field.0...": the first segment is a scope
// key, remaining segments index into a map (by key) or slice (by
// integer position).
func resolveRef(ref string, scope Scope) any {
	parts := strings.Split(ref, ".")
	cur, ok := scope[parts[0]]
	if !ok {
		return nil
	}
	for _, seg := range parts[1:] {
		switch c := cur.(type) {
		case map[string]any:
			cur = c[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil
			}
			cur = c[idx]
		default:
			return nil
		}
	}
	return cur
}

func toDisplayString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}
