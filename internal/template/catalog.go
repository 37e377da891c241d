package template

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

// Handler builds and applies a template's edit. params has already
// passed ValidateParam for every declared Param.
type Handler func(path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result

// Template is one catalog entry (spec.md §4.6).
type Template struct {
	Name       string
	Params     []Param
	InputKind  contracts.Kind
	OutputKind contracts.Kind
	Handler    Handler
}

// Catalog holds the fifteen built-in templates, keyed by name.
var Catalog = map[string]*Template{}

func register(t *Template) {
	Catalog[t.Name] = t
}

// Get looks up a template by name.
func Get(name string) (*Template, bool) {
	t, ok := Catalog[name]
	return t, ok
}

// Validate runs every declared param's validator against the step's raw
// params map.
func Validate(t *Template, params map[string]any, l *lang.Language) error {
	for _, p := range t.Params {
		v, present := params[p.Name]
		if !present && p.Default != nil {
			params[p.Name] = p.Default
			v = p.Default
		}
		if err := ValidateParam(p, v, l); err != nil {
			return err
		}
	}
	return nil
}

func strParam(params map[string]any, name string) string {
	s, _ := params[name].(string)
	return s
}

func locParam(params map[string]any, name string) contracts.Locator {
	loc, _ := params[name].(contracts.Locator)
	return loc
}

func boolParam(params map[string]any, name string) bool {
	b, _ := params[name].(bool)
	return b
}

func intParam(params map[string]any, name string, def int) int {
	switch v := params[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
