package template

import (
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/mutate"
)

// Apply validates params against the named template and, if they pass,
// runs its handler (spec.md §4.6).
func Apply(name string, path string, l *lang.Language, params map[string]any, mctx mutate.Context) mutate.Result {
	t, ok := Get(name)
	if !ok {
		return mutate.Result{Err: contracts.Error{Code: contracts.ErrUnknownOp, Message: "unknown template: " + name}}
	}
	if err := Validate(t, params, l); err != nil {
		return mutate.Result{Err: err}
	}
	return t.Handler(path, l, params, mctx)
}
