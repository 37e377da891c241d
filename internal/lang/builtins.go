package lang

// RegisterBuiltins registers the ten languages spec.md §4.1 requires into
// r. Called once for the process-wide Default registry; exposed so tests
// and the CLI's plugin-aware registry construction can build an isolated
// registry the same way.
func RegisterBuiltins(r *Registry) {
	builders := []func() *Language{
		newGo, newPython, newJavaScript, newTypeScript, newJava,
		newRust, newRuby, newPHP, newC, newCPP,
	}
	for _, build := range builders {
		if err := r.Register(build()); err != nil {
			// A conflict here is a programmer error (duplicate builtin
			// registration), not a runtime condition callers can act on.
			panic(err)
		}
	}
}
