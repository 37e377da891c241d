package lang

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Registry resolves a Language by canonical name, alias, or file
// extension. Grounded in internal/registry.Registry, generalized from
// *provider.LanguageProvider to *Language and stripped of the plugin
// loader's reflect.IsNil dance, which that registry needed only because
// providers could come back as typed-nil interfaces from a plugin.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]*Language
	aliases    map[string]string
	extensions map[string]string
}

// NewRegistry returns an empty registry. Callers populate it with
// RegisterBuiltins (the 10 built-in languages) or Register for a single one.
func NewRegistry() *Registry {
	return &Registry{
		byName:     map[string]*Language{},
		aliases:    map[string]string{},
		extensions: map[string]string{},
	}
}

// Register adds a language, wiring its aliases and extensions.
func (r *Registry) Register(l *Language) error {
	if l == nil || l.Name == "" {
		return fmt.Errorf("language must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[l.Name]; exists {
		return fmt.Errorf("language %q already registered", l.Name)
	}
	r.byName[l.Name] = l

	for _, a := range l.Aliases {
		if a == "" {
			continue
		}
		r.aliases[a] = l.Name
	}
	for _, ext := range l.Extensions {
		ext = normalizeExt(ext)
		r.extensions[ext] = l.Name
	}
	return nil
}

// Get resolves a language by canonical name or alias.
func (r *Registry) Get(identifier string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.byName[identifier]; ok {
		return l, true
	}
	if canonical, ok := r.aliases[identifier]; ok {
		l, ok := r.byName[canonical]
		return l, ok
	}
	return nil, false
}

// Detect resolves a language from a file path's extension
// (contracts/spec.md §4.1 detect_language).
func (r *Registry) Detect(path string) (*Language, bool) {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}

	r.mu.RLock()
	canonical, ok := r.extensions[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.Get(canonical)
}

// Names lists every registered canonical language name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// Default is the process-wide registry populated by RegisterBuiltins in
// builtins.go. Mirrors the teacher's DefaultRegistry convenience global.
var Default = NewRegistry()

func init() {
	RegisterBuiltins(Default)
}
