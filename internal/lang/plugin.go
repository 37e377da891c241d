package lang

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"
)

// LoadPlugin dynamically loads a *Language from a .so file exporting a
// "Language" symbol, letting a consumer add an eleventh language without
// a rebuild. Grounded in internal/registry.Registry.LoadPlugin; kept
// because nothing in spec.md's Non-goals excludes it, and the teacher
// treats plugin loading as part of the language registry's job.
func (r *Registry) LoadPlugin(path string) error {
	if path == "" {
		return fmt.Errorf("plugin path cannot be empty")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("plugin file does not exist: %s", path)
	}

	plug, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open plugin %s: %w", path, err)
	}

	sym, err := plug.Lookup("Language")
	if err != nil {
		return fmt.Errorf("plugin %s missing 'Language' symbol: %w", path, err)
	}

	l, ok := sym.(*Language)
	if !ok {
		return fmt.Errorf("plugin %s 'Language' symbol is not *lang.Language", path)
	}

	return r.Register(l)
}

// LoadPluginsFromDir loads every .so/.dll/.dylib in dir, collecting (not
// short-circuiting on) individual failures.
func (r *Registry) LoadPluginsFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read plugin directory %s: %w", dir, err)
	}

	var errs []string
	for _, entry := range entries {
		if entry.IsDir() || !isPluginFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.LoadPlugin(path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to load some plugins:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func isPluginFile(name string) bool {
	return strings.HasSuffix(name, ".so") ||
		strings.HasSuffix(name, ".dll") ||
		strings.HasSuffix(name, ".dylib")
}
