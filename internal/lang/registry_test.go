package lang

import "testing"

func TestRegister_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newPython()); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := r.Register(newPython()); err == nil {
		t.Fatal("expected an error registering the same language name twice")
	}
}

func TestRegister_RejectsNilAndUnnamed(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Error("expected an error for a nil language")
	}
	if err := r.Register(&Language{}); err == nil {
		t.Error("expected an error for a language with an empty name")
	}
}

func TestGet_ResolvesByAliasAndCanonicalName(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	if _, ok := r.Get("python"); !ok {
		t.Error("expected to resolve by canonical name")
	}
	if _, ok := r.Get("py"); !ok {
		t.Error("expected to resolve by alias")
	}
	if _, ok := r.Get("not_a_language"); ok {
		t.Error("expected no match for an unregistered identifier")
	}
}

func TestDetect_ResolvesByExtensionCaseInsensitively(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	l, ok := r.Detect("main.PY")
	if !ok || l.Name != "python" {
		t.Errorf("got (%v, %v), want python", l, ok)
	}
}

func TestDetect_UnknownExtensionFails(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	if _, ok := r.Detect("README"); ok {
		t.Error("expected no language for a file with no extension")
	}
	if _, ok := r.Detect("notes.txt"); ok {
		t.Error("expected no language for an unmapped extension")
	}
}

func TestNames_ListsAllTenBuiltins(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	if got := len(r.Names()); got != 10 {
		t.Errorf("got %d registered languages, want 10", got)
	}
}

func TestNativeTypes_UnknownKindReturnsNil(t *testing.T) {
	l := newPython()
	if types := l.NativeTypes("not_a_real_kind"); types != nil {
		t.Errorf("expected nil for an unmapped kind, got %v", types)
	}
}

func TestLineKindFor_UnknownNodeTypeReturnsEmpty(t *testing.T) {
	l := newPython()
	if got := l.LineKindFor("not_a_real_node_type"); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
