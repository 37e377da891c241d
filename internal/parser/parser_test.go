package parser

import (
	"testing"

	"github.com/oxhq/cstforge/internal/lang"
)

func pythonLang(t *testing.T) *lang.Language {
	t.Helper()
	r := lang.NewRegistry()
	lang.RegisterBuiltins(r)
	l, ok := r.Get("python")
	if !ok {
		t.Fatal("python language not registered")
	}
	return l
}

func TestParse_ValidSourceHasNoErrorNodes(t *testing.T) {
	l := pythonLang(t)
	tree, err := Parse(l, []byte("def f():\n    return 1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tree.Close()

	if !ParsesOK(tree) {
		t.Error("expected ParsesOK to be true for valid source")
	}
	if len(ErrorNodes(tree)) != 0 {
		t.Errorf("expected no error nodes, got %v", ErrorNodes(tree))
	}
}

func TestParsesOK_FalseForMalformedSource(t *testing.T) {
	l := pythonLang(t)
	tree, err := Parse(l, []byte("def f(:\n    pass\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tree.Close()

	if ParsesOK(tree) {
		t.Error("expected ParsesOK to be false for malformed source")
	}
}

func TestErrorNodes_ReportsALocation(t *testing.T) {
	l := pythonLang(t)
	tree, err := Parse(l, []byte("def f(:\n    pass\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tree.Close()

	errs := ErrorNodes(tree)
	if len(errs) == 0 {
		t.Fatal("expected at least one reported error location")
	}
	if errs[0] == "" {
		t.Error("expected a non-empty error description")
	}
}

func TestParsesOK_NilTreeIsFalse(t *testing.T) {
	if ParsesOK(nil) {
		t.Error("expected ParsesOK(nil) to be false")
	}
}
