package engine

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/oxhq/cstforge/internal/lang"
)

func testRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	r := lang.NewRegistry()
	lang.RegisterBuiltins(r)
	return r
}

func TestExpand_GlobMatchesAllFilesInDir(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.py")
	b := filepath.Join(dir, "b.py")
	if err := os.WriteFile(a, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Expand([]string{filepath.Join(dir, "*.py")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]bool{a: true, b: true}
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 entries", got)
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected match %q", g)
		}
	}
}

func TestExpand_NonExistentPlainPathPassesThrough(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "not_created_yet.py")

	got, err := Expand([]string{missing})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Clean(missing)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestExpand_DeduplicatesOverlappingPatterns(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.py")
	b := filepath.Join(dir, "b.py")
	if err := os.WriteFile(a, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Expand([]string{a, filepath.Join(dir, "*.py")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Clean(a), filepath.Clean(b)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestFilterSupported_DropsUnrecognizedExtensions(t *testing.T) {
	r := testRegistry(t)
	paths := []string{"a.py", "b.unknownext", "c.go"}

	got := FilterSupported(paths, r)
	want := []string{"a.py", "c.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
}
