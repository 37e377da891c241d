// Package graph implements L2: given a list of files, detect each one's
// language, parse it, run its symbols/imports queries, and walk the tree
// collecting per-line kind labels into a compact contracts.Graph.
//
// Grounded in internal/matcher/tree.go's ASTMatcher.Find (query exec +
// capture walking) and providers/base's walkTree, generalized from a
// single query/capture pair to the symbols+imports query family spec.md
// §4.2 asks for, and extended to also populate LineKinds.
package graph

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/parser"
)

// Builder runs against a language registry; tests can substitute a
// restricted registry instead of lang.Default.
type Builder struct {
	Registry *lang.Registry
	Log      *zap.Logger
}

// NewBuilder returns a Builder using the process-wide language registry.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{Registry: lang.Default, Log: log}
}

// Build implements build_graph(paths) -> Graph (spec.md §4.2). Errors
// parsing an individual file are reported as data in Graph.Errors; the
// rest of the files are still processed. An empty paths list returns an
// empty Graph, not an error.
func (b *Builder) Build(paths []string) *contracts.Graph {
	g := contracts.NewGraph()

	for _, path := range paths {
		if err := b.buildFile(path, g); err != nil {
			g.Errors = append(g.Errors, fmt.Sprintf("%s: %v", path, err))
			b.Log.Warn("graph: failed to process file", zap.String("file", path), zap.Error(err))
		}
	}
	return g
}

func (b *Builder) buildFile(path string, g *contracts.Graph) error {
	l, ok := b.Registry.Detect(path)
	if !ok {
		return fmt.Errorf("no language registered for %s", path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	tree, err := parser.Parse(l, src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	b.collectSymbols(l, tree, src, path, g)
	b.collectImports(l, tree, src, path, g)
	b.collectLineKinds(l, tree.RootNode(), path, g)
	return nil
}

func (b *Builder) collectSymbols(l *lang.Language, tree *sitter.Tree, src []byte, path string, g *contracts.Graph) {
	if l.SymbolsQuery == "" {
		return
	}
	q, err := sitter.NewQuery([]byte(l.SymbolsQuery), l.Sitter)
	if err != nil {
		g.Errors = append(g.Errors, fmt.Sprintf("%s: bad symbols query for %s: %v", path, l.Name, err))
		return
	}
	cursor := sitter.NewQueryCursor()
	cursor.Exec(q, tree.RootNode())

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		var name string
		var target *sitter.Node
		for _, cap := range match.Captures {
			switch q.CaptureNameForId(cap.Index) {
			case "name":
				name = cap.Node.Content(src)
			case "target":
				target = cap.Node
			}
		}
		if target == nil || name == "" {
			continue
		}
		g.Symbols = append(g.Symbols, contracts.Symbol{
			Name:      name,
			Kind:      kindForNativeType(l, target.Type()),
			File:      path,
			StartLine: int(target.StartPoint().Row) + 1,
			EndLine:   int(target.EndPoint().Row) + 1,
		})
	}
}

func (b *Builder) collectImports(l *lang.Language, tree *sitter.Tree, src []byte, path string, g *contracts.Graph) {
	if l.ImportsQuery == "" {
		return
	}
	q, err := sitter.NewQuery([]byte(l.ImportsQuery), l.Sitter)
	if err != nil {
		g.Errors = append(g.Errors, fmt.Sprintf("%s: bad imports query for %s: %v", path, l.Name, err))
		return
	}
	cursor := sitter.NewQueryCursor()
	cursor.Exec(q, tree.RootNode())

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		var module string
		var line int
		for _, cap := range match.Captures {
			switch q.CaptureNameForId(cap.Index) {
			case "module":
				module = unquote(cap.Node.Content(src))
				line = int(cap.Node.StartPoint().Row) + 1
			case "target":
				if line == 0 {
					line = int(cap.Node.StartPoint().Row) + 1
				}
			}
		}
		if module == "" {
			continue
		}
		g.Imports = append(g.Imports, contracts.Import{
			File:   path,
			Module: module,
			Line:   line,
		})
	}
}

func (b *Builder) collectLineKinds(l *lang.Language, root *sitter.Node, path string, g *contracts.Graph) {
	lines := map[int]string{}
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if label := l.LineKindFor(n.Type()); label != "" {
			line := int(n.StartPoint().Row) + 1
			if _, exists := lines[line]; !exists {
				lines[line] = label
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	g.LineKinds[path] = lines
}

func kindForNativeType(l *lang.Language, nativeType string) contracts.Kind {
	for kind, natives := range l.KindMap {
		for _, nt := range natives {
			if nt == nativeType {
				return kind
			}
		}
	}
	return contracts.KindStatement
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
