// Package contracts contains pure language-agnostic data structures shared
// by every layer of the transformation engine. Nothing in this file may
// import a tree-sitter type or touch the filesystem; higher layers adapt
// these shapes to whatever a parser or language provider hands back.
package contracts

// Kind is a normalized structural kind. Language providers map their own
// native node type names onto this small vocabulary so that locators,
// templates, and fragments never speak in language-native terms.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindMethod    Kind = "method"
	KindImport    Kind = "import"
	KindStatement Kind = "statement"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
)

// Locator describes zero or more CST nodes without referring to any
// specific tree. It must be re-resolved against the current bytes of the
// target file every time it is used; resolution results are never cached
// across edits (see internal/locate).
type Locator struct {
	Kind   Kind     `json:"kind,omitempty"`
	Name   string   `json:"name,omitempty"`
	File   string   `json:"file,omitempty"`
	Parent *Locator `json:"parent,omitempty"`
	Field  string   `json:"field,omitempty"`

	// NthChild selects a child by position; -1 means "last".
	NthChild *int `json:"nth_child,omitempty"`

	// Index disambiguates when a resolution produces more than one node;
	// -1 selects the last one.
	Index *int `json:"index,omitempty"`

	// Sexp form. When Type == "sexp" the Kind/Name/Parent/Field/NthChild/Index
	// fields above are ignored and Query/Capture drive resolution directly.
	Type    string `json:"type,omitempty"`
	Query   string `json:"query,omitempty"`
	Capture string `json:"capture,omitempty"`
}

// IsSexp reports whether this locator is a raw tree-sitter query form.
func (l Locator) IsSexp() bool {
	return l.Type == "sexp"
}

// Location pins a byte/line range inside a single file.
type Location struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
}

// Symbol is one definition discovered by the graph builder.
type Symbol struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Import is one import/include/require discovered by the graph builder.
type Import struct {
	File   string `json:"file"`
	Module string `json:"module"`
	Symbol string `json:"symbol,omitempty"`
	Line   int    `json:"line"`
}

// Graph is the structural summary produced by internal/graph and consumed
// by the plan verifier (referential and cross-file checks).
type Graph struct {
	Symbols   []Symbol                 `json:"symbols"`
	Imports   []Import                 `json:"imports"`
	LineKinds map[string]map[int]string `json:"line_kinds"`
	Errors    []string                 `json:"errors"`
}

// NewGraph returns an empty but well-formed Graph.
func NewGraph() *Graph {
	return &Graph{
		Symbols:   []Symbol{},
		Imports:   []Import{},
		LineKinds: map[string]map[int]string{},
		Errors:    []string{},
	}
}

// Node is the read-only metadata returned by locate/locate_region.
type Node struct {
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	Kind        string `json:"kind"`
	TextPreview string `json:"text_preview"`
	StartByte   int    `json:"start_byte"`
	EndByte     int    `json:"end_byte"`
}
