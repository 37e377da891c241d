package planverify

import (
	"os"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/fragment"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/locate"
	"github.com/oxhq/cstforge/internal/parser"
)

// layer2LineDrift simulates each step's line-count delta per file and
// warns when a later step in the same file addresses a raw line number
// (a legacy-op affordance; structural locators are immune to drift by
// construction, spec.md §5 "eliminates line-drift problems").
func layer2LineDrift(steps []contracts.Step) []string {
	drift := map[string]int{}
	var warnings []string
	for _, step := range steps {
		file := stepFile(step)
		if file == "" {
			continue
		}
		if lineParam, ok := step.RawParams["line"]; ok {
			if d := drift[file]; d != 0 {
				warnings = append(warnings, "step addresses line "+formatAny(lineParam)+" in "+file+" after a predicted drift of "+strconv.Itoa(d)+" lines")
			}
		}
		drift[file] += estimateLineDelta(step)
	}
	return warnings
}

func estimateLineDelta(step contracts.Step) int {
	oldText, _ := step.RawParams["old_text"].(string)
	newText, _ := step.RawParams["new_text"].(string)
	if oldText == "" && newText == "" {
		return 0
	}
	return strings.Count(newText, "\n") - strings.Count(oldText, "\n")
}

func formatAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// legacyStringOrCommentKinds mirrors internal/mutate's filter set for
// the ancestor-containment check legacy pattern matches need too.
var legacyStringOrCommentKinds = map[string]bool{
	"string": true, "string_literal": true, "interpreted_string_literal": true,
	"raw_string_literal": true, "template_string": true,
	"comment": true, "line_comment": true, "block_comment": true,
}

// layer3ASTContext warns when a legacy string-pattern match falls
// inside a string or comment ancestor.
func layer3ASTContext(step contracts.Step, l *lang.Language, src []byte) []string {
	if step.DetectTier() != contracts.TierLegacy {
		return nil
	}
	pattern, _ := step.RawParams["pattern"].(string)
	if pattern == "" {
		return nil
	}
	tree, err := parser.Parse(l, src)
	if err != nil {
		return nil
	}
	defer tree.Close()

	idx := strings.Index(string(src), pattern)
	if idx < 0 {
		return nil
	}
	if inStringOrComment(tree.RootNode(), idx, idx+len(pattern)) {
		return []string{"pattern match falls inside a string or comment literal"}
	}
	return nil
}

func inStringOrComment(n *sitter.Node, start, end int) bool {
	if n == nil {
		return false
	}
	if int(n.StartByte()) <= start && int(n.EndByte()) >= end {
		if legacyStringOrCommentKinds[n.Type()] {
			return true
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if inStringOrComment(n.NamedChild(i), start, end) {
				return true
			}
		}
	}
	return false
}

// renameSymbolName resolves the identifier a rename_identifier/delete_node
// step names. The normative Tier-1 shape (spec.md §6:
// {"op":"rename_identifier","target":<Locator>,"new_name":...}) carries it
// in Target.Name, or for a sexp locator in an (#eq? @capture "name")
// predicate; old_name in RawParams is a legacy string-pattern affordance
// and is only consulted as a fallback.
func renameSymbolName(step contracts.Step) string {
	if step.Target != nil {
		if step.Target.Name != "" {
			return step.Target.Name
		}
		if name := sexpEqLiteral(*step.Target); name != "" {
			return name
		}
	}
	name, _ := step.RawParams["old_name"].(string)
	return name
}

// sexpEqLiteral pulls the literal string an (#eq? @capture "literal")
// predicate compares loc.Capture against, so a sexp-form locator can still
// yield the name a structural locator would carry in Name directly.
func sexpEqLiteral(loc contracts.Locator) string {
	if !loc.IsSexp() || loc.Capture == "" {
		return ""
	}
	needle := "#eq? @" + loc.Capture
	idx := strings.Index(loc.Query, needle)
	if idx < 0 {
		return ""
	}
	rest := loc.Query[idx+len(needle):]
	start := strings.IndexByte(rest, '"')
	if start < 0 {
		return ""
	}
	rest = rest[start+1:]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// layer4SymbolScope classifies rename_identifier occurrences of the
// step's old name as code, string, or comment, warning when any
// non-code occurrence exists (spec.md §4.9 Layer 4).
func layer4SymbolScope(step contracts.Step, graph *contracts.Graph, file string) []string {
	if step.Op != contracts.OpRenameIdentifier {
		return nil
	}
	oldName := renameSymbolName(step)
	if oldName == "" {
		return nil
	}
	lineKinds := graph.LineKinds[file]
	src, err := os.ReadFile(file)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(src), "\n")
	nonCode := 0
	for line, kind := range lineKinds {
		if kind != "string" && kind != "comment" {
			continue
		}
		if line >= 1 && line <= len(lines) && strings.Contains(lines[line-1], oldName) {
			nonCode++
		}
	}
	if nonCode > 0 {
		return []string{"rename target " + oldName + " also appears in " + strconv.Itoa(nonCode) + " string/comment line(s)"}
	}
	return nil
}

// layer5PreflightSyntax simulates a Tier-3 fragment step's replacement
// in memory and parses it; other tiers rely on their own in-line
// preflight (template.modify_condition) or on run()'s L0 check at
// execution time, since simulating their exact output without running
// the handler would duplicate L6/L9 logic here.
func layer5PreflightSyntax(i int, step contracts.Step, l *lang.Language, src []byte) []contracts.PlanError {
	if step.DetectTier() != contracts.TierFragment || step.Fragment == nil || step.Target == nil {
		return nil
	}
	if err := fragment.Validate(step.Fragment); err != nil {
		return []contracts.PlanError{{Level: contracts.LevelL6, StepIndex: i, Message: err.Error()}}
	}

	tree, err := parser.Parse(l, src)
	if err != nil {
		return nil
	}
	defer tree.Close()
	matches := locate.Resolve(*step.Target, l, tree, src)
	if len(matches) == 0 {
		return nil
	}
	n := matches[0]
	depth := 0
	text := fragment.Serialize(step.Fragment, depth)

	var spliced []byte
	spliced = append(spliced, src[:n.StartByte()]...)
	spliced = append(spliced, []byte(text)...)
	spliced = append(spliced, src[n.EndByte():]...)

	newTree, err := parser.Parse(l, spliced)
	if err != nil {
		return []contracts.PlanError{{Level: contracts.LevelL6, StepIndex: i, Message: "fragment simulation failed to parse"}}
	}
	defer newTree.Close()
	if !parser.ParsesOK(newTree) {
		return []contracts.PlanError{{Level: contracts.LevelL6, StepIndex: i, Message: "fragment would introduce a parse error"}}
	}
	return nil
}

// layer6CrossFileImpact warns when a rename/delete targets a symbol
// that other files (outside the plan) import.
func layer6CrossFileImpact(steps []contracts.Step, graph *contracts.Graph) []string {
	planFiles := map[string]bool{}
	for _, s := range steps {
		if f := stepFile(s); f != "" {
			planFiles[f] = true
		}
	}

	importers := map[string][]string{}
	for _, imp := range graph.Imports {
		key := imp.Symbol
		if key == "" {
			key = imp.Module
		}
		importers[key] = append(importers[key], imp.File)
	}

	var warnings []string
	for _, step := range steps {
		if step.Op != contracts.OpRenameIdentifier && step.Op != contracts.OpDeleteNode {
			continue
		}
		name := renameSymbolName(step)
		if name == "" {
			continue
		}
		for _, importerFile := range importers[name] {
			if !planFiles[importerFile] {
				warnings = append(warnings, "symbol "+name+" is imported from "+importerFile+", which is not in this plan")
			}
		}
	}
	return warnings
}
