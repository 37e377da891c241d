package router

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cstforge/internal/compose"
	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecuteStep_SurgeryRenameIdentifier(t *testing.T) {
	src := "package main\n\nfunc oldName() int {\n\treturn 1\n}\n"
	path := writeTemp(t, src)

	step := contracts.Step{
		Op:      contracts.OpRenameIdentifier,
		NewName: "newName",
		Target: &contracts.Locator{
			Kind: contracts.KindFunction,
			Name: "oldName",
			File: path,
		},
	}

	rt := New(lang.Default)
	res := rt.ExecuteStep(step, contracts.NewGraph(), nil)

	require.True(t, res.Success, res.Error)
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "func newName")
	assert.NotContains(t, string(out), "oldName")
}

func TestExecuteStep_UnknownOp(t *testing.T) {
	path := writeTemp(t, "package main\n")
	step := contracts.Step{
		Op: "not_a_real_op",
		Target: &contracts.Locator{
			Kind: contracts.KindFunction,
			File: path,
		},
	}

	rt := New(lang.Default)
	res := rt.ExecuteStep(step, contracts.NewGraph(), nil)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown")
}

func TestExecuteStep_LegacyPrimitiveInsertAfter(t *testing.T) {
	src := "package main\n\nfunc a() {}\n"
	path := writeTemp(t, src)

	raw, err := json.Marshal(map[string]any{
		"locator": map[string]any{
			"kind": "function",
			"name": "a",
			"file": path,
		},
		"text": "\nfunc b() {}\n",
	})
	require.NoError(t, err)

	step := contracts.Step{
		Op:     "insert_after_node",
		Params: raw,
	}

	rt := New(lang.Default)
	res := rt.ExecuteStep(step, contracts.NewGraph(), nil)

	require.True(t, res.Success, res.Error)
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "func b()")
}

func TestExecuteStep_ComposedBuiltinAddMethod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(path, []byte("class Foo:\n    pass\n"), 0o644))

	raw, err := json.Marshal(map[string]any{
		"target": map[string]any{
			"kind": "class",
			"name": "Foo",
			"file": path,
		},
		"method_name": "bar",
		"params":      "self",
		"body":        "return 1",
	})
	require.NoError(t, err)

	step := contracts.Step{
		Op:     "add_method",
		Params: raw,
	}

	rt := New(lang.Default)
	res := rt.ExecuteStep(step, contracts.NewGraph(), compose.Table{})

	require.True(t, res.Success, res.Error)
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "def bar(self):")
}

func TestExecuteStep_MissingTargetFile(t *testing.T) {
	step := contracts.Step{
		Op: contracts.OpDeleteNode,
		Target: &contracts.Locator{
			Kind: contracts.KindFunction,
			Name: "x",
		},
	}

	rt := New(lang.Default)
	res := rt.ExecuteStep(step, nil, nil)

	assert.False(t, res.Success)
	assert.Equal(t, contracts.Error{Code: contracts.ErrMissingParam, Message: "step does not name a target file"}.Error(), res.Error)
}

func TestDecodeParams_PromotesNestedLocatorAndFragment(t *testing.T) {
	raw := json.RawMessage(`{
		"target": {"kind": "function", "name": "foo", "file": "x.go"},
		"fragment": {"kind": "expression_statement", "children": []},
		"label": "plain"
	}`)

	params, err := decodeParams(raw)
	require.NoError(t, err)

	loc, ok := params["target"].(contracts.Locator)
	require.True(t, ok)
	assert.Equal(t, "foo", loc.Name)

	frag, ok := params["fragment"].(*contracts.ASTFrag)
	require.True(t, ok)
	assert.Equal(t, "expression_statement", frag.Kind)

	assert.Equal(t, "plain", params["label"])
}
