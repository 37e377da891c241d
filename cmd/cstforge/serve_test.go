package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/router"
)

func TestHandleServeLine_UnknownCmd(t *testing.T) {
	resp := handleServeLine(router.New(lang.Default), []byte(`{"cmd":"not_a_real_cmd"}`))
	m, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m["error"], "unknown cmd")
}

func TestHandleServeLine_InvalidJSON(t *testing.T) {
	resp := handleServeLine(router.New(lang.Default), []byte(`not json`))
	m, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.False(t, m["success"].(bool))
}

func TestHandleServeLine_BuildGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc greet() string {\n\treturn \"hi\"\n}\n"), 0o644))

	req, err := json.Marshal(map[string]any{"cmd": "build_graph", "paths": []string{path}})
	require.NoError(t, err)

	resp := handleServeLine(router.New(lang.Default), req)
	g, ok := resp.(*contracts.Graph)
	require.True(t, ok)
	assert.NotEmpty(t, g.Symbols)
}

func TestHandleServeLine_ExecuteStepMissingStep(t *testing.T) {
	resp := handleServeLine(router.New(lang.Default), []byte(`{"cmd":"execute_step"}`))
	m, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m["error"], "missing \"step\"")
}

func TestHandleServeLine_ExecuteStepRenameIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc oldName() int {\n\treturn 1\n}\n"), 0o644))

	stepJSON := `{
		"op": "rename_identifier",
		"new_name": "newName",
		"target": {"kind": "function", "name": "oldName", "file": "` + path + `"}
	}`
	var step contracts.Step
	require.NoError(t, json.Unmarshal([]byte(stepJSON), &step))

	req, err := json.Marshal(map[string]any{"cmd": "execute_step", "step": step})
	require.NoError(t, err)

	resp := handleServeLine(router.New(lang.Default), req)
	res, ok := resp.(contracts.StepResult)
	require.True(t, ok)
	assert.True(t, res.Success)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "newName")
}
