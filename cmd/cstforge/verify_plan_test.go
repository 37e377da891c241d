package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPlanCmd_RequiresExactlyTwoArgs(t *testing.T) {
	cmd := verifyPlanCmd()
	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.Error(t, cmd.Args(cmd, []string{"plan.json"}))
	assert.Error(t, cmd.Args(cmd, []string{"plan.json", "graph.json", "extra.json"}))
	assert.NoError(t, cmd.Args(cmd, []string{"plan.json", "graph.json"}))
}
