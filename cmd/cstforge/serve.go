package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/engine"
	"github.com/oxhq/cstforge/internal/graph"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/planverify"
	"github.com/oxhq/cstforge/internal/router"
)

// serveRequest is one line of newline-delimited JSON read from stdin by
// `cstforge serve`. cmd names the subcommand verb it stands in for.
type serveRequest struct {
	Cmd   string             `json:"cmd"`
	Paths []string           `json:"paths,omitempty"`
	Plan  *contracts.Plan    `json:"plan,omitempty"`
	Graph *contracts.Graph   `json:"graph,omitempty"`
	Step  *contracts.Step    `json:"step,omitempty"`
	Loc   *contracts.Locator `json:"locator,omitempty"`
}

// serveCmd implements SPEC_FULL.md §0/§3's long-lived session surface: an
// orchestrator that wants to avoid a process-spawn per step keeps one
// `cstforge serve` alive and pipes one request object per line, getting
// one response object per line back, rather than invoking the five
// one-shot subcommands as separate processes.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as a long-lived process, reading one JSON request per stdin line and writing one JSON response per stdout line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := router.New(lang.Default)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
			out := json.NewEncoder(os.Stdout)

			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				resp := handleServeLine(rt, line)
				if err := out.Encode(resp); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}

func handleServeLine(rt *router.Router, line []byte) any {
	var req serveRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return map[string]any{"success": false, "error": fmt.Sprintf("invalid request: %v", err)}
	}

	switch req.Cmd {
	case "build_graph":
		paths, err := engine.Expand(req.Paths)
		if err != nil {
			return map[string]any{"success": false, "error": err.Error()}
		}
		paths = engine.FilterSupported(paths, lang.Default)
		b := graph.NewBuilder(logger)
		return b.Build(paths)

	case "verify_plan":
		if req.Plan == nil {
			return map[string]any{"success": false, "error": "request missing \"plan\""}
		}
		if err := router.DecodePlan(req.Plan); err != nil {
			return map[string]any{"success": false, "error": err.Error()}
		}
		g := req.Graph
		if g == nil {
			g = contracts.NewGraph()
		}
		return planverify.Run(req.Plan, g, lang.Default)

	case "execute_step":
		if req.Step == nil {
			return map[string]any{"success": false, "error": "request missing \"step\""}
		}
		plan := contracts.Plan{Steps: []contracts.Step{*req.Step}}
		if err := router.DecodePlan(&plan); err != nil {
			return map[string]any{"success": false, "error": err.Error()}
		}
		g := req.Graph
		if g == nil {
			g = contracts.NewGraph()
		}
		return rt.ExecuteStep(plan.Steps[0], g, nil)

	case "locate", "locate_region":
		if req.Loc == nil {
			return map[string]any{"success": false, "error": "request missing \"locator\""}
		}
		return serveLocate(*req.Loc, req.Cmd == "locate_region")

	default:
		return map[string]any{"success": false, "error": "unknown cmd: " + req.Cmd}
	}
}
