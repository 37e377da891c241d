package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/router"
)

func executeStepCmd() *cobra.Command {
	var graphPath string

	cmd := &cobra.Command{
		Use:   "execute-step <step.json>",
		Short: "Dispatch one plan step through its tier and run L4/L5 checks (spec.md §6 execute_step)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var step contracts.Step
			if err := readJSONFile(args[0], &step); err != nil {
				return err
			}
			plan := contracts.Plan{Steps: []contracts.Step{step}}
			if err := router.DecodePlan(&plan); err != nil {
				return err
			}
			step = plan.Steps[0]

			g := contracts.NewGraph()
			if graphPath != "" {
				if err := readJSONFile(graphPath, g); err != nil {
					return err
				}
			}

			rt := router.New(lang.Default)

			file := stepFileForLedger(step)
			preSrc, _ := os.ReadFile(file)

			result := rt.ExecuteStep(step, g, nil)

			if ledger, closeFn := openLedger(); ledger != nil {
				defer closeFn()
				runID, err := ledger.BeginPlanRun(&plan, g)
				if err != nil {
					logger.Warn("failed to open ledger run", zap.Error(err))
				} else {
					postSrc, _ := os.ReadFile(file)
					if err := ledger.RecordStep(runID, 0, file, string(step.Op), preSrc, postSrc, result); err != nil {
						logger.Warn("failed to record step", zap.Error(err))
					}
					_ = ledger.EndPlanRun(runID)
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.Success {
				_ = logger.Sync()
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&graphPath, "graph", "", "optional Graph JSON for L3/L4 referential and import-closure warnings")
	return cmd
}

func stepFileForLedger(step contracts.Step) string {
	if step.Target != nil {
		return step.Target.File
	}
	if step.Parent != nil {
		return step.Parent.File
	}
	if f, ok := step.RawParams["file"].(string); ok {
		return f
	}
	for _, key := range []string{"target", "locator", "source", "parent", "a"} {
		if loc, ok := step.RawParams[key].(contracts.Locator); ok && loc.File != "" {
			return loc.File
		}
	}
	return ""
}
