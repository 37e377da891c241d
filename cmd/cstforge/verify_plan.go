package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxhq/cstforge/internal/contracts"
	"github.com/oxhq/cstforge/internal/lang"
	"github.com/oxhq/cstforge/internal/planverify"
	"github.com/oxhq/cstforge/internal/router"
)

func verifyPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-plan <plan.json> <graph.json>",
		Short: "Run the seven-layer plan verifier before any byte is written (spec.md §6 verify_plan)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan contracts.Plan
			if err := readJSONFile(args[0], &plan); err != nil {
				return err
			}
			if err := router.DecodePlan(&plan); err != nil {
				return err
			}

			var g contracts.Graph
			if err := readJSONFile(args[1], &g); err != nil {
				return err
			}

			result := planverify.Run(&plan, &g, lang.Default)

			if ledger, closeFn := openLedger(); ledger != nil {
				defer closeFn()
				if runID, err := ledger.BeginPlanRun(&plan, &g); err != nil {
					logger.Warn("failed to record plan run", zap.Error(err))
				} else {
					_ = ledger.EndPlanRun(runID)
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.Passed {
				_ = logger.Sync()
				os.Exit(1)
			}
			return nil
		},
	}
}
