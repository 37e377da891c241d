package main

import (
	"go.uber.org/zap"

	"github.com/oxhq/cstforge/internal/store"
)

// openLedger best-effort-opens the execution-history ledger (SPEC_FULL.md
// §3). A DB that cannot be reached degrades to "no ledger" with a warning
// rather than failing the command: the ledger is an optional record an
// external orchestrator consults for plan-level rollback, never part of
// the engine's own success/failure contract (spec.md §6: the engine
// itself is stateless between invocations).
func openLedger() (*store.Ledger, func()) {
	if noLedger {
		return nil, func() {}
	}

	db, err := store.Connect(cfg.DatabaseDSN, false)
	if err != nil {
		logger.Warn("ledger unavailable, continuing without execution history", zap.Error(err))
		return nil, func() {}
	}

	sqlDB, err := db.DB()
	closeFn := func() {}
	if err == nil {
		closeFn = func() { _ = sqlDB.Close() }
	}
	return store.NewLedger(db), closeFn
}
