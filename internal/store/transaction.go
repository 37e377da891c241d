package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/cstforge/internal/contracts"
)

// Ledger records plan-run and step-execution history, generalizing the
// teacher's TransactionManager (core/transaction.go) from one
// in-process "current transaction" pointer to independent PlanRun rows
// addressed by UUID, since an orchestrator may interleave multiple
// concurrent plan runs against the same database (spec.md §5: the
// engine itself has no cross-plan state, but the ledger is allowed to).
type Ledger struct {
	db *gorm.DB
}

// NewLedger wraps an already-migrated *gorm.DB.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// BeginPlanRun creates a new PlanRun row, recording the plan and graph
// it is about to execute against, and returns the generated run id.
func (l *Ledger) BeginPlanRun(plan *contracts.Plan, graph *contracts.Graph) (string, error) {
	id := uuid.NewString()

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	graphJSON, err := json.Marshal(graph)
	if err != nil {
		return "", err
	}

	run := PlanRun{
		ID:        id,
		PlanJSON:  datatypes.JSON(planJSON),
		GraphJSON: datatypes.JSON(graphJSON),
	}
	if err := l.db.Create(&run).Error; err != nil {
		return "", err
	}
	return id, nil
}

// RecordStep appends one step-execution outcome to the ledger, hashing
// the file's content before/after (teacher's generateFileChecksum,
// sha256 hex) so an orchestrator can detect drift without re-diffing
// full file contents.
func (l *Ledger) RecordStep(planRunID string, stepIndex int, file, op string, preSrc, postSrc []byte, result contracts.StepResult) error {
	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		warnings = []byte("[]")
	}

	rec := StepRecord{
		PlanRunID:  planRunID,
		StepIndex:  stepIndex,
		File:       file,
		Op:         op,
		PreDigest:  digest(preSrc),
		PostDigest: digest(postSrc),
		Success:    result.Success,
		RolledBack: result.RolledBack,
		Error:      result.Error,
		Warnings:   datatypes.JSON(warnings),
	}
	if err := l.db.Create(&rec).Error; err != nil {
		return err
	}

	updates := map[string]any{"step_count": gorm.Expr("step_count + 1")}
	if !result.Success {
		updates["fail_count"] = gorm.Expr("fail_count + 1")
	}
	return l.db.Model(&PlanRun{}).Where("id = ?", planRunID).Updates(updates).Error
}

// EndPlanRun stamps a PlanRun's completion time.
func (l *Ledger) EndPlanRun(planRunID string) error {
	now := time.Now()
	return l.db.Model(&PlanRun{}).Where("id = ?", planRunID).Update("ended_at", &now).Error
}

// StepsForRun returns every recorded step for a plan run in execution
// order, the data an external orchestrator replays to roll back a run
// it no longer trusts (SPEC_FULL.md §3).
func (l *Ledger) StepsForRun(planRunID string) ([]StepRecord, error) {
	var steps []StepRecord
	err := l.db.Where("plan_run_id = ?", planRunID).Order("step_index asc").Find(&steps).Error
	return steps, err
}

// DigestFile hashes a file's current on-disk content, returning "" if it
// does not exist (a create-style step has no pre-digest). Exported for
// cmd/cstforge to snapshot a file's digest immediately before/after
// calling router.ExecuteStep, which RecordStep then persists.
func DigestFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return digest(b)
}

func digest(b []byte) string {
	if b == nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
