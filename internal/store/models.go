// Package store persists an execution-history / transaction-log ledger
// for plan runs (SPEC_FULL.md §3 "Execution history / transaction log").
// The engine itself is stateless between invocations (spec.md §6); this
// package is the optional ledger an external orchestrator consults to
// roll back a plan run it no longer trusts, generalized from the
// teacher's whole-file TransactionManager/TransactionLog
// (core/transaction.go) down to per-step records keyed by a plan-run
// UUID instead of a single in-process transaction.
package store

import (
	"time"

	"gorm.io/datatypes"
)

// PlanRun is one verify-plan/execute-step invocation sequence sharing a
// single plan-run id, mirroring the teacher's Session row
// (models.Session) but scoped to a plan run instead of an MCP session.
type PlanRun struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	StartedAt   time.Time `gorm:"autoCreateTime"`
	EndedAt     *time.Time
	StepCount   int            `gorm:"default:0"`
	FailCount   int            `gorm:"default:0"`
	PlanJSON    datatypes.JSON `gorm:"type:jsonb"`
	GraphJSON   datatypes.JSON `gorm:"type:jsonb"`
}

// StepRecord is one step-execution entry in the ledger, mirroring the
// teacher's TransactionOperation (type, file path, checksum,
// completed/error) but scoped to a single router.ExecuteStep call
// instead of a raw file operation, and linked to its PlanRun by
// foreign key rather than an in-process pointer.
type StepRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	PlanRunID     string `gorm:"type:varchar(36);index;not null"`
	StepIndex     int
	File          string         `gorm:"type:text"`
	Op            string         `gorm:"type:varchar(100)"`
	PreDigest     string         `gorm:"type:varchar(64)"`
	PostDigest    string         `gorm:"type:varchar(64)"`
	Success       bool
	RolledBack    bool
	Error         string         `gorm:"type:text"`
	Warnings      datatypes.JSON `gorm:"type:jsonb"`
	ExecutedAt    time.Time      `gorm:"autoCreateTime"`
}

// TableName customizations, matching the teacher's one-liner convention
// in models/models.go.
func (PlanRun) TableName() string    { return "plan_runs" }
func (StepRecord) TableName() string { return "step_records" }
