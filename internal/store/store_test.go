package store

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/oxhq/cstforge/internal/contracts"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "nested", "ledger.db")
	db, err := Connect(dsn, false)
	if err != nil {
		t.Fatalf("unexpected error connecting: %v", err)
	}
	return NewLedger(db)
}

func TestConnect_CreatesParentDirAndMigratesSchema(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
	db, err := Connect(dsn, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dsn); err != nil {
		t.Errorf("expected the sqlite file to exist at %s: %v", dsn, err)
	}
	if !db.Migrator().HasTable(&PlanRun{}) {
		t.Error("expected plan_runs table to exist after migration")
	}
	if !db.Migrator().HasTable(&StepRecord{}) {
		t.Error("expected step_records table to exist after migration")
	}
}

func TestLedger_RoundTripsPlanRunAndSteps(t *testing.T) {
	l := openTestLedger(t)

	plan := &contracts.Plan{Steps: []contracts.Step{{Op: contracts.OpDeleteNode}}}
	graph := contracts.NewGraph()

	runID, err := l.BeginPlanRun(plan, graph)
	if err != nil {
		t.Fatalf("unexpected error beginning plan run: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a non-empty run id")
	}

	result := contracts.StepResult{Success: true, Warnings: []string{"heads up"}}
	if err := l.RecordStep(runID, 0, "m.py", "delete_node", []byte("before"), []byte("after"), result); err != nil {
		t.Fatalf("unexpected error recording step: %v", err)
	}

	failResult := contracts.StepResult{Success: false, Error: "boom"}
	if err := l.RecordStep(runID, 1, "m.py", "delete_node", []byte("after"), nil, failResult); err != nil {
		t.Fatalf("unexpected error recording second step: %v", err)
	}

	if err := l.EndPlanRun(runID); err != nil {
		t.Fatalf("unexpected error ending plan run: %v", err)
	}

	steps, err := l.StepsForRun(runID)
	if err != nil {
		t.Fatalf("unexpected error listing steps: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].StepIndex != 0 || steps[1].StepIndex != 1 {
		t.Errorf("expected steps ordered by step_index, got %+v", steps)
	}
	if !steps[0].Success || steps[1].Success {
		t.Errorf("got success flags %v/%v, want true/false", steps[0].Success, steps[1].Success)
	}
	if steps[0].PreDigest != digest([]byte("before")) || steps[0].PostDigest != digest([]byte("after")) {
		t.Errorf("digests did not round-trip: %+v", steps[0])
	}
	if steps[1].PostDigest != "" {
		t.Errorf("expected an empty post-digest for a nil postSrc, got %q", steps[1].PostDigest)
	}

	var run PlanRun
	if err := l.db.First(&run, "id = ?", runID).Error; err != nil {
		t.Fatalf("unexpected error reloading plan run: %v", err)
	}
	if run.StepCount != 2 {
		t.Errorf("got StepCount %d, want 2", run.StepCount)
	}
	if run.FailCount != 1 {
		t.Errorf("got FailCount %d, want 1", run.FailCount)
	}
	if run.EndedAt == nil {
		t.Error("expected EndedAt to be set after EndPlanRun")
	}
}

func TestDigestFile_MissingFileReturnsEmptyString(t *testing.T) {
	if got := DigestFile(filepath.Join(t.TempDir(), "does_not_exist.py")); got != "" {
		t.Errorf("got %q, want empty string for a missing file", got)
	}
}

func TestDigestFile_MatchesSHA256Hex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.py")
	content := []byte("x = 1\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(content)
	want := hex.EncodeToString(sum[:])
	if got := DigestFile(path); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestIsRemote_ClassifiesSchemes(t *testing.T) {
	cases := map[string]bool{
		"libsql://host/db":  true,
		"https://host/db":   true,
		"http://host/db":    true,
		"local.db":          false,
		"/tmp/ledger.db":    false,
	}
	for dsn, want := range cases {
		if got := isRemote(dsn); got != want {
			t.Errorf("isRemote(%q) = %v, want %v", dsn, got, want)
		}
	}
}
