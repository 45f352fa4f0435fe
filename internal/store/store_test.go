package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xonecas/tilawa/internal/constants"
)

func setupStoreTest(t *testing.T) (*Store, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return s, func() { s.Close() }
}

func TestOpenMemory(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	// Verify tables exist by querying them
	if _, err := s.db.Exec("SELECT 1 FROM input_history LIMIT 1"); err != nil {
		t.Errorf("input_history table not created: %v", err)
	}
	if _, err := s.db.Exec("SELECT 1 FROM catalog_snapshots LIMIT 1"); err != nil {
		t.Errorf("catalog_snapshots table not created: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := s.AddInput("قرآن میں کتنی سورتیں ہیں"); err != nil {
		t.Fatalf("AddInput() error: %v", err)
	}
	s.Close()

	s, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	inputs, err := s.RecentInputs(10)
	if err != nil {
		t.Fatalf("RecentInputs() error: %v", err)
	}
	if len(inputs) != 1 {
		t.Errorf("expected 1 input after reopen, got %d", len(inputs))
	}
}

func TestMigrateRecreatesOldSchema(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	if err := s.AddInput("old"); err != nil {
		t.Fatalf("AddInput() error: %v", err)
	}
	if _, err := s.db.Exec("UPDATE schema_version SET version = 0"); err != nil {
		t.Fatalf("downgrade version: %v", err)
	}
	if err := s.migrate(); err != nil {
		t.Fatalf("migrate() error: %v", err)
	}

	inputs, _ := s.RecentInputs(10)
	if len(inputs) != 0 {
		t.Errorf("expected tables recreated empty, got %v", inputs)
	}
}

func TestInputHistory(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	for _, text := range []string{"a", "b", "b", "  ", "c"} {
		if err := s.AddInput(text); err != nil {
			t.Fatalf("AddInput(%q) error: %v", text, err)
		}
	}

	inputs, err := s.RecentInputs(0)
	if err != nil {
		t.Fatalf("RecentInputs() error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(inputs) != len(want) {
		t.Fatalf("expected %v, got %v", want, inputs)
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("inputs[%d] = %q, want %q", i, inputs[i], want[i])
		}
	}

	last2, _ := s.RecentInputs(2)
	if len(last2) != 2 || last2[0] != "b" || last2[1] != "c" {
		t.Errorf("expected [b c], got %v", last2)
	}

	if err := s.ClearInputs(); err != nil {
		t.Fatalf("ClearInputs() error: %v", err)
	}
	inputs, _ = s.RecentInputs(0)
	if len(inputs) != 0 {
		t.Errorf("expected empty history, got %v", inputs)
	}
}

func TestInputHistoryPruned(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	total := constants.MaxInputHistory + 5
	for i := 0; i < total; i++ {
		if err := s.AddInput(fmt.Sprintf("q%d", i)); err != nil {
			t.Fatalf("AddInput() error: %v", err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM input_history").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != constants.MaxInputHistory {
		t.Errorf("expected %d rows, got %d", constants.MaxInputHistory, count)
	}

	inputs, _ := s.RecentInputs(0)
	if inputs[0] != "q5" {
		t.Errorf("expected oldest kept entry q5, got %s", inputs[0])
	}
	if inputs[len(inputs)-1] != fmt.Sprintf("q%d", total-1) {
		t.Errorf("unexpected newest entry %s", inputs[len(inputs)-1])
	}
}

func TestSnapshots(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	var facts []string
	found, _, err := s.LoadSnapshot(SnapshotFacts, &facts)
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if found {
		t.Error("expected no snapshot in a fresh store")
	}

	if err := s.SaveSnapshot(SnapshotFacts, []string{"first"}); err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}
	if err := s.SaveSnapshot(SnapshotFacts, []string{"قرآن میں 114 سورتیں ہیں۔", "second"}); err != nil {
		t.Fatalf("SaveSnapshot() overwrite error: %v", err)
	}

	found, updated, err := s.LoadSnapshot(SnapshotFacts, &facts)
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if !found {
		t.Fatal("expected snapshot")
	}
	if updated.IsZero() {
		t.Error("expected updated_at to be set")
	}
	if len(facts) != 2 || facts[0] != "قرآن میں 114 سورتیں ہیں۔" {
		t.Errorf("unexpected facts %v", facts)
	}

	type category struct {
		ID        string   `json:"id"`
		Questions []string `json:"questions"`
	}
	if err := s.SaveSnapshot(SnapshotCategories, []category{{ID: "structure", Questions: []string{"q"}}}); err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}
	var cats []category
	if found, _, err := s.LoadSnapshot(SnapshotCategories, &cats); err != nil || !found {
		t.Fatalf("LoadSnapshot(categories) = %v, %v", found, err)
	}
	if len(cats) != 1 || cats[0].ID != "structure" {
		t.Errorf("unexpected categories %+v", cats)
	}
}

func TestSnapshotDecodeError(t *testing.T) {
	s, cleanup := setupStoreTest(t)
	defer cleanup()

	if err := s.SaveSnapshot(SnapshotPopular, map[string]int{"x": 1}); err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}
	var popular []string
	if _, _, err := s.LoadSnapshot(SnapshotPopular, &popular); err == nil {
		t.Error("expected decode error for mismatched payload")
	}
}
