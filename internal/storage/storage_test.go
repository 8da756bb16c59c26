package storage

import (
	"testing"
	"time"

	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/goals"
	"github.com/quantumlife/cogmind/internal/journal"
)

// testDB creates an in-memory database for testing
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// =============================================================================
// DB Tests
// =============================================================================

func TestDB_Open_InMemory(t *testing.T) {
	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.conn == nil {
		t.Error("db.conn should not be nil")
	}
	if !db.isMemory {
		t.Error("db.isMemory should be true for in-memory database")
	}
}

func TestDB_Open_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := tmpDir + "/test.db"

	db, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.isMemory {
		t.Error("db.isMemory should be false for file database")
	}
	if db.path != path {
		t.Errorf("db.path = %v, want %v", db.path, path)
	}
}

func TestDB_Open_AppliesPragmas(t *testing.T) {
	db := testDB(t)

	var timeout int
	if err := db.Conn().QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}

	var fk int
	if err := db.Conn().QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Error("foreign_keys should be enabled")
	}
}

func TestDB_Migrate_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running again should be a no-op, not an error
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

// =============================================================================
// ThoughtStore Tests
// =============================================================================

func TestThoughtStore_ArchiveAndRecent(t *testing.T) {
	db := testDB(t)
	store := NewThoughtStore(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []journal.Activity{
		{Kind: journal.SelfReflection, Text: "wondering about my focus", Intensity: 0.6, Timestamp: base},
		{Kind: journal.CuriosityDriven, Text: "what makes rivers meander", Intensity: 0.4, Timestamp: base.Add(time.Minute)},
		{Kind: journal.CreativeInsight, Text: "a metaphor clicked", Intensity: 0.9, Timestamp: base.Add(2 * time.Minute), Trigger: "high novelty"},
	}
	for _, a := range entries {
		if err := store.Archive(a); err != nil {
			t.Fatalf("Archive() error = %v", err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() returned %d thoughts, want 3", len(got))
	}
	// Newest first
	if got[0].Text != "a metaphor clicked" {
		t.Errorf("Recent()[0].Text = %q, want the newest entry", got[0].Text)
	}
	if got[0].Trigger != "high novelty" {
		t.Errorf("Recent()[0].Trigger = %q, want %q", got[0].Trigger, "high novelty")
	}
	if got[0].Kind != journal.CreativeInsight {
		t.Errorf("Recent()[0].Kind = %v, want %v", got[0].Kind, journal.CreativeInsight)
	}
}

func TestThoughtStore_Archive_StampsZeroTimestamp(t *testing.T) {
	db := testDB(t)
	store := NewThoughtStore(db)

	if err := store.Archive(journal.Activity{Kind: journal.MemoryRecall, Text: "unstamped"}); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	got, err := store.Recent(1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 || got[0].Timestamp.IsZero() {
		t.Error("archived thought should carry a non-zero timestamp")
	}
}

func TestThoughtStore_ArchiveAll(t *testing.T) {
	db := testDB(t)
	store := NewThoughtStore(db)

	batch := []journal.Activity{
		{Kind: journal.EmotionalProcessing, Text: "settling after the spike", Intensity: 0.5, Timestamp: time.Now()},
		{Kind: journal.GoalReassessment, Text: "the learning goal is stalling", Intensity: 0.7, Timestamp: time.Now()},
	}
	if err := store.ArchiveAll(batch); err != nil {
		t.Fatalf("ArchiveAll() error = %v", err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}

	// Empty batch is a no-op
	if err := store.ArchiveAll(nil); err != nil {
		t.Errorf("ArchiveAll(nil) error = %v", err)
	}
}

func TestThoughtStore_ByKind(t *testing.T) {
	db := testDB(t)
	store := NewThoughtStore(db)

	now := time.Now()
	store.Archive(journal.Activity{Kind: journal.SelfReflection, Text: "a", Timestamp: now})
	store.Archive(journal.Activity{Kind: journal.CuriosityDriven, Text: "b", Timestamp: now})
	store.Archive(journal.Activity{Kind: journal.SelfReflection, Text: "c", Timestamp: now.Add(time.Second)})

	got, err := store.ByKind(journal.SelfReflection, 10)
	if err != nil {
		t.Fatalf("ByKind() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ByKind() returned %d thoughts, want 2", len(got))
	}
	for _, a := range got {
		if a.Kind != journal.SelfReflection {
			t.Errorf("ByKind() returned kind %v", a.Kind)
		}
	}
}

// =============================================================================
// GoalStore Tests
// =============================================================================

func TestGoalStore_SaveAndGet(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	g := goals.New("understand distributed consensus", goals.Epistemic, 0.8)
	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	g.Deadline = &deadline

	if err := store.Save(g); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.GetByID(g.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Description != g.Description {
		t.Errorf("Description = %q, want %q", got.Description, g.Description)
	}
	if got.Category != goals.Epistemic {
		t.Errorf("Category = %v, want %v", got.Category, goals.Epistemic)
	}
	if got.Priority != 0.8 {
		t.Errorf("Priority = %v, want 0.8", got.Priority)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v, want %v", got.Deadline, deadline)
	}
	if len(got.Strategies) == 0 {
		t.Error("Strategies should round-trip")
	}
}

func TestGoalStore_Save_Upserts(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	g := goals.New("practice patience", goals.SelfDevelopment, 0.5)
	if err := store.Save(g); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	g.Progress = 0.6
	g.Status = goals.StatusPaused
	if err := store.Save(g); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.GetByID(g.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Progress != 0.6 {
		t.Errorf("Progress = %v, want 0.6", got.Progress)
	}
	if got.Status != goals.StatusPaused {
		t.Errorf("Status = %v, want %v", got.Status, goals.StatusPaused)
	}
}

func TestGoalStore_GetByID_NotFound(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	if _, err := store.GetByID("missing"); err != ErrGoalNotFound {
		t.Errorf("GetByID() error = %v, want ErrGoalNotFound", err)
	}
}

func TestGoalStore_ByStatus(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	active := goals.New("keep learning", goals.Epistemic, 0.7)
	done := goals.New("finish the essay", goals.Creative, 0.6)
	done.Status = goals.StatusCompleted
	done.Progress = 1.0

	store.Save(active)
	store.Save(done)

	got, err := store.ByStatus(goals.StatusActive, 10)
	if err != nil {
		t.Fatalf("ByStatus() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Errorf("ByStatus(active) = %d goals, want just the active one", len(got))
	}
}

// =============================================================================
// AffectStore Tests
// =============================================================================

func TestAffectStore_SnapshotAndLatest(t *testing.T) {
	db := testDB(t)
	store := NewAffectStore(db)

	earlier := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	store.Snapshot(affect.State{Valence: -0.2, Arousal: 0.6, Dominance: 0.0, Novelty: 0.3}, earlier)
	store.Snapshot(affect.State{Valence: 0.4, Arousal: 0.3, Dominance: 0.2, Novelty: 0.0}, later)

	state, takenAt, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if state.Valence != 0.4 {
		t.Errorf("Latest().Valence = %v, want the later snapshot", state.Valence)
	}
	if !takenAt.Equal(later) {
		t.Errorf("Latest() takenAt = %v, want %v", takenAt, later)
	}
}

func TestAffectStore_Latest_Empty(t *testing.T) {
	db := testDB(t)
	store := NewAffectStore(db)

	if _, _, err := store.Latest(); err != ErrNoSnapshots {
		t.Errorf("Latest() on empty store error = %v, want ErrNoSnapshots", err)
	}
}

func TestAffectStore_History(t *testing.T) {
	db := testDB(t)
	store := NewAffectStore(db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		st := affect.State{Valence: float64(i) * 0.1, Arousal: 0.3}
		store.Snapshot(st, base.Add(time.Duration(i)*time.Minute))
	}

	got, err := store.History(base.Add(2 * time.Minute))
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("History() returned %d snapshots, want 3", len(got))
	}
	// Oldest first
	if got[0].Valence >= got[2].Valence {
		t.Errorf("History() not in ascending time order: %v", got)
	}
}
