package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/store"
)

func setupTestDB(t *testing.T) (*store.SQLiteStore, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "product-sandbox-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open store: %v", err)
	}

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestOpen(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestSaveAndGetScenario(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	params := sim.DefaultParams()
	params.Users = 5000
	params.CAC = 750

	saved, err := s.SaveScenario(ctx, "growth", params, false)
	if err != nil {
		t.Fatalf("failed to save scenario: %v", err)
	}
	if saved.Name != "growth" {
		t.Errorf("got Name %s, want growth", saved.Name)
	}

	got, err := s.GetScenario(ctx, "growth")
	if err != nil {
		t.Fatalf("failed to get scenario: %v", err)
	}
	if got.Params.Users != 5000 {
		t.Errorf("got Users %d, want 5000", got.Params.Users)
	}
	if got.Params.CAC != 750 {
		t.Errorf("got CAC %g, want 750", got.Params.CAC)
	}
	if got.Params.ConversionPct != params.ConversionPct {
		t.Errorf("got ConversionPct %g, want %g", got.Params.ConversionPct, params.ConversionPct)
	}
}

func TestSaveScenario_DuplicateName(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	params := sim.DefaultParams()
	if _, err := s.SaveScenario(ctx, "base", params, false); err != nil {
		t.Fatalf("failed to save scenario: %v", err)
	}

	_, err := s.SaveScenario(ctx, "base", params, false)
	if !errors.Is(err, store.ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}

	params.Users = 9999
	updated, err := s.SaveScenario(ctx, "base", params, true)
	if err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if updated.Params.Users != 9999 {
		t.Errorf("got Users %d after overwrite, want 9999", updated.Params.Users)
	}

	got, err := s.GetScenario(ctx, "base")
	if err != nil {
		t.Fatalf("failed to get scenario: %v", err)
	}
	if got.Params.Users != 9999 {
		t.Errorf("overwrite not persisted, got Users %d", got.Params.Users)
	}
}

func TestGetScenario_NotFound(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := s.GetScenario(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListScenarios(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := s.SaveScenario(ctx, name, sim.DefaultParams(), false); err != nil {
			t.Fatalf("failed to save %s: %v", name, err)
		}
	}

	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d scenarios, want 3", len(list))
	}
	// Ordered by name.
	if list[0].Name != "alpha" || list[1].Name != "mid" || list[2].Name != "zeta" {
		t.Errorf("unexpected order: %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}
}

func TestDeleteScenario(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := s.SaveScenario(ctx, "doomed", sim.DefaultParams(), false); err != nil {
		t.Fatalf("failed to save scenario: %v", err)
	}
	if err := s.DeleteScenario(ctx, "doomed"); err != nil {
		t.Fatalf("failed to delete scenario: %v", err)
	}
	if _, err := s.GetScenario(ctx, "doomed"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteScenario(ctx, "doomed"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestExperimentHistory(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	params := sim.DefaultParams()
	for i := 0; i < 5; i++ {
		params.Seed = int64(i)
		snap := store.Snapshot{TotalUsers: params.Users, ConversionPct: float64(10 + i)}
		if err := s.AppendExperiment(ctx, "run", params, snap); err != nil {
			t.Fatalf("failed to append experiment: %v", err)
		}
	}

	all, err := s.ListExperiments(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list experiments: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d experiments, want 5", len(all))
	}
	// Newest first: the last appended run carries seed 4.
	if all[0].Params.Seed != 4 {
		t.Errorf("got Seed %d for newest experiment, want 4", all[0].Params.Seed)
	}
	if all[0].Metrics.ConversionPct != 14 {
		t.Errorf("got ConversionPct %g, want 14", all[0].Metrics.ConversionPct)
	}

	limited, err := s.ListExperiments(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list experiments with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d experiments with limit 2", len(limited))
	}
}
