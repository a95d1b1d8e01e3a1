package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "file.bin")

	plan := NewPlan("dl-1", "http://example.com/file.bin", outputPath, 1000, 4)
	plan.Segments[0].Downloaded = 250
	plan.Segments[1].Downloaded = 17

	if err := SaveState(plan); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if _, err := os.Stat(outputPath + ".state"); err != nil {
		t.Fatalf("state file not at deterministic path: %v", err)
	}

	loaded, err := LoadState(outputPath)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadState returned nil for existing state")
	}
	if loaded.ID != "dl-1" || loaded.URL != plan.URL || loaded.TotalSize != 1000 || loaded.Connections != 4 {
		t.Errorf("loaded plan mismatch: %+v", loaded)
	}
	if len(loaded.Segments) != 4 {
		t.Fatalf("loaded %d segments, want 4", len(loaded.Segments))
	}
	if loaded.Segments[0].Downloaded != 250 || loaded.Segments[1].Downloaded != 17 {
		t.Errorf("downloaded counts not preserved: %+v", loaded.Segments)
	}
}

func TestLoadStateAbsent(t *testing.T) {
	plan, err := LoadState(filepath.Join(t.TempDir(), "nothing.bin"))
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if plan != nil {
		t.Errorf("expected nil plan for absent state, got %+v", plan)
	}
}

func TestLoadStateUnparseable(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "file.bin")
	if err := os.WriteFile(outputPath+".state", []byte("not json{"), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadState(outputPath)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if plan != nil {
		t.Errorf("expected nil plan for unparseable state, got %+v", plan)
	}
}

func TestRemoveStateIdempotent(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "file.bin")

	plan := NewPlan("dl-1", "http://example.com/file.bin", outputPath, 100, 2)
	if err := SaveState(plan); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := RemoveState(outputPath); err != nil {
		t.Fatalf("RemoveState: %v", err)
	}
	if _, err := os.Stat(outputPath + ".state"); !os.IsNotExist(err) {
		t.Fatal("state file still present after RemoveState")
	}
	if err := RemoveState(outputPath); err != nil {
		t.Fatalf("RemoveState on absent file: %v", err)
	}
}
