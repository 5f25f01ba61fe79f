package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"openingaudit/internal/runlock"
	"openingaudit/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckInputTables(t *testing.T) {
	if result := CheckInputTables(context.Background(), nil); result.Passed {
		t.Fatal("expected failure without a store")
	}

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if result := CheckInputTables(context.Background(), store); result.Passed {
		t.Fatalf("expected failure for empty series table, got %s", result.Detail)
	}

	testsupport.SeedFixture(t, store, testsupport.DefaultFixture())
	result := CheckInputTables(context.Background(), store)
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "4 series, 4 episodes") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckRunLock(t *testing.T) {
	dir := t.TempDir()
	if result := CheckRunLock(dir, "results"); !result.Passed {
		t.Fatalf("expected idle lock, got %s", result.Detail)
	}

	held, err := runlock.Acquire(dir, "results", nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()

	result := CheckRunLock(dir, "results")
	if result.Passed || !strings.Contains(result.Detail, "a run is writing results") {
		t.Fatalf("expected busy lock, got %#v", result)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedFixture(t, store, testsupport.DefaultFixture())

	results := RunAll(context.Background(), cfg, store)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %#v", results)
	}
	if RunAll(context.Background(), nil, nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
