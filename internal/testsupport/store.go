package testsupport

import (
	"context"
	"testing"

	"openingaudit/internal/config"
	"openingaudit/internal/logging"
	"openingaudit/internal/tables"
)

// MustOpenStore opens a tables.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *tables.Store {
	t.Helper()

	store, err := tables.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("tables.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Seed replaces an input table with rows given as CSV text (header first).
func Seed(t testing.TB, store *tables.Store, kind, csvText string) {
	t.Helper()

	table, err := tables.LookupInput(store.Tables(), kind)
	if err != nil {
		t.Fatalf("lookup %s: %v", kind, err)
	}
	if _, err := store.ImportCSV(context.Background(), table.Name, table.Fields, stringsReader(csvText)); err != nil {
		t.Fatalf("seed %s: %v", kind, err)
	}
}
