package tables_test

import (
	"context"
	"strings"
	"testing"

	"openingaudit/internal/catalog"
	"openingaudit/internal/tables"
	"openingaudit/internal/testsupport"
)

func TestImportCSVMatchesColumnsByName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	doc := "\ufeffend, begin ,episode,series_id,extra\n120,30,1,5,ignored\n\n130,35,2,5,\n"
	n, err := store.ImportCSV(ctx, cfg.Tables.Offsets, tables.OffsetFields, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows imported, got %d", n)
	}

	offsets, err := store.LoadOffsets(ctx)
	if err != nil {
		t.Fatalf("LoadOffsets failed: %v", err)
	}
	want := []catalog.DetectedOffset{
		{SeriesID: 5, Episode: 1, Begin: 30, End: 120},
		{SeriesID: 5, Episode: 2, Begin: 35, End: 130},
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("row %d: expected %#v, got %#v", i, want[i], offsets[i])
		}
	}
}

func TestImportCSVReplacesTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.Seed(t, store, tables.KindEpisodes, "series_id,episode\n1,1\n1,2\n1,3\n")
	testsupport.Seed(t, store, tables.KindEpisodes, "series_id,episode\n2,1\n")

	episodes, err := store.LoadEpisodes(context.Background())
	if err != nil {
		t.Fatalf("LoadEpisodes failed: %v", err)
	}
	if len(episodes) != 1 || episodes[0].SeriesID != 2 {
		t.Fatalf("expected import to replace prior rows, got %#v", episodes)
	}
}

func TestImportCSVRejectsBadHeaders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cases := map[string]string{
		"empty":     "",
		"unrelated": "foo,bar\n1,2\n",
		"duplicate": "series_id,series_id\n1,2\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := store.ImportCSV(ctx, cfg.Tables.Episodes, tables.EpisodeFields, strings.NewReader(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReplaceOverridesStoresSparseRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	status := catalog.TitleDownloaded
	episode, begin := 3, catalog.NoOpening
	input := []catalog.Override{
		{SeriesID: 1, TitleStatus: &status},
		{SeriesID: 2, Episode: &episode, EpisodeStatus: "custom", Begin: &begin},
	}
	if err := store.ReplaceOverrides(ctx, input); err != nil {
		t.Fatalf("ReplaceOverrides failed: %v", err)
	}

	got, err := store.LoadOverrides(ctx)
	if err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(got))
	}
	if !got[0].HasTitleStatus() || *got[0].TitleStatus != status || got[0].Episode != nil {
		t.Fatalf("unexpected title override %#v", got[0])
	}
	second := got[1]
	if second.Episode == nil || *second.Episode != 3 || second.EpisodeStatus != "custom" {
		t.Fatalf("unexpected episode override %#v", second)
	}
	if second.Begin == nil || *second.Begin != catalog.NoOpening || second.End != nil {
		t.Fatalf("unexpected interval %#v", second)
	}
}
