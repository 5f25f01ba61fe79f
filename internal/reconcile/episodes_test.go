package reconcile_test

import (
	"errors"
	"testing"

	"openingaudit/internal/catalog"
	"openingaudit/internal/reconcile"
)

func TestReconcileEpisodesFillsCatalogGaps(t *testing.T) {
	title := downloaded(1, "Gaps")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2, 4),
		Offsets:  offsetsWithLengths(1, 90, 90, 90, 90),
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected episodes 1..4, got %d rows", len(rows))
	}
	for i, row := range rows {
		if *row.Episode != i+1 {
			t.Fatalf("expected ascending episodes, row %d is episode %d", i, *row.Episode)
		}
	}
	gap, _ := rowFor(rows, 3)
	if gap.Status != catalog.EpisodeDownloadError {
		t.Fatalf("expected download error for episode 3, got %q", gap.Status)
	}
	if gap.IsFound() || gap.OpBegin != nil || gap.OpEnd != nil || gap.Length != nil {
		t.Fatalf("expected no interval for episode 3, got %#v", gap)
	}
}

func TestReconcileEpisodesGapKeepsManualInterval(t *testing.T) {
	title := downloaded(1, "Gaps")
	records := reconcile.TitleRecords{
		Episodes:  catalogRange(1, 1, 2, 4),
		Offsets:   offsetsWithLengths(1, 90, 90, 290, 90),
		Overrides: []catalog.Override{{SeriesID: 1, Episode: intPtr(3), Begin: intPtr(20), End: intPtr(110)}},
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	gap, _ := rowFor(rows, 3)
	if gap.Status != catalog.EpisodeMarkedManually || !gap.IsFound() || *gap.Length != 90 {
		t.Fatalf("expected manual interval on missing episode, got %#v", gap)
	}
}

func TestReconcileEpisodesGapWithoutOffset(t *testing.T) {
	title := downloaded(1, "Gaps")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2, 4),
		Offsets:  offsetsWithLengths(1, 90, 90),
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	gap, _ := rowFor(rows, 3)
	if gap.Status != catalog.EpisodeDownloadError || gap.IsFound() || gap.OpBegin != nil || gap.InMins != "" {
		t.Fatalf("unexpected gap row %#v", gap)
	}
}

func TestReconcileEpisodesErrorStatuses(t *testing.T) {
	title := downloaded(1, "Errors")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2, 3, 4),
		Errors: []catalog.ExtractionError{
			{SeriesID: 1, Episode: 1, Code: catalog.ErrorTooShort},
			{SeriesID: 1, Episode: 2, Code: "Unrecognized"},
			{SeriesID: 1, Episode: 2, Code: catalog.ErrorFFmpeg},
			{SeriesID: 1, Episode: 2, Code: catalog.ErrorTooShort},
			{SeriesID: 1, Episode: 3, Code: "Unrecognized"},
		},
		Offsets: []catalog.DetectedOffset{{SeriesID: 1, Episode: 3, Begin: 5, End: 95}},
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	want := map[int]string{
		1: catalog.EpisodeTooShort,
		2: catalog.EpisodeFFmpegErrors,
		3: catalog.EpisodeOpeningFound,
		4: catalog.EpisodeOpeningMissing,
	}
	for episode, status := range want {
		row, _ := rowFor(rows, episode)
		if row.Status != status {
			t.Fatalf("episode %d: expected %q, got %q", episode, status, row.Status)
		}
	}
}

func TestReconcileEpisodesFoundInterval(t *testing.T) {
	title := downloaded(1, "Found")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2),
		Offsets: []catalog.DetectedOffset{
			{SeriesID: 1, Episode: 1, Begin: 65.7, End: 155.2},
			{SeriesID: 1, Episode: 1, Begin: 0, End: 1},
		},
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	row, _ := rowFor(rows, 1)
	if row.Status != catalog.EpisodeOpeningFound || !row.IsFound() {
		t.Fatalf("expected found opening, got %#v", row)
	}
	if *row.OpBegin != 65.7 || *row.OpEnd != 155.2 {
		t.Fatalf("expected first offset to win, got %v..%v", *row.OpBegin, *row.OpEnd)
	}
	if row.InMins != "1:5 - 2:35" {
		t.Fatalf("unexpected in_mins %q", row.InMins)
	}
	if row.Length == nil || *row.Length < 89.49 || *row.Length > 89.51 || !*row.IsLengthInWindow {
		t.Fatalf("unexpected length %#v", row)
	}
	if row.MedianLength != nil {
		t.Fatal("median fields must be left for Annotate")
	}

	missing, _ := rowFor(rows, 2)
	if missing.Status != catalog.EpisodeOpeningMissing || missing.Found == nil || *missing.Found {
		t.Fatalf("expected explicit found=false, got %#v", missing)
	}
}

func TestReconcileEpisodesZeroIntervalIsNotFound(t *testing.T) {
	title := downloaded(1, "Zero")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2),
		Offsets: []catalog.DetectedOffset{
			{SeriesID: 1, Episode: 1, Begin: 0, End: 0},
			{SeriesID: 1, Episode: 2, Begin: 0, End: 88},
		},
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	zero, _ := rowFor(rows, 1)
	if zero.IsFound() || zero.OpBegin != nil || zero.Length != nil {
		t.Fatalf("0..0 must not count as found: %#v", zero)
	}
	if zero.Status != catalog.EpisodeOpeningFound {
		t.Fatalf("status follows offset presence, got %q", zero.Status)
	}
	start, _ := rowFor(rows, 2)
	if !start.IsFound() || *start.OpBegin != 0 || start.InMins != "0:0 - 1:28" {
		t.Fatalf("opening starting at 0 must be found: %#v", start)
	}
}

func TestReconcileEpisodesOverrides(t *testing.T) {
	title := downloaded(1, "Overrides")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2, 3, 5),
		Errors:   []catalog.ExtractionError{{SeriesID: 1, Episode: 3, Code: catalog.ErrorFFmpeg}},
		Offsets:  offsetsWithLengths(1, 90, 90, 90, 90, 90),
		Overrides: []catalog.Override{
			{SeriesID: 1, Episode: intPtr(1), Begin: intPtr(catalog.NoOpening)},
			{SeriesID: 1, Episode: intPtr(2), EpisodeStatus: "checked"},
			{SeriesID: 1, Episode: intPtr(3), Begin: intPtr(20), End: intPtr(105)},
			{SeriesID: 1, Episode: intPtr(4), Begin: intPtr(20)},
			{SeriesID: 1, Episode: intPtr(5), End: intPtr(catalog.NoOpening)},
			{SeriesID: 2, Episode: intPtr(1), Begin: intPtr(0), End: intPtr(0)},
		},
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}

	masked, _ := rowFor(rows, 1)
	if masked.Status != catalog.EpisodeMarkedManually || masked.IsFound() {
		t.Fatalf("begin -1 must hide the detected opening: %#v", masked)
	}

	labelled, _ := rowFor(rows, 2)
	if labelled.Status != "checked" || !labelled.IsFound() || *labelled.OpBegin != 10 {
		t.Fatalf("status-only override keeps detected interval: %#v", labelled)
	}

	manual, _ := rowFor(rows, 3)
	if manual.Status != catalog.EpisodeMarkedManually || *manual.OpBegin != 20 || *manual.OpEnd != 105 || *manual.Length != 85 {
		t.Fatalf("manual interval must win over errors and detection: %#v", manual)
	}

	// Episode 4 is missing from the catalog, and its manual override has no end.
	partial, _ := rowFor(rows, 4)
	if partial.Status != catalog.EpisodeMarkedManually || partial.IsFound() {
		t.Fatalf("manual override without end is not found: %#v", partial)
	}

	hiddenEnd, _ := rowFor(rows, 5)
	if hiddenEnd.Status != catalog.EpisodeOpeningFound || hiddenEnd.IsFound() {
		t.Fatalf("end -1 hides the opening without marking manually: %#v", hiddenEnd)
	}
}

func TestReconcileEpisodesLengthWindowBounds(t *testing.T) {
	title := downloaded(1, "Window")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1, 2, 3, 4),
		Offsets:  offsetsWithLengths(1, 79.9, 80, 110, 110.1),
	}
	rows, err := reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	want := []bool{false, true, true, false}
	for i, inWindow := range want {
		if got := *rows[i].IsLengthInWindow; got != inWindow {
			t.Fatalf("episode %d: expected in-window %v, got %v", i+1, inWindow, got)
		}
	}
}

func TestReconcileEpisodesCustomWindow(t *testing.T) {
	title := downloaded(1, "Window")
	records := reconcile.TitleRecords{
		Episodes: catalogRange(1, 1),
		Offsets:  offsetsWithLengths(1, 60),
	}
	opts := reconcile.Options{WindowMin: 50, WindowMax: 70, DiffThreshold: 10}
	rows, err := reconcile.ReconcileEpisodes(title, records, opts)
	if err != nil {
		t.Fatalf("ReconcileEpisodes failed: %v", err)
	}
	if !*rows[0].IsLengthInWindow {
		t.Fatalf("expected 60s to fit a 50-70s window")
	}
}

func TestReconcileEpisodesIntegrityErrors(t *testing.T) {
	title := downloaded(4, "Broken")

	_, err := reconcile.ReconcileEpisodes(title, reconcile.TitleRecords{}, reconcile.DefaultOptions())
	if !errors.Is(err, reconcile.ErrNoEpisodes) {
		t.Fatalf("expected ErrNoEpisodes, got %v", err)
	}

	records := reconcile.TitleRecords{
		Episodes: catalogRange(4, 1, 2),
		Overrides: []catalog.Override{
			{SeriesID: 4, Episode: intPtr(2), Begin: intPtr(1), End: intPtr(90)},
			{SeriesID: 4, Episode: intPtr(2), EpisodeStatus: "other"},
		},
	}
	_, err = reconcile.ReconcileEpisodes(title, records, reconcile.DefaultOptions())
	if !errors.Is(err, reconcile.ErrAmbiguousOverride) {
		t.Fatalf("expected ErrAmbiguousOverride, got %v", err)
	}
	var integrity *reconcile.IntegrityError
	if !errors.As(err, &integrity) || integrity.Episode == nil || *integrity.Episode != 2 {
		t.Fatalf("expected episode 2 in integrity error, got %#v", err)
	}
	if got := err.Error(); got != "ambiguous override: title 4 episode 2: more than one episode override" {
		t.Fatalf("unexpected message %q", got)
	}
}
