package reconcile

import (
	"fmt"
	"math"

	"openingaudit/internal/catalog"
)

// TitleRecords holds the per-title slices of the input collections.
type TitleRecords struct {
	Episodes  []catalog.Episode
	Errors    []catalog.ExtractionError
	Offsets   []catalog.DetectedOffset
	Overrides []catalog.Override
}

// ReconcileEpisodes resolves status and opening interval for every episode in
// the title's catalog range. Median fields are left unset; see Annotate.
func ReconcileEpisodes(title catalog.Title, records TitleRecords, opts Options) ([]Row, error) {
	if len(records.Episodes) == 0 {
		return nil, integrityError(ErrNoEpisodes, title.ID, nil, "catalog is empty")
	}

	present := make(map[int]struct{}, len(records.Episodes))
	minEpisode, maxEpisode := records.Episodes[0].Episode, records.Episodes[0].Episode
	for _, ep := range records.Episodes {
		present[ep.Episode] = struct{}{}
		minEpisode = min(minEpisode, ep.Episode)
		maxEpisode = max(maxEpisode, ep.Episode)
	}

	overrides, err := episodeOverrides(title.ID, records.Overrides)
	if err != nil {
		return nil, err
	}
	offsets := firstOffsets(records.Offsets)
	errorStatuses := firstErrorStatuses(records.Errors)

	rows := make([]Row, 0, maxEpisode-minEpisode+1)
	for episode := minEpisode; episode <= maxEpisode; episode++ {
		override, hasOverride := overrides[episode]
		offset, hasOffset := offsets[episode]

		var status string
		switch {
		case hasOverride && override.EpisodeStatus != "":
			status = override.EpisodeStatus
		case hasOverride && override.MarkedManually():
			status = catalog.EpisodeMarkedManually
		case !contains(present, episode):
			status = catalog.EpisodeDownloadError
		case errorStatuses[episode] != "":
			status = errorStatuses[episode]
		case hasOffset:
			status = catalog.EpisodeOpeningFound
		default:
			status = catalog.EpisodeOpeningMissing
		}

		manual := hasOverride && override.MarkedManually()
		var overrideBegin, overrideEnd *int
		if hasOverride {
			overrideBegin, overrideEnd = override.Begin, override.End
		}
		// Detection results for episodes missing from the catalog are ignored.
		detected := hasOffset && contains(present, episode)
		begin := resolveBound(overrideBegin, manual, offset.Begin, detected)
		end := resolveBound(overrideEnd, manual, offset.End, detected)

		rows = append(rows, episodeRow(title, episode, status, begin, end, opts))
	}
	return rows, nil
}

// resolveBound picks one side of the opening interval. An override value of
// -1 hides the opening even when detection found one.
func resolveBound(override *int, manual bool, detected float64, hasDetected bool) *float64 {
	if override != nil && *override == catalog.NoOpening {
		return nil
	}
	if manual {
		if override == nil {
			return nil
		}
		return ptr(float64(*override))
	}
	if hasDetected {
		return ptr(detected)
	}
	return nil
}

func episodeRow(title catalog.Title, episode int, status string, begin, end *float64, opts Options) Row {
	row := Row{
		TitleID:   title.ID,
		TitleName: title.Name,
		Episode:   ptr(episode),
		Status:    status,
	}
	// 0..0 is what the detector writes when it finds nothing.
	found := begin != nil && end != nil && (*begin != 0 || *end != 0)
	row.Found = ptr(found)
	if !found {
		return row
	}
	length := *end - *begin
	row.OpBegin = ptr(*begin)
	row.OpEnd = ptr(*end)
	row.InMins = formatInterval(*begin, *end)
	row.Length = ptr(length)
	row.IsLengthInWindow = ptr(length >= opts.WindowMin && length <= opts.WindowMax)
	return row
}

func episodeOverrides(titleID int64, overrides []catalog.Override) (map[int]catalog.Override, error) {
	out := make(map[int]catalog.Override)
	for _, ov := range overrides {
		if ov.SeriesID != titleID || ov.Episode == nil {
			continue
		}
		episode := *ov.Episode
		if _, dup := out[episode]; dup {
			return nil, integrityError(ErrAmbiguousOverride, titleID, ptr(episode), "more than one episode override")
		}
		out[episode] = ov
	}
	return out, nil
}

func firstOffsets(offsets []catalog.DetectedOffset) map[int]catalog.DetectedOffset {
	out := make(map[int]catalog.DetectedOffset, len(offsets))
	for _, offset := range offsets {
		if _, ok := out[offset.Episode]; ok {
			continue
		}
		out[offset.Episode] = offset
	}
	return out
}

// firstErrorStatuses keeps the first recognized error per episode in input order.
func firstErrorStatuses(errs []catalog.ExtractionError) map[int]string {
	out := make(map[int]string)
	for _, e := range errs {
		if _, ok := out[e.Episode]; ok {
			continue
		}
		if status, ok := catalog.EpisodeStatusForError(e.Code); ok {
			out[e.Episode] = status
		}
	}
	return out
}

func contains(set map[int]struct{}, v int) bool {
	_, ok := set[v]
	return ok
}

// formatInterval renders "M:S - M:S" with both parts truncated toward zero.
func formatInterval(begin, end float64) string {
	return fmt.Sprintf("%s - %s", minutesSeconds(begin), minutesSeconds(end))
}

func minutesSeconds(secs float64) string {
	minutes := int64(math.Trunc(secs / 60))
	seconds := int64(math.Trunc(math.Mod(secs, 60)))
	return fmt.Sprintf("%d:%d", minutes, seconds)
}
