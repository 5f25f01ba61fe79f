package reconcile_test

import (
	"openingaudit/internal/catalog"
	"openingaudit/internal/reconcile"
)

func intPtr(v int) *int { return &v }

func downloaded(id int64, name string) catalog.Title {
	return catalog.Title{ID: id, Name: name, Status: catalog.TitleDownloaded}
}

func catalogRange(seriesID int64, episodes ...int) []catalog.Episode {
	out := make([]catalog.Episode, 0, len(episodes))
	for _, ep := range episodes {
		out = append(out, catalog.Episode{SeriesID: seriesID, Episode: ep})
	}
	return out
}

// offsetsWithLengths gives episode i+1 an opening starting at 10s with the
// given length.
func offsetsWithLengths(seriesID int64, lengths ...float64) []catalog.DetectedOffset {
	out := make([]catalog.DetectedOffset, 0, len(lengths))
	for i, length := range lengths {
		out = append(out, catalog.DetectedOffset{SeriesID: seriesID, Episode: i + 1, Begin: 10, End: 10 + length})
	}
	return out
}

func rowFor(rows []reconcile.Row, episode int) (reconcile.Row, bool) {
	for _, row := range rows {
		if row.Episode != nil && *row.Episode == episode {
			return row, true
		}
	}
	return reconcile.Row{}, false
}
