package reconcile

import (
	"openingaudit/internal/catalog"
)

// Resolution is the outcome of classifying a title.
type Resolution struct {
	// Status is the effective status after any title-level override.
	Status catalog.TitleStatus
	// Terminal is set when the title ends in a single summary row.
	Terminal *Row
	// Analyze is set when the title proceeds to episode analysis.
	Analyze bool
}

// Skipped reports whether the title produces no rows at all.
func (r Resolution) Skipped() bool {
	return r.Terminal == nil && !r.Analyze
}

// ResolveTitle applies the title-level override and classifies the title.
// Overrides belonging to other series are ignored.
func ResolveTitle(title catalog.Title, overrides []catalog.Override) (Resolution, error) {
	status, err := effectiveTitleStatus(title, overrides)
	if err != nil {
		return Resolution{}, err
	}

	switch status {
	case catalog.TitleAlreadyHasTimestamps:
		return terminal(title, status, catalog.TerminalAlreadyTimestamped), nil
	case catalog.TitleDownloadingError:
		return terminal(title, status, catalog.TerminalNotProvided), nil
	case catalog.TitleFewEpisodes:
		return terminal(title, status, catalog.TerminalFewEpisodes), nil
	case catalog.TitleInitialized:
		return Resolution{Status: status}, nil
	case catalog.TitleDownloaded:
		return Resolution{Status: status, Analyze: true}, nil
	default:
		return Resolution{}, integrityError(ErrUnknownTitleStatus, title.ID, nil, "%q", string(status))
	}
}

func effectiveTitleStatus(title catalog.Title, overrides []catalog.Override) (catalog.TitleStatus, error) {
	var match *catalog.Override
	for i := range overrides {
		ov := overrides[i]
		if ov.SeriesID != title.ID || !ov.HasTitleStatus() {
			continue
		}
		if match != nil {
			return "", integrityError(ErrAmbiguousOverride, title.ID, nil,
				"title status overridden by both %q and %q", string(*match.TitleStatus), string(*ov.TitleStatus))
		}
		match = &overrides[i]
	}
	if match != nil {
		return catalog.ParseTitleStatus(string(*match.TitleStatus)), nil
	}
	return title.Status, nil
}

func terminal(title catalog.Title, status catalog.TitleStatus, label string) Resolution {
	row := terminalRow(title, label)
	return Resolution{Status: status, Terminal: &row}
}
