package tables

import (
	"fmt"
	"strings"

	"openingaudit/internal/config"
)

// Input table kinds, as accepted on the command line.
const (
	KindSeries    = "series"
	KindEpisodes  = "episodes"
	KindErrors    = "errors"
	KindOffsets   = "offsets"
	KindOverrides = "overrides"
)

// Field lists of the input tables, in positional order.
var (
	SeriesFields   = []string{"id", "name", "status"}
	EpisodeFields  = []string{"series_id", "episode"}
	ErrorFields    = []string{"series_id", "episode", "code"}
	OffsetFields   = []string{"series_id", "episode", "begin", "end"}
	OverrideFields = []string{"series_id", "title_status", "episode", "ep_status", "begin", "end"}
)

// InputTable pairs an input kind with its configured table name and fields.
type InputTable struct {
	Kind   string
	Name   string
	Fields []string
}

// InputTables lists the five input tables in load order.
func InputTables(t config.Tables) []InputTable {
	return []InputTable{
		{Kind: KindSeries, Name: t.Series, Fields: SeriesFields},
		{Kind: KindEpisodes, Name: t.Episodes, Fields: EpisodeFields},
		{Kind: KindErrors, Name: t.Errors, Fields: ErrorFields},
		{Kind: KindOffsets, Name: t.Offsets, Fields: OffsetFields},
		{Kind: KindOverrides, Name: t.Overrides, Fields: OverrideFields},
	}
}

// LookupInput resolves an input kind to its table.
func LookupInput(t config.Tables, kind string) (InputTable, error) {
	normalized := strings.ToLower(strings.TrimSpace(kind))
	for _, table := range InputTables(t) {
		if table.Kind == normalized {
			return table, nil
		}
	}
	return InputTable{}, fmt.Errorf("unknown input table %q (expected series, episodes, errors, offsets, or overrides)", kind)
}
