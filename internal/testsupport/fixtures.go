package testsupport

import (
	"io"
	"strings"
	"testing"

	"openingaudit/internal/tables"
)

// Fixture is a small dataset covering every title status and the common
// episode outcomes. Title 10 is analyzed; its episode 3 is missing from the
// catalog and episode 4 has a manual override.
type Fixture struct {
	Series    string
	Episodes  string
	Errors    string
	Offsets   string
	Overrides string
}

// DefaultFixture returns the shared test dataset.
func DefaultFixture() Fixture {
	return Fixture{
		Series: `id,name,status
10,Alpha,sr_downloaded
20,Beta,sr_already_has_timestamps
30,Gamma,sr_initialized
40,Delta,sr_few_episodes
`,
		Episodes: `series_id,episode
10,1
10,2
10,4
10,5
`,
		Errors: `series_id,episode,code
10,5,Errors
`,
		Offsets: `series_id,episode,begin,end
10,1,30,120
10,2,35,130
10,4,0,0
`,
		Overrides: `series_id,title_status,episode,ep_status,begin,end
10,,4,,40,130
`,
	}
}

// SeedFixture loads every table of f into store.
func SeedFixture(t testing.TB, store *tables.Store, f Fixture) {
	t.Helper()

	Seed(t, store, tables.KindSeries, f.Series)
	Seed(t, store, tables.KindEpisodes, f.Episodes)
	Seed(t, store, tables.KindErrors, f.Errors)
	Seed(t, store, tables.KindOffsets, f.Offsets)
	Seed(t, store, tables.KindOverrides, f.Overrides)
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
