package catalog

// Title is one series row.
type Title struct {
	ID     int64
	Name   string
	Status TitleStatus
}

// Episode marks an episode that was successfully obtained for a title.
type Episode struct {
	SeriesID int64
	Episode  int
}

// ExtractionError records a failure reported while extracting an episode's audio.
type ExtractionError struct {
	SeriesID int64
	Episode  int
	Code     ErrorCode
}

// DetectedOffset is the automatically detected opening interval, in seconds.
type DetectedOffset struct {
	SeriesID int64
	Episode  int
	Begin    float64
	End      float64
}

// NoOpening is the override begin/end value meaning "explicitly no opening".
const NoOpening = -1

// Override is a sparse manual correction. It may replace a title's status or
// pin a single episode's status and interval.
type Override struct {
	SeriesID      int64
	TitleStatus   *TitleStatus
	Episode       *int
	EpisodeStatus string
	Begin         *int
	End           *int
}

// HasTitleStatus reports whether the override replaces the title status.
func (o Override) HasTitleStatus() bool {
	return o.TitleStatus != nil && *o.TitleStatus != ""
}

// MarkedManually reports whether the override pins an interval by hand.
func (o Override) MarkedManually() bool {
	return o.Begin != nil
}
