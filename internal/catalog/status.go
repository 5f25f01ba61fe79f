package catalog

import (
	"fmt"
	"strings"
)

// TitleStatus is the upstream processing state of a series.
type TitleStatus string

const (
	TitleAlreadyHasTimestamps TitleStatus = "sr_already_has_timestamps"
	TitleDownloadingError     TitleStatus = "sr_downloading_error"
	TitleFewEpisodes          TitleStatus = "sr_few_episodes"
	TitleInitialized          TitleStatus = "sr_initialized"
	TitleDownloaded           TitleStatus = "sr_downloaded"
)

const titleStatusPrefix = "sr_"

// ParseTitleStatus normalizes a stored title status. The bare form
// ("downloaded") and the prefixed form ("sr_downloaded") are equivalent.
// Unrecognized values are returned as-is so the resolver can reject them
// with full context.
func ParseTitleStatus(raw string) TitleStatus {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(value, titleStatusPrefix) {
		candidate := TitleStatus(titleStatusPrefix + value)
		if candidate.Known() {
			return candidate
		}
		return TitleStatus(strings.TrimSpace(raw))
	}
	status := TitleStatus(value)
	if status.Known() {
		return status
	}
	return TitleStatus(strings.TrimSpace(raw))
}

// Known reports whether the status is one of the recognized values.
func (s TitleStatus) Known() bool {
	switch s {
	case TitleAlreadyHasTimestamps, TitleDownloadingError, TitleFewEpisodes, TitleInitialized, TitleDownloaded:
		return true
	}
	return false
}

// ErrorCode classifies an extraction error.
type ErrorCode string

const (
	ErrorTooShort ErrorCode = "TooShort"
	ErrorFFmpeg   ErrorCode = "Errors"
)

// Episode statuses written to the report.
const (
	EpisodeMarkedManually = "episode_marked_manually"
	EpisodeDownloadError  = "episode_download_error"
	EpisodeTooShort       = "episode_is_too_short"
	EpisodeFFmpegErrors   = "ffmpeg_thrown_errors"
	EpisodeOpeningFound   = "opening_found"
	EpisodeOpeningMissing = "opening_not_found"
)

// Terminal (title-level) statuses written to the report.
const (
	TerminalAlreadyTimestamped = "title_already_has_timestamps"
	TerminalNotProvided        = "title_has_not_been_provided_by_bot"
	TerminalFewEpisodes        = "title_has_less_than_4_episodes"
	TerminalAllTooShort        = "all_title_episodes_are_too_short"
)

// EpisodeStatusForError maps an extraction error code to an episode status.
func EpisodeStatusForError(code ErrorCode) (string, bool) {
	switch code {
	case ErrorTooShort:
		return EpisodeTooShort, true
	case ErrorFFmpeg:
		return EpisodeFFmpegErrors, true
	default:
		return "", false
	}
}

// EpisodeKey renders a stable log label for a title episode.
func EpisodeKey(seriesID int64, episode int) string {
	return fmt.Sprintf("%d/e%02d", seriesID, episode)
}
