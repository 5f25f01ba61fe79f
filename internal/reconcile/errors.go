package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTitleStatus marks a title whose status is not recognized.
	ErrUnknownTitleStatus = errors.New("unknown title status")
	// ErrNoEpisodes marks a downloaded title without any catalog episodes.
	ErrNoEpisodes = errors.New("title has no episodes")
	// ErrAmbiguousOverride marks more than one override row for the same key.
	ErrAmbiguousOverride = errors.New("ambiguous override")
	// ErrDuplicateTitle marks a title id that appears more than once.
	ErrDuplicateTitle = errors.New("duplicate title")
)

// IntegrityError describes an input-integrity violation that aborts a run.
type IntegrityError struct {
	Err     error
	TitleID int64
	Episode *int
	Detail  string
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	fmt.Fprintf(&b, ": title %d", e.TitleID)
	if e.Episode != nil {
		fmt.Fprintf(&b, " episode %d", *e.Episode)
	}
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		b.WriteString(": ")
		b.WriteString(detail)
	}
	return b.String()
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for callers that map failures to exit
// behavior or log fields.
func (e *IntegrityError) ErrorKind() string { return "integrity" }

func integrityError(err error, titleID int64, episode *int, format string, args ...any) *IntegrityError {
	return &IntegrityError{
		Err:     err,
		TitleID: titleID,
		Episode: episode,
		Detail:  fmt.Sprintf(format, args...),
	}
}
