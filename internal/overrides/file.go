package overrides

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"openingaudit/internal/catalog"
	"openingaudit/internal/logging"
)

// Entry is one override as written in the file.
type Entry struct {
	SeriesID      int64  `yaml:"series_id" json:"series_id"`
	TitleStatus   string `yaml:"title_status,omitempty" json:"title_status,omitempty"`
	Episode       *int   `yaml:"episode,omitempty" json:"episode,omitempty"`
	EpisodeStatus string `yaml:"ep_status,omitempty" json:"ep_status,omitempty"`
	Begin         *int   `yaml:"begin,omitempty" json:"begin,omitempty"`
	End           *int   `yaml:"end,omitempty" json:"end,omitempty"`
}

// EntryError points at an invalid entry.
type EntryError struct {
	Index int
	Line  int
	Err   error
}

func (e *EntryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("override %d (line %d): %v", e.Index+1, e.Line, e.Err)
	}
	return fmt.Sprintf("override %d: %v", e.Index+1, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

var (
	errSeriesRequired   = errors.New("series_id must be a positive integer")
	errNoTarget         = errors.New("either title_status or episode is required")
	errEpisodeFields    = errors.New("ep_status, begin and end require an episode")
	errUnknownStatus    = errors.New("unknown title_status")
	errInvalidBound     = errors.New("begin and end must be -1 or a non-negative number of seconds")
	errEpisodeNegative  = errors.New("episode must not be negative")
	errUnsupportedShape = errors.New("expected a list of overrides or an object with an overrides list")
)

// Load reads and parses the overrides file at path. A missing file yields
// no overrides.
func Load(path string, logger *slog.Logger) ([]catalog.Override, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("overrides path is required")
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", trimmed, err)
	}
	if logger != nil {
		logger.Info("loaded overrides", logging.String("path", trimmed), logging.Int("count", len(parsed)))
	}
	return parsed, nil
}

// Parse decodes an overrides document.
func Parse(data []byte) ([]catalog.Override, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	items, err := entryNodes(&doc)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Override, 0, len(items))
	for i, item := range items {
		var entry Entry
		if err := decodeStrict(item, &entry); err != nil {
			return nil, &EntryError{Index: i, Line: item.Line, Err: err}
		}
		ov, err := entry.Override()
		if err != nil {
			return nil, &EntryError{Index: i, Line: item.Line, Err: err}
		}
		out = append(out, ov)
	}
	return out, nil
}

// entryNodes accepts either a sequence or a mapping with an overrides key.
func entryNodes(doc *yaml.Node) ([]*yaml.Node, error) {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		return root.Content, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value != "overrides" {
				continue
			}
			list := root.Content[i+1]
			if list.Kind == yaml.ScalarNode && list.Tag == "!!null" {
				return nil, nil
			}
			if list.Kind != yaml.SequenceNode {
				return nil, errUnsupportedShape
			}
			return list.Content, nil
		}
		return nil, errUnsupportedShape
	default:
		return nil, errUnsupportedShape
	}
}

// decodeStrict re-encodes the node so unknown keys are rejected.
func decodeStrict(node *yaml.Node, entry *Entry) error {
	if node.Kind != yaml.MappingNode {
		return errors.New("override must be an object")
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	return decoder.Decode(entry)
}

// Override validates the entry and converts it.
func (e Entry) Override() (catalog.Override, error) {
	if e.SeriesID <= 0 {
		return catalog.Override{}, errSeriesRequired
	}
	ov := catalog.Override{
		SeriesID:      e.SeriesID,
		Episode:       e.Episode,
		EpisodeStatus: strings.TrimSpace(e.EpisodeStatus),
		Begin:         e.Begin,
		End:           e.End,
	}
	if raw := strings.TrimSpace(e.TitleStatus); raw != "" {
		status := catalog.ParseTitleStatus(raw)
		if !status.Known() {
			return catalog.Override{}, fmt.Errorf("%w %q", errUnknownStatus, raw)
		}
		ov.TitleStatus = &status
	}

	if ov.Episode == nil {
		if !ov.HasTitleStatus() {
			return catalog.Override{}, errNoTarget
		}
		if ov.EpisodeStatus != "" || ov.Begin != nil || ov.End != nil {
			return catalog.Override{}, errEpisodeFields
		}
		return ov, nil
	}
	if *ov.Episode < 0 {
		return catalog.Override{}, errEpisodeNegative
	}
	for _, bound := range []*int{ov.Begin, ov.End} {
		if bound != nil && *bound < catalog.NoOpening {
			return catalog.Override{}, errInvalidBound
		}
	}
	return ov, nil
}

// Entries converts stored overrides back into file entries, e.g. for export.
func Entries(overrides []catalog.Override) []Entry {
	out := make([]Entry, 0, len(overrides))
	for _, ov := range overrides {
		entry := Entry{
			SeriesID:      ov.SeriesID,
			Episode:       ov.Episode,
			EpisodeStatus: ov.EpisodeStatus,
			Begin:         ov.Begin,
			End:           ov.End,
		}
		if ov.HasTitleStatus() {
			entry.TitleStatus = string(*ov.TitleStatus)
		}
		out = append(out, entry)
	}
	return out
}

// Marshal renders overrides as a YAML document with an overrides list.
func Marshal(overrides []catalog.Override) ([]byte, error) {
	doc := struct {
		Overrides []Entry `yaml:"overrides"`
	}{Overrides: Entries(overrides)}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode overrides: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode overrides: %w", err)
	}
	return buf.Bytes(), nil
}
