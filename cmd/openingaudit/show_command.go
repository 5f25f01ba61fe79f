package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"openingaudit/internal/config"
	"openingaudit/internal/reconcile"
	"openingaudit/internal/tables"
)

type resultJSON struct {
	TitleID          int64    `json:"title_id"`
	TitleName        string   `json:"title_name"`
	Episode          *int     `json:"episode,omitempty"`
	Status           string   `json:"status"`
	OpBegin          *float64 `json:"op_begin_secs,omitempty"`
	OpEnd            *float64 `json:"op_end_secs,omitempty"`
	InMins           string   `json:"in_mins,omitempty"`
	Found            *bool    `json:"found,omitempty"`
	Length           *float64 `json:"length,omitempty"`
	IsLengthInWindow *bool    `json:"is_length_in_window,omitempty"`
	MedianLength     *float64 `json:"median_length,omitempty"`
	DiffFromMedian   *float64 `json:"diff_from_median,omitempty"`
	IsDiffLarge      *bool    `json:"is_diff_large,omitempty"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var titleID int64
	var anomaliesOnly bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the stored results table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *tables.Store, _ *slog.Logger) error {
				rows, err := store.ReadResults(cmd.Context())
				if err != nil {
					if errors.Is(err, tables.ErrNoResults) {
						fmt.Fprintln(cmd.OutOrStdout(), "No results stored yet; run `openingaudit run` first")
						return nil
					}
					return err
				}
				rows = filterResults(rows, titleID, anomaliesOnly)
				if jsonOutput {
					return writeJSON(cmd, resultsJSON(rows))
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching results")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderResults(rows))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&titleID, "title", 0, "Only show rows for this title id")
	cmd.Flags().BoolVar(&anomaliesOnly, "anomalies", false, "Only show episodes whose opening length deviates from the title median")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit rows as JSON")
	return cmd
}

func filterResults(rows []reconcile.Row, titleID int64, anomaliesOnly bool) []reconcile.Row {
	filtered := make([]reconcile.Row, 0, len(rows))
	for _, row := range rows {
		if titleID != 0 && row.TitleID != titleID {
			continue
		}
		if anomaliesOnly && !row.IsAnomaly() {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func renderResults(rows []reconcile.Row) string {
	headers := []string{"Title", "Name", "Ep", "Status", "Opening", "Length", "Window", "Median", "Diff"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		diff := formatSeconds(row.DiffFromMedian)
		if row.IsAnomaly() {
			diff += " !"
		}
		window := ""
		if row.IsLengthInWindow != nil {
			window = yesNo(*row.IsLengthInWindow)
		}
		out = append(out, []string{
			strconv.FormatInt(row.TitleID, 10),
			row.TitleName,
			formatEpisode(row.Episode),
			statusLabel(row.Status),
			row.InMins,
			formatSeconds(row.Length),
			window,
			formatSeconds(row.MedianLength),
			diff,
		})
	}
	return renderTable(headers, out, aligns)
}

// statusLabel turns a report status such as "opening_not_found" into
// "Opening Not Found".
func statusLabel(status string) string {
	words := strings.ReplaceAll(strings.TrimSpace(status), "_", " ")
	if words == "" {
		return ""
	}
	return cases.Title(language.Und).String(words)
}

func formatEpisode(episode *int) string {
	if episode == nil {
		return ""
	}
	return strconv.Itoa(*episode)
}

func formatSeconds(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func resultsJSON(rows []reconcile.Row) []resultJSON {
	out := make([]resultJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultJSON{
			TitleID:          row.TitleID,
			TitleName:        row.TitleName,
			Episode:          row.Episode,
			Status:           row.Status,
			OpBegin:          row.OpBegin,
			OpEnd:            row.OpEnd,
			InMins:           row.InMins,
			Found:            row.Found,
			Length:           row.Length,
			IsLengthInWindow: row.IsLengthInWindow,
			MedianLength:     row.MedianLength,
			DiffFromMedian:   row.DiffFromMedian,
			IsDiffLarge:      row.IsDiffLarge,
		})
	}
	return out
}
