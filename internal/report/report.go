// Package report renders daily and yearly statistics for people and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"l10n-stats/internal/stats"
)

// Formats lists the supported export formats.
var Formats = []string{"text", "tsv", "json"}

// Write renders days and years in the named format.
func Write(w io.Writer, format string, days []stats.DayStat, years map[string]stats.Stat) error {
	switch format {
	case "text", "":
		return WriteText(w, days, years)
	case "tsv":
		return WriteTSV(w, days, years)
	case "json":
		return WriteJSON(w, days, years)
	default:
		return fmt.Errorf("unknown export format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteText prints one line per day and a summary per year.
func WriteText(w io.Writer, days []stats.DayStat, years map[string]stats.Stat) error {
	ew := &errWriter{w: w}

	ew.printf("Daily\n")
	for _, d := range days {
		ew.printf("  %s: %s\n", d.Day, line(d.Stat))
	}
	ew.printf("Yearly\n")
	for _, y := range stats.Years(years) {
		ew.printf("  %s: %s\n", y, line(years[y]))
	}
	return ew.err
}

func line(s stats.Stat) string {
	return fmt.Sprintf("Total: %d (%d) - Added: %d (%d) - Removed: %d (%d)",
		s.Total, s.TotalWords, s.Added, s.AddedWords, s.Removed, s.RemovedWords)
}

// WriteTSV writes a header row, then one row per day followed by one row per
// year. The first column tells the two apart.
func WriteTSV(w io.Writer, days []stats.DayStat, years map[string]stats.Stat) error {
	ew := &errWriter{w: w}

	ew.printf("period\tkey\tadded\tadded_words\tremoved\tremoved_words\ttotal\ttotal_words\n")
	for _, d := range days {
		ew.printf("day\t%s\t%s\n", escapeTSV(d.Day), row(d.Stat))
	}
	for _, y := range stats.Years(years) {
		ew.printf("year\t%s\t%s\n", escapeTSV(y), row(years[y]))
	}
	return ew.err
}

func row(s stats.Stat) string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%d",
		s.Added, s.AddedWords, s.Removed, s.RemovedWords, s.Total, s.TotalWords)
}

// Document is the JSON shape of a report.
type Document struct {
	Days  []stats.DayStat       `json:"days"`
	Years map[string]stats.Stat `json:"years"`
}

// WriteJSON writes days and years as one indented JSON document.
func WriteJSON(w io.Writer, days []stats.DayStat, years map[string]stats.Stat) error {
	if days == nil {
		days = []stats.DayStat{}
	}
	if years == nil {
		years = map[string]stats.Stat{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(Document{Days: days, Years: years}); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
