// package formatter renders batch results and download history as CSV or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/tasks"
)

// ReportHeaders are the columns of a batch report.
var ReportHeaders = []string{"Artists", "Title", "Album", "Outcome", "Target", "Source", "Detail"}

// HistoryHeaders are the columns of a history export.
var HistoryHeaders = []string{"ID", "Date", "Artists", "Title", "Album", "Outcome", "Target", "Source", "Error"}

// ReportToCSV converts batch results to CSV, one row per item in input order.
func ReportToCSV(results []tasks.BatchResult) ([]byte, error) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		source := ""
		if r.Outcome.Source != nil {
			source = r.Outcome.Source.Locator
		}
		rows = append(rows, []string{
			strings.Join(r.Item.Song.Artists, models.ArtistSeparator),
			r.Item.Song.Title,
			r.Item.Song.Album,
			r.Outcome.Kind.String(),
			r.Outcome.Path,
			source,
			detail(r.Outcome),
		})
	}
	return writeCSV(ReportHeaders, rows)
}

// ReportToText renders batch results as numbered lines followed by a summary line.
func ReportToText(results []tasks.BatchResult) []byte {
	var buf bytes.Buffer

	for i, r := range results {
		buf.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, r.Item.Song, r.Outcome))
	}
	buf.WriteString("\n" + SummaryLine(tasks.Summary(results)) + "\n")

	return buf.Bytes()
}

// summaryOrder is the display order of outcome kinds in a summary line.
var summaryOrder = []models.OutcomeKind{
	models.OutcomeDownloaded,
	models.OutcomeSkipped,
	models.OutcomeNotFound,
	models.OutcomeFailed,
}

// SummaryLine renders outcome counts in a fixed order, e.g. "downloaded: 2, skipped: 1".
// Kinds with a zero count are left out.
func SummaryLine(counts map[models.OutcomeKind]int) string {
	parts := make([]string, 0, len(summaryOrder))
	for _, k := range summaryOrder {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", k, n))
		}
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}

// HistoryToCSV converts stored records to CSV.
func HistoryToCSV(records []*models.DownloadRecord) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID(),
			r.CreatedAt().Format(time.RFC3339),
			r.JoinedArtists(),
			r.Title(),
			r.Album(),
			r.Outcome().String(),
			r.Target(),
			r.SourceURL(),
			r.Error(),
		})
	}
	return writeCSV(HistoryHeaders, rows)
}

// HistoryToText renders stored records as one line each.
func HistoryToText(records []*models.DownloadRecord) []byte {
	var buf bytes.Buffer

	if len(records) == 0 {
		buf.WriteString("No downloads recorded\n")
		return buf.Bytes()
	}

	for _, r := range records {
		song := models.SongMetadata{Artists: r.Artists(), Title: r.Title(), Album: r.Album()}
		line := fmt.Sprintf("%s  %-10s  %s -> %s", r.CreatedAt().Local().Format("2006-01-02 15:04"), r.Outcome(), song, r.Target())
		if r.Error() != "" {
			line += fmt.Sprintf(" (%s)", r.Error())
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// WriteReport writes a batch report to path, as CSV when the path ends in .csv and as text otherwise.
func WriteReport(results []tasks.BatchResult, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		data, err = ReportToCSV(results)
		if err != nil {
			return fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		data = ReportToText(results)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func detail(o models.Outcome) string {
	switch o.Kind {
	case models.OutcomeSkipped:
		return o.Reason
	case models.OutcomeFailed:
		if o.Err != nil {
			return o.Err.Error()
		}
	}
	return ""
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
