// Package export writes run results and analyses to JSON or CSV files
// for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pinsnap/pkg/models"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
}

// WriteRunResult writes a run report to path in the given format.
func WriteRunResult(result *models.RunResult, path string, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(result, path)
	case FormatCSV:
		return writeRecordsCSV(result.Records, path)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// WriteAnalyses writes enrichment output to path in the given format.
func WriteAnalyses(analyses []models.Analysis, path string, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(analyses, path)
	case FormatCSV:
		return writeAnalysesCSV(analyses, path)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func writeJSON(v interface{}, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func writeRecordsCSV(records []models.CaptureRecord, path string) error {
	return writeCSV(path, []string{"identity", "filename", "timestamp", "outcome", "reason"},
		len(records), func(i int) []string {
			r := records[i]
			return []string{
				r.Identity,
				r.Filename,
				r.Timestamp.Format(time.RFC3339),
				string(r.Outcome),
				r.Reason,
			}
		})
}

func writeAnalysesCSV(analyses []models.Analysis, path string) error {
	return writeCSV(path, []string{"filename", "path", "extracted_text", "caption", "keywords"},
		len(analyses), func(i int) []string {
			a := analyses[i]
			return []string{
				a.Filename,
				a.Path,
				a.ExtractedText,
				a.Caption,
				strings.Join(a.Keywords, " "),
			}
		})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
