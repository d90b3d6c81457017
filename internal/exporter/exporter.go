package exporter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/pkg/models"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrNoRecords = errors.New("no_records")
	ErrWrite     = errors.New("write_failed")
)

var csvHeader = []string{
	"title", "company", "location", "description",
	"apply_urls", "apply_sources", "search_query", "posted_date", "source",
}

// ExportJobs writes the records to timestamped CSV and/or JSON files
// under the configured export directory. Returns the paths written,
// keyed by format.
func ExportJobs(cfg *config.Config, records []models.JobRecord, label string) (map[string]string, error) {
	logger := logging.GetGlobalLogger()

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	base := fmt.Sprintf("google_jobs_%s_%s", sanitizeLabel(label), time.Now().Format("20060102_150405"))
	paths := make(map[string]string)

	for _, format := range cfg.Export.Formats {
		var (
			path string
			err  error
		)
		switch strings.ToLower(format) {
		case "csv":
			path = filepath.Join(cfg.Export.Dir, base+".csv")
			err = writeCSV(path, records)
		case "json":
			path = filepath.Join(cfg.Export.Dir, base+".json")
			err = writeJSON(path, records)
		default:
			logger.Warn("Unknown export format skipped", map[string]interface{}{
				"format": format,
			})
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrite, err)
		}
		paths[strings.ToLower(format)] = path
	}

	logger.Info("Exported job records", map[string]interface{}{
		"count": len(records),
		"paths": paths,
	})

	return paths, nil
}

func writeCSV(path string, records []models.JobRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		urls := make([]string, 0, len(r.ApplyURLs))
		sources := make([]string, 0, len(r.ApplyURLs))
		for _, u := range r.ApplyURLs {
			urls = append(urls, u.URL)
			sources = append(sources, u.Source)
		}

		row := []string{
			r.Title,
			r.Company,
			r.Location,
			stringOrEmpty(r.Description),
			strings.Join(urls, "|"),
			strings.Join(sources, "|"),
			r.SearchQuery,
			stringOrEmpty(r.PostedDate),
			r.Source,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeJSON(path string, records []models.JobRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// sanitizeLabel makes a search query safe for use in a filename.
func sanitizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "export"
	}

	var sb strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('_')
		}
	}

	out := sb.String()
	if out == "" {
		out = "export"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}
