package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobspy-service/internal/config"
	"jobspy-service/pkg/models"
)

func exportTestConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Export.Dir = t.TempDir()
	cfg.Export.Formats = []string{"csv", "json"}
	return cfg
}

func sampleRecords() []models.JobRecord {
	return []models.JobRecord{
		{
			Title:    "Senior Backend Engineer",
			Company:  "Acme Corp",
			Location: "Toronto, ON",
			ApplyURLs: []models.ApplyURL{
				{URL: "https://example.com/apply/1", Source: "LinkedIn"},
				{URL: "https://example.com/apply/2", Source: "Indeed"},
			},
			SearchQuery: "backend engineer",
			Source:      models.SourceGoogleJobs,
		},
	}
}

func TestExportJobsWritesBothFormats(t *testing.T) {
	cfg := exportTestConfig(t)

	paths, err := ExportJobs(cfg, sampleRecords(), "backend engineer")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	f, err := os.Open(paths["csv"])
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "title", rows[0][0])
	assert.Equal(t, "Senior Backend Engineer", rows[1][0])
	assert.Equal(t, "https://example.com/apply/1|https://example.com/apply/2", rows[1][4])

	data, err := os.ReadFile(paths["json"])
	require.NoError(t, err)

	var decoded []models.JobRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Acme Corp", decoded[0].Company)
}

func TestExportJobsEmptyInput(t *testing.T) {
	cfg := exportTestConfig(t)

	_, err := ExportJobs(cfg, nil, "anything")
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "backend_engineer", sanitizeLabel("Backend Engineer"))
	assert.Equal(t, "export", sanitizeLabel("!!!"))
	assert.Equal(t, "export", sanitizeLabel(""))
}
