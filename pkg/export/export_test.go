package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinsnap/pkg/models"
)

func sampleResult() *models.RunResult {
	ts := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	return &models.RunResult{
		Query: "interior design",
		State: models.StateCompleted,
		Records: []models.CaptureRecord{
			{Identity: "https://i.pinimg.com/a.jpg", Filename: "interior_design_20250601_123045_1.png", Timestamp: ts, Outcome: models.OutcomeSuccess},
			{Identity: "https://i.pinimg.com/b.jpg", Timestamp: ts, Outcome: models.OutcomeFailed, Reason: "element detached"},
		},
		Rounds: 2,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteRunResultJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.json")
	require.NoError(t, WriteRunResult(sampleResult(), path, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.RunResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "interior design", decoded.Query)
	assert.Equal(t, models.StateCompleted, decoded.State)
	require.Len(t, decoded.Records, 2)
	assert.Equal(t, "element detached", decoded.Records[1].Reason)
}

func TestWriteRunResultCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, WriteRunResult(sampleResult(), path, FormatCSV))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"identity", "filename", "timestamp", "outcome", "reason"}, rows[0])
	assert.Equal(t, "success", rows[1][3])
	assert.Equal(t, "element detached", rows[2][4])
}

func TestWriteAnalysesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyses.csv")
	analyses := []models.Analysis{
		{Filename: "a.png", Path: "/tmp/a.png", Caption: "a chair", Keywords: []string{"chair", "wood"}},
	}
	require.NoError(t, WriteAnalyses(analyses, path, FormatCSV))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "chair wood", rows[1][4])
}
