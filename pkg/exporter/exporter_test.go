package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/formhive/form-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSink_WriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink := NewCSVSink(dir, logger.Get())

	matrix := [][]string{
		{"Your name?", "Pick one"},
		{"hello", "B"},
		{"with, comma", ""},
	}

	require.NoError(t, sink.Write(matrix, "responses"))

	file, err := os.Open(filepath.Join(dir, "responses.csv"))
	require.NoError(t, err)
	defer file.Close()

	got, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, matrix, got)
}

func TestCSVSink_RejectsEmptyMatrix(t *testing.T) {
	sink := NewCSVSink(t.TempDir(), logger.Get())

	err := sink.Write(nil, "empty")

	assert.Error(t, err)
}

func TestCSVSink_RejectsRaggedMatrix(t *testing.T) {
	sink := NewCSVSink(t.TempDir(), logger.Get())

	err := sink.Write([][]string{
		{"a", "b"},
		{"only one"},
	}, "ragged")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not rectangular")
}
