// Package exporter turns response matrices into downloadable files.
//
// The service layer produces a rectangular matrix of strings (header
// row plus one row per submission); a Sink owns the file encoding. The
// CSV sink is the built-in implementation; anything able to consume a
// rectangular matrix can be plugged in instead.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/formhive/form-service/pkg/logger"
	"go.uber.org/zap"
)

// Sink writes a rectangular matrix under the given name.
type Sink interface {
	Write(matrix [][]string, name string) error
}

// CSVSink encodes matrices as CSV files in a target directory.
type CSVSink struct {
	dir    string
	logger *logger.Logger
}

func NewCSVSink(dir string, logger *logger.Logger) *CSVSink {
	return &CSVSink{
		dir:    dir,
		logger: logger,
	}
}

// Write encodes matrix as <dir>/<name>.csv. The matrix must be
// rectangular; the header row defines the expected width.
func (s *CSVSink) Write(matrix [][]string, name string) error {
	if err := validate(matrix); err != nil {
		return err
	}

	path := fmt.Sprintf("%s/%s.csv", s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		s.logger.Error("error create export file",
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	defer file.Close()

	if err := encode(file, matrix); err != nil {
		s.logger.Error("error encode export file",
			zap.String("path", path),
			zap.Error(err))
		return err
	}

	s.logger.Info("export written",
		zap.String("path", path),
		zap.Int("rows", len(matrix)))

	return nil
}

func validate(matrix [][]string) error {
	if len(matrix) == 0 {
		return fmt.Errorf("matrix must contain a header row")
	}

	width := len(matrix[0])
	for i, row := range matrix {
		if len(row) != width {
			return fmt.Errorf("matrix is not rectangular: row %d has %d cells, want %d",
				i, len(row), width)
		}
	}

	return nil
}

func encode(w io.Writer, matrix [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.WriteAll(matrix); err != nil {
		return err
	}

	return writer.Error()
}
