// Package loader reads tabular data files into in-memory tables, dispatching
// on the file extension.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datalift/datalift/internal/table"
	"go.uber.org/zap"
)

// Loader errors. Callers match them with errors.Is.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyData         = errors.New("file contains no data")
	ErrParse             = errors.New("parse error")
)

// Loader reads tabular files into tables. Supported formats are Excel
// (.xlsx), CSV (.csv), and JSON in split orientation (.json).
type Loader struct {
	logger *zap.Logger
}

// New creates a new Loader.
func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads the file at path into a Table. sheet selects the worksheet for
// Excel files and is ignored for other formats. Each failure condition is
// logged before the error is returned.
func (l *Loader) Load(path, sheet string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			l.logger.Error("file not found", zap.String("path", path))
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		l.logger.Error("failed to stat file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		l.logger.Info("loading Excel file", zap.String("path", path), zap.String("sheet", sheet))
		return l.loadExcel(path, sheet)
	case ".csv":
		l.logger.Info("loading CSV file", zap.String("path", path))
		return l.loadCSV(path)
	case ".json":
		l.logger.Info("loading JSON file", zap.String("path", path))
		return l.loadJSON(path)
	default:
		l.logger.Error("unsupported file format", zap.String("extension", ext))
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
