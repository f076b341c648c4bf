package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/datalift/datalift/internal/table"
	"go.uber.org/zap"
)

// loadJSON reads a JSON file in split orientation.
func (l *Loader) loadJSON(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error("failed to read file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		l.logger.Error("no data in file", zap.String("path", path))
		return nil, fmt.Errorf("%w: %s", ErrEmptyData, path)
	}

	tbl, err := table.UnmarshalSplit(data)
	if err != nil {
		l.logger.Error("could not parse JSON file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if tbl.NumCols() == 0 && tbl.NumRows() == 0 {
		l.logger.Error("no data in file", zap.String("path", path))
		return nil, fmt.Errorf("%w: %s", ErrEmptyData, path)
	}

	return tbl, nil
}
