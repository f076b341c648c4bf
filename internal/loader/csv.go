package loader

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/datalift/datalift/internal/table"
	"go.uber.org/zap"
)

// loadCSV reads a CSV file. The first record is the header; a header-only
// file is a valid zero-row table, a fully empty file is not.
func (l *Loader) loadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		l.logger.Error("failed to open file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		l.logger.Error("could not parse CSV file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(records) == 0 {
		l.logger.Error("no data in file", zap.String("path", path))
		return nil, fmt.Errorf("%w: %s", ErrEmptyData, path)
	}

	return &table.Table{Columns: records[0], Rows: records[1:]}, nil
}
