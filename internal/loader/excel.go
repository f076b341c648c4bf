package loader

import (
	"fmt"

	"github.com/datalift/datalift/internal/table"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// loadExcel reads one worksheet of an .xlsx workbook. An empty sheet name
// selects the first worksheet.
func (l *Loader) loadExcel(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		l.logger.Error("could not parse Excel file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		l.logger.Error("could not read worksheet", zap.String("path", path), zap.String("sheet", sheet), zap.Error(err))
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrParse, sheet, err)
	}

	if len(rows) == 0 {
		l.logger.Error("no data in file", zap.String("path", path), zap.String("sheet", sheet))
		return nil, fmt.Errorf("%w: %s", ErrEmptyData, path)
	}

	header := rows[0]
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells; pad to header width.
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		out = append(out, row[:len(header)])
	}

	return &table.Table{Columns: header, Rows: out}, nil
}
