package statusboard

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

// fixedRowSheet is the shared shape of the row-per-customer
// sub-record sheets: a fixed header, the customer name in the first
// column, one value column per field.
type fixedRowSheet struct {
	store   gridstore.Store
	logger  *zap.Logger
	sheet   string
	columns []string
}

// load returns the customer's values aligned to columns[1:]. A missing
// sheet propagates as ErrSheetNotFound so callers can distinguish
// first-time use from a real failure; a missing row returns nil values
// and no error.
func (s *fixedRowSheet) load(ctx context.Context, source, customer string) ([]string, error) {
	grid, err := s.store.ReadSheet(ctx, source, s.sheet)
	if err != nil {
		return nil, err
	}
	if len(grid.Rows) < 2 {
		return nil, nil
	}

	headerCols := headerIndex(grid.Rows[0])
	row := -1
	for i := 1; i < len(grid.Rows); i++ {
		if strings.TrimSpace(grid.Cell(i, 0)) == customer {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, nil
	}

	values := make([]string, len(s.columns)-1)
	for i, title := range s.columns[1:] {
		col, ok := headerCols[title]
		if !ok {
			continue
		}
		values[i] = strings.TrimSpace(grid.Cell(row, col))
	}
	return values, nil
}

// update overwrites the customer's value range in place, appending a
// new row when the customer is absent. The sheet and its header are
// created on first use.
func (s *fixedRowSheet) update(ctx context.Context, source, customer string, values []string) error {
	created, err := s.store.EnsureSheet(ctx, source, s.sheet, s.columns)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("created sub-record sheet",
			zap.String("source", source), zap.String("sheet", s.sheet))
	}

	grid, err := s.store.ReadSheet(ctx, source, s.sheet)
	if err != nil {
		return err
	}

	// The sheet can pre-exist with no rows; the header must occupy
	// row 0 before any customer row lands there.
	header := s.columns
	if len(grid.Rows) > 0 {
		header = grid.Rows[0]
	} else if err := s.store.AppendRows(ctx, source, s.sheet, [][]string{s.columns}); err != nil {
		return err
	}
	headerCols := headerIndex(header)

	row := -1
	for i := 1; i < len(grid.Rows); i++ {
		if strings.TrimSpace(grid.Cell(i, 0)) == customer {
			row = i
			break
		}
	}

	if row >= 0 {
		updates := make([]gridstore.CellUpdate, 0, len(values))
		for i, title := range s.columns[1:] {
			col, ok := headerCols[title]
			if !ok {
				continue
			}
			updates = append(updates, gridstore.CellUpdate{Row: row, Col: col, Value: values[i]})
		}
		return s.store.UpdateCells(ctx, source, s.sheet, updates)
	}

	newRow := append([]string{customer}, values...)
	return s.store.AppendRows(ctx, source, s.sheet, [][]string{newRow})
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, title := range header {
		idx[strings.TrimSpace(title)] = i
	}
	return idx
}
