package gridstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/sycamoredash/statusboard/pkg/metrics"
)

// WorkbookStore is a Store backed by a directory of xlsx workbooks, one
// file per source identifier. Writes reopen, mutate and save the whole
// file; a single mutex serializes file access within this process.
// Nothing guards against other processes touching the same files.
type WorkbookStore struct {
	dir string
	mu  sync.Mutex
}

// NewWorkbookStore returns a store reading and writing workbooks under
// dir. Source id "abc" maps to dir/abc.xlsx.
func NewWorkbookStore(dir string) *WorkbookStore {
	return &WorkbookStore{dir: dir}
}

func (s *WorkbookStore) path(source string) string {
	return filepath.Join(s.dir, source+".xlsx")
}

func (s *WorkbookStore) open(source, op string) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path(source))
	if err != nil {
		return nil, &StoreError{Source: source, Op: op, Err: err}
	}
	return f, nil
}

// openWrite opens the source workbook, creating a fresh one when the
// file does not exist yet.
func (s *WorkbookStore) openWrite(source, op string) (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.path(source))
	if err == nil {
		return f, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, &StoreError{Source: source, Op: op, Err: err}
	}
	return excelize.NewFile(), true, nil
}

func (s *WorkbookStore) save(f *excelize.File, source, op string) error {
	if err := f.SaveAs(s.path(source)); err != nil {
		return &StoreError{Source: source, Op: op, Err: err}
	}
	metrics.StoreWrites.WithLabelValues(source, op).Inc()
	return nil
}

func (s *WorkbookStore) SheetNames(ctx context.Context, source string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(source, "sheet_names")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (s *WorkbookStore) ReadSheet(ctx context.Context, source, sheet string) (*Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(source, "read")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, &StoreError{Source: source, Op: "read", Err: fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &StoreError{Source: source, Op: "read", Err: err}
	}

	grid := &Grid{
		Rows:     rows,
		Links:    make(map[CellRef]string),
		Formulas: make(map[CellRef]string),
	}

	// Hyperlinks and formulas are only attached for cells that hold a
	// value; empty cells carry nothing the parser cares about.
	for r, row := range rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if has, target, err := f.GetCellHyperLink(sheet, cell); err == nil && has && target != "" {
				grid.Links[CellRef{Row: r, Col: c}] = target
			}
			if formula, err := f.GetCellFormula(sheet, cell); err == nil && formula != "" {
				grid.Formulas[CellRef{Row: r, Col: c}] = formula
			}
		}
	}

	metrics.StoreReads.WithLabelValues(source).Inc()
	return grid, nil
}

func (s *WorkbookStore) UpdateCells(ctx context.Context, source, sheet string, cells []CellUpdate) error {
	if len(cells) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(source, "update")
	if err != nil {
		return err
	}
	defer f.Close()

	for _, u := range cells {
		cell, err := excelize.CoordinatesToCellName(u.Col+1, u.Row+1)
		if err != nil {
			return &StoreError{Source: source, Op: "update", Err: err}
		}
		if err := f.SetCellStr(sheet, cell, u.Value); err != nil {
			return &StoreError{Source: source, Op: "update", Err: err}
		}
	}
	return s.save(f, source, "update")
}

func (s *WorkbookStore) AppendRows(ctx context.Context, source, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(source, "append")
	if err != nil {
		return err
	}
	defer f.Close()

	existing, err := f.GetRows(sheet)
	if err != nil {
		return &StoreError{Source: source, Op: "append", Err: err}
	}
	next := len(existing) + 1
	for i, row := range rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, next+i)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return &StoreError{Source: source, Op: "append", Err: err}
			}
		}
	}
	return s.save(f, source, "append")
}

func (s *WorkbookStore) InsertColumn(ctx context.Context, source, sheet string, col int, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(source, "insert_column")
	if err != nil {
		return err
	}
	defer f.Close()

	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return &StoreError{Source: source, Op: "insert_column", Err: err}
	}
	if err := f.InsertCols(sheet, name, 1); err != nil {
		return &StoreError{Source: source, Op: "insert_column", Err: err}
	}
	for r, val := range values {
		if val == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, r+1)
		if err := f.SetCellStr(sheet, cell, val); err != nil {
			return &StoreError{Source: source, Op: "insert_column", Err: err}
		}
	}
	return s.save(f, source, "insert_column")
}

func (s *WorkbookStore) DeleteColumn(ctx context.Context, source, sheet string, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(source, "delete_column")
	if err != nil {
		return err
	}
	defer f.Close()

	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return &StoreError{Source: source, Op: "delete_column", Err: err}
	}
	if err := f.RemoveCol(sheet, name); err != nil {
		return &StoreError{Source: source, Op: "delete_column", Err: err}
	}
	return s.save(f, source, "delete_column")
}

func (s *WorkbookStore) EnsureSheet(ctx context.Context, source, sheet string, header []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, fresh, err := s.openWrite(source, "ensure_sheet")
	if err != nil {
		return false, err
	}
	defer f.Close()

	if !fresh {
		if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
			return false, nil
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return false, &StoreError{Source: source, Op: "ensure_sheet", Err: err}
		}
	} else if sheet != "Sheet1" {
		// A fresh workbook starts with a default sheet; rename it so
		// the requested sheet is the first one.
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return false, &StoreError{Source: source, Op: "ensure_sheet", Err: err}
		}
	}

	for c, val := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellStr(sheet, cell, val); err != nil {
			return false, &StoreError{Source: source, Op: "ensure_sheet", Err: err}
		}
	}
	if err := s.save(f, source, "ensure_sheet"); err != nil {
		return false, err
	}
	return true, nil
}
