package gridstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and by demo mode.
// It mirrors the semantics of WorkbookStore without touching disk.
type MemoryStore struct {
	mu      sync.Mutex
	sources map[string]*memSource
}

type memSource struct {
	order  []string
	sheets map[string]*memSheet
}

type memSheet struct {
	rows     [][]string
	links    map[CellRef]string
	formulas map[CellRef]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sources: make(map[string]*memSource)}
}

// SetSheet seeds (or replaces) a sheet of a source with row data.
func (s *MemoryStore) SetSheet(source, sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, true)
	sh.rows = cloneRows(rows)
	sh.links = make(map[CellRef]string)
	sh.formulas = make(map[CellRef]string)
}

// SetLink attaches a hyperlink target to one cell of a seeded sheet.
func (s *MemoryStore) SetLink(source, sheet string, row, col int, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(source, sheet, true).links[CellRef{Row: row, Col: col}] = target
}

// SetFormula attaches formula text to one cell of a seeded sheet.
func (s *MemoryStore) SetFormula(source, sheet string, row, col int, formula string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet(source, sheet, true).formulas[CellRef{Row: row, Col: col}] = formula
}

// Rows returns a copy of a sheet's current rows, for assertions.
func (s *MemoryStore) Rows(source, sheet string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, false)
	if sh == nil {
		return nil
	}
	return cloneRows(sh.rows)
}

func (s *MemoryStore) sheet(source, sheet string, create bool) *memSheet {
	src, ok := s.sources[source]
	if !ok {
		if !create {
			return nil
		}
		src = &memSource{sheets: make(map[string]*memSheet)}
		s.sources[source] = src
	}
	sh, ok := src.sheets[sheet]
	if !ok {
		if !create {
			return nil
		}
		sh = &memSheet{
			links:    make(map[CellRef]string),
			formulas: make(map[CellRef]string),
		}
		src.sheets[sheet] = sh
		src.order = append(src.order, sheet)
	}
	return sh
}

func (s *MemoryStore) SheetNames(ctx context.Context, source string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[source]
	if !ok {
		return nil, &StoreError{Source: source, Op: "sheet_names", Err: fmt.Errorf("unknown source")}
	}
	return append([]string(nil), src.order...), nil
}

func (s *MemoryStore) ReadSheet(ctx context.Context, source, sheet string) (*Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, false)
	if sh == nil {
		return nil, &StoreError{Source: source, Op: "read", Err: fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)}
	}
	grid := &Grid{
		Rows:     cloneRows(sh.rows),
		Links:    make(map[CellRef]string, len(sh.links)),
		Formulas: make(map[CellRef]string, len(sh.formulas)),
	}
	for k, v := range sh.links {
		grid.Links[k] = v
	}
	for k, v := range sh.formulas {
		grid.Formulas[k] = v
	}
	return grid, nil
}

func (s *MemoryStore) UpdateCells(ctx context.Context, source, sheet string, cells []CellUpdate) error {
	if len(cells) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, false)
	if sh == nil {
		return &StoreError{Source: source, Op: "update", Err: fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)}
	}
	for _, u := range cells {
		sh.set(u.Row, u.Col, u.Value)
	}
	return nil
}

func (s *MemoryStore) AppendRows(ctx context.Context, source, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, false)
	if sh == nil {
		return &StoreError{Source: source, Op: "append", Err: fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)}
	}
	sh.rows = append(sh.rows, cloneRows(rows)...)
	return nil
}

func (s *MemoryStore) InsertColumn(ctx context.Context, source, sheet string, col int, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, false)
	if sh == nil {
		return &StoreError{Source: source, Op: "insert_column", Err: fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)}
	}
	for r := range sh.rows {
		row := sh.rows[r]
		if col <= len(row) {
			row = append(row[:col], append([]string{""}, row[col:]...)...)
			sh.rows[r] = row
		}
	}
	for r, val := range values {
		sh.set(r, col, val)
	}
	return nil
}

func (s *MemoryStore) DeleteColumn(ctx context.Context, source, sheet string, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheet(source, sheet, false)
	if sh == nil {
		return &StoreError{Source: source, Op: "delete_column", Err: fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)}
	}
	for r := range sh.rows {
		row := sh.rows[r]
		if col < len(row) {
			sh.rows[r] = append(row[:col], row[col+1:]...)
		}
	}
	return nil
}

func (s *MemoryStore) EnsureSheet(ctx context.Context, source, sheet string, header []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[source]
	if ok {
		if _, exists := src.sheets[sheet]; exists {
			return false, nil
		}
	}
	sh := s.sheet(source, sheet, true)
	if len(header) > 0 {
		sh.rows = [][]string{append([]string(nil), header...)}
	}
	return true, nil
}

// Sources lists seeded source identifiers, sorted, for assertions.
func (s *MemoryStore) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sources))
	for k := range s.sources {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (sh *memSheet) set(row, col int, value string) {
	for len(sh.rows) <= row {
		sh.rows = append(sh.rows, nil)
	}
	r := sh.rows[row]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = value
	sh.rows[row] = r
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
