// Package gridstore provides read/write access to named spreadsheet
// sources. A source is an opaque identifier resolving to one workbook;
// each workbook holds named sheets of rectangular cell data.
package gridstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrSheetNotFound indicates a named sheet is absent from a source.
// Callers distinguish this from "sheet exists but row absent", which is
// not an error condition.
var ErrSheetNotFound = errors.New("sheet not found")

// StoreError wraps a backing-store failure with the source and
// operation it occurred in.
type StoreError struct {
	Source string
	Op     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s on source %q: %v", e.Op, e.Source, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CellRef addresses one cell, zero-based.
type CellRef struct {
	Row int
	Col int
}

// CellUpdate is a single sparse cell mutation.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// Grid is one sheet's cell values in row-major order, with optional
// per-cell hyperlink targets and formula text.
type Grid struct {
	Rows     [][]string
	Links    map[CellRef]string
	Formulas map[CellRef]string
}

// Cell returns the value at (row, col), or "" when out of range.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Link returns the hyperlink target attached to (row, col), if any.
func (g *Grid) Link(row, col int) string {
	return g.Links[CellRef{Row: row, Col: col}]
}

// Formula returns the formula text of (row, col), if any.
func (g *Grid) Formula(row, col int) string {
	return g.Formulas[CellRef{Row: row, Col: col}]
}

// Width returns the widest row of the grid.
func (g *Grid) Width() int {
	w := 0
	for _, r := range g.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Store is the only boundary to the external spreadsheet storage. A
// batched UpdateCells call is issued and awaited before any AppendRows
// call in the same logical write; the store itself gives no atomicity
// across the pair.
type Store interface {
	// SheetNames lists the sheets of a source in workbook order.
	SheetNames(ctx context.Context, source string) ([]string, error)

	// ReadSheet returns the full grid of one sheet. Returns
	// ErrSheetNotFound (wrapped) when the sheet is absent.
	ReadSheet(ctx context.Context, source, sheet string) (*Grid, error)

	// UpdateCells applies sparse cell updates in one batch.
	UpdateCells(ctx context.Context, source, sheet string, cells []CellUpdate) error

	// AppendRows appends full rows after the last populated row.
	AppendRows(ctx context.Context, source, sheet string, rows [][]string) error

	// InsertColumn inserts a column at the zero-based index and fills
	// it top-down with values.
	InsertColumn(ctx context.Context, source, sheet string, col int, values []string) error

	// DeleteColumn removes the column at the zero-based index.
	DeleteColumn(ctx context.Context, source, sheet string, col int) error

	// EnsureSheet creates the sheet with the given header row when it
	// does not exist. Reports whether it was created. A nil header
	// creates an empty sheet.
	EnsureSheet(ctx context.Context, source, sheet string, header []string) (bool, error)
}
