package statusboard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

// Edits is an edited-field payload keyed by category name, as
// submitted by the UI.
type Edits map[string]FieldList

// Writer maps edited field lists back onto the sparse grid of a target
// source without touching unrelated cells.
type Writer struct {
	Store  gridstore.Store
	Logger *zap.Logger
}

// ApplyEdits upserts every edited field into the source's primary
// sheet. Each field finds its row by matching the subcategory column
// top-down; found rows get a single-cell update, missing rows are
// synthesized and appended. All updates go out as one batch before the
// batched append, which also makes a retried payload idempotent: rows
// appended by the first attempt are found by the next.
func (w *Writer) ApplyEdits(ctx context.Context, source, customer string, edits Edits) error {
	sheet, grid, err := w.primarySheet(ctx, source)
	if err != nil {
		return err
	}
	if len(grid.Rows) == 0 {
		w.Logger.Warn("primary sheet is empty, nothing to update",
			zap.String("source", source))
		return nil
	}

	header := grid.Rows[0]
	customerCol := findExact(header, customer)
	subcategoryCol := findContainsFold(header, "subcategory")
	if customerCol < 0 || subcategoryCol < 0 {
		w.Logger.Warn("customer or subcategory column missing, skipping edits",
			zap.String("source", source),
			zap.String("customer", customer))
		return nil
	}
	// Best-effort relationship column for synthesized rows.
	relationshipCol := findContainsFold(header, "sycamore")

	var updates []gridstore.CellUpdate
	var appends [][]string

	for _, category := range []string{CategoryClient, CategorySycamore, CategoryBoth} {
		for _, f := range edits[category] {
			key := strings.TrimSpace(f.Key)
			if key == "" {
				continue
			}
			value := strings.TrimSpace(f.Value)

			row := -1
			for i := 1; i < len(grid.Rows); i++ {
				if strings.TrimSpace(grid.Cell(i, subcategoryCol)) == key {
					row = i
					break
				}
			}

			if row >= 0 {
				updates = append(updates, gridstore.CellUpdate{
					Row: row, Col: customerCol, Value: value,
				})
				continue
			}

			newRow := make([]string, len(header))
			newRow[subcategoryCol] = key
			newRow[customerCol] = value
			if relationshipCol >= 0 {
				// Heuristic: the list name hints at ownership; it is
				// not authoritative for rows that belong to both.
				if strings.Contains(category, "Sycamore") {
					newRow[relationshipCol] = CategorySycamore
				} else {
					newRow[relationshipCol] = CategoryClient
				}
			}
			appends = append(appends, newRow)
		}
	}

	w.Logger.Info("applying edits",
		zap.String("source", source),
		zap.String("customer", customer),
		zap.Int("updates", len(updates)),
		zap.Int("appends", len(appends)))

	if err := w.Store.UpdateCells(ctx, source, sheet, updates); err != nil {
		return err
	}
	return w.Store.AppendRows(ctx, source, sheet, appends)
}

// AddCustomer inserts a whole new customer column at the first unused
// column index, filled top-down by looking up each existing
// subcategory row in the new customer's flattened key map.
func (w *Writer) AddCustomer(ctx context.Context, source, customer string, rec *CustomerRecord) error {
	sheet, grid, err := w.primarySheet(ctx, source)
	if err != nil {
		return err
	}
	if len(grid.Rows) == 0 {
		return fmt.Errorf("source %q primary sheet is empty", source)
	}

	subcategoryCol := findContainsFold(grid.Rows[0], "subcategory")
	if subcategoryCol < 0 {
		return fmt.Errorf("source %q has no subcategory column", source)
	}

	flat := rec.Flatten()
	column := make([]string, 0, len(grid.Rows))
	column = append(column, customer)
	for i := 1; i < len(grid.Rows); i++ {
		key := strings.TrimSpace(grid.Cell(i, subcategoryCol))
		if key == "" {
			column = append(column, "")
			continue
		}
		column = append(column, flat[key])
	}

	insertAt := grid.Width()
	w.Logger.Info("adding customer column",
		zap.String("source", source),
		zap.String("customer", customer),
		zap.Int("col", insertAt))
	return w.Store.InsertColumn(ctx, source, sheet, insertAt, column)
}

// DeleteCustomer removes the customer's column. Only the header row is
// consulted when locating the column; matching data cells elsewhere in
// the grid would false-positive on customers whose name appears as a
// value.
func (w *Writer) DeleteCustomer(ctx context.Context, source, customer string) error {
	sheet, grid, err := w.primarySheet(ctx, source)
	if err != nil {
		return err
	}
	if len(grid.Rows) == 0 {
		return ErrCustomerNotFound
	}
	col := findExact(grid.Rows[0], customer)
	if col < 0 {
		return fmt.Errorf("%w: %q in source %q", ErrCustomerNotFound, customer, source)
	}
	w.Logger.Info("deleting customer column",
		zap.String("source", source),
		zap.String("customer", customer),
		zap.Int("col", col))
	return w.Store.DeleteColumn(ctx, source, sheet, col)
}

// primarySheet resolves the source's first sheet by store metadata and
// reads it; the primary sheet name is never assumed.
func (w *Writer) primarySheet(ctx context.Context, source string) (string, *gridstore.Grid, error) {
	names, err := w.Store.SheetNames(ctx, source)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("source %q has no sheets", source)
	}
	grid, err := w.Store.ReadSheet(ctx, source, names[0])
	if err != nil {
		return "", nil, err
	}
	return names[0], grid, nil
}

func findExact(row []string, want string) int {
	for i, cell := range row {
		if strings.TrimSpace(cell) == want {
			return i
		}
	}
	return -1
}

func findContainsFold(row []string, want string) int {
	for i, cell := range row {
		if strings.Contains(strings.ToLower(cell), want) {
			return i
		}
	}
	return -1
}
