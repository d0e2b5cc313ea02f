package statusboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

const trackerSheetPrefix = "Tracker "

// trackerDateLayout is the locale date format used as the row key.
const trackerDateLayout = "01/02/2006"

// Tracker reconciles the per-year tracker sheets: one row per date,
// one column per customer.
type Tracker struct {
	Store  gridstore.Store
	Logger *zap.Logger
}

// Load returns date → entry for one customer and year. A missing
// sheet, date column or customer column yields an empty mapping.
func (t *Tracker) Load(ctx context.Context, source, customer string, year int) (map[string]string, error) {
	entries := make(map[string]string)
	grid, err := t.Store.ReadSheet(ctx, source, fmt.Sprintf("%s%d", trackerSheetPrefix, year))
	if err != nil {
		if errors.Is(err, gridstore.ErrSheetNotFound) {
			return entries, nil
		}
		return nil, err
	}
	if len(grid.Rows) < 2 {
		return entries, nil
	}

	header := grid.Rows[0]
	dateCol := findContainsFold(header, "date")
	customerCol := findExact(header, customer)
	if dateCol < 0 || customerCol < 0 {
		return entries, nil
	}

	for i := 1; i < len(grid.Rows); i++ {
		date := strings.TrimSpace(grid.Cell(i, dateCol))
		content := strings.TrimSpace(grid.Cell(i, customerCol))
		if date != "" && content != "" {
			entries[date] = content
		}
	}
	return entries, nil
}

// Update writes exactly one cell at (date row, customer column),
// creating the year's sheet, the customer's column or the date's row
// as needed.
func (t *Tracker) Update(ctx context.Context, source, customer, date, content string) error {
	parsed, err := time.Parse(trackerDateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid tracker date %q: %w", date, err)
	}
	sheet := fmt.Sprintf("%s%d", trackerSheetPrefix, parsed.Year())

	created, err := t.Store.EnsureSheet(ctx, source, sheet, []string{"Date", customer})
	if err != nil {
		return err
	}
	if created {
		t.Logger.Info("created tracker sheet",
			zap.String("source", source), zap.String("sheet", sheet))
	}

	grid, err := t.Store.ReadSheet(ctx, source, sheet)
	if err != nil {
		return err
	}

	// A sheet can pre-exist with no rows at all; lay the header down
	// before anything else lands in row 0.
	header := []string{"Date", customer}
	if len(grid.Rows) > 0 {
		header = grid.Rows[0]
	} else if err := t.Store.AppendRows(ctx, source, sheet, [][]string{header}); err != nil {
		return err
	}
	dateCol := findContainsFold(header, "date")
	if dateCol < 0 {
		dateCol = 0
	}
	customerCol := findExact(header, customer)
	if customerCol < 0 {
		// New customer: claim the next header cell.
		customerCol = len(header)
		if err := t.Store.UpdateCells(ctx, source, sheet, []gridstore.CellUpdate{
			{Row: 0, Col: customerCol, Value: customer},
		}); err != nil {
			return err
		}
	}

	for i := 1; i < len(grid.Rows); i++ {
		if strings.TrimSpace(grid.Cell(i, dateCol)) == date {
			return t.Store.UpdateCells(ctx, source, sheet, []gridstore.CellUpdate{
				{Row: i, Col: customerCol, Value: content},
			})
		}
	}

	width := customerCol + 1
	if dateCol >= width {
		width = dateCol + 1
	}
	newRow := make([]string, width)
	newRow[dateCol] = date
	newRow[customerCol] = content
	return t.Store.AppendRows(ctx, source, sheet, [][]string{newRow})
}
