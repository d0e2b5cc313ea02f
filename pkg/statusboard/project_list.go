package statusboard

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

const projectListSheetPrefix = "PL "

// ProjectList reconciles the per-year project list sheets: one "PL
// <year>" sheet per year, one column per customer, the value fixed at
// the row immediately below the header. There is no fallback when the
// layout gains a second entry row; the position is assumed, matching
// the sheet convention the rest of the tooling relies on.
type ProjectList struct {
	Store  gridstore.Store
	Logger *zap.Logger
}

// Load returns year → content for one customer across every PL sheet
// of the source.
func (p *ProjectList) Load(ctx context.Context, source, customer string) (map[string]string, error) {
	names, err := p.Store.SheetNames(ctx, source)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string)
	for _, sheet := range names {
		if !strings.HasPrefix(sheet, projectListSheetPrefix) {
			continue
		}
		year := strings.TrimSpace(strings.TrimPrefix(sheet, projectListSheetPrefix))

		grid, err := p.Store.ReadSheet(ctx, source, sheet)
		if err != nil {
			p.Logger.Warn("skipping unreadable project list sheet",
				zap.String("source", source), zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		if len(grid.Rows) < 2 {
			continue
		}
		col := findExact(grid.Rows[0], customer)
		if col < 0 {
			continue
		}
		if content := strings.TrimSpace(grid.Cell(1, col)); content != "" {
			entries[year] = content
		}
	}
	return entries, nil
}

// Update writes the customer's content for a year into row 1 of the
// year's PL sheet, creating the sheet and the customer's header cell
// when absent.
func (p *ProjectList) Update(ctx context.Context, source, customer, year, content string) error {
	sheet := projectListSheetPrefix + year

	created, err := p.Store.EnsureSheet(ctx, source, sheet, nil)
	if err != nil {
		return err
	}
	if created {
		p.Logger.Info("created project list sheet",
			zap.String("source", source), zap.String("sheet", sheet))
	}

	grid, err := p.Store.ReadSheet(ctx, source, sheet)
	if err != nil {
		return err
	}

	var header []string
	if len(grid.Rows) > 0 {
		header = grid.Rows[0]
	}
	col := findExact(header, customer)

	updates := make([]gridstore.CellUpdate, 0, 2)
	if col < 0 {
		col = len(header)
		updates = append(updates, gridstore.CellUpdate{Row: 0, Col: col, Value: customer})
	}
	updates = append(updates, gridstore.CellUpdate{Row: 1, Col: col, Value: content})
	return p.Store.UpdateCells(ctx, source, sheet, updates)
}
