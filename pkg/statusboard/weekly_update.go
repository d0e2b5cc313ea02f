package statusboard

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

// WeeklyUpdateStore writes the global week → free-text summary rows.
// Reads of these rows happen through the Loader's WeeklyUpdates side
// channel.
type WeeklyUpdateStore struct {
	Store  gridstore.Store
	Logger *zap.Logger
}

// Update upserts one week's summary text, creating the sheet with its
// header on first use.
func (w *WeeklyUpdateStore) Update(ctx context.Context, source, week, text string) error {
	created, err := w.Store.EnsureSheet(ctx, source, weeklyUpdatesSheet, []string{"Week", "Update"})
	if err != nil {
		return err
	}
	if created {
		w.Logger.Info("created weekly updates sheet", zap.String("source", source))
	}

	grid, err := w.Store.ReadSheet(ctx, source, weeklyUpdatesSheet)
	if err != nil {
		return err
	}

	// A pre-existing empty sheet gets its header back before the
	// first data row.
	if len(grid.Rows) == 0 {
		return w.Store.AppendRows(ctx, source, weeklyUpdatesSheet, [][]string{
			{"Week", "Update"},
			{week, text},
		})
	}

	for i := 1; i < len(grid.Rows); i++ {
		if strings.TrimSpace(grid.Cell(i, 0)) == week {
			return w.Store.UpdateCells(ctx, source, weeklyUpdatesSheet, []gridstore.CellUpdate{
				{Row: i, Col: 1, Value: text},
			})
		}
	}
	return w.Store.AppendRows(ctx, source, weeklyUpdatesSheet, [][]string{{week, text}})
}
