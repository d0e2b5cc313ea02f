package statusboard

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/config"
	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

// weeklyUpdatesSheet stores week → global summary rows.
const weeklyUpdatesSheet = "WeeklyUpdates"

// WeeklyUpdates maps a week identifier to its global free-text update.
type WeeklyUpdates map[string]string

// Loader builds merged record sets out of the master source, the
// selected week's source and, as a backfill layer, the previous week's
// source.
type Loader struct {
	Store  gridstore.Store
	Config *config.Config
	Logger *zap.Logger
}

// WeekData is one week's fully merged view.
type WeekData struct {
	Records RecordSet
	Updates WeeklyUpdates
}

// Load reconciles the record sets for the selected week.
//
// Master parses first and provides the defaults. When the week
// resolves to a source, that week's set is parsed, backfilled with the
// previous week's set (previous-week values replace matching keys and
// fill missing ones), and merged onto master with the incoming set
// winning on key collisions. When the week resolves to nothing, the
// master set alone is returned.
func (l *Loader) Load(ctx context.Context, week string) (*WeekData, error) {
	data := &WeekData{
		Records: make(RecordSet),
		Updates: WeeklyUpdates{},
	}

	master := l.Config.Master()
	if master != "" {
		MergeRecordSets(data.Records, l.loadSource(ctx, master))
		data.Updates = l.loadWeeklyUpdates(ctx, master)
	}

	weeklySource, ok := ResolveWeeklySource(l.Config, week)
	if !ok {
		return data, nil
	}

	weekly := l.loadSource(ctx, weeklySource)
	if prevSource, ok := ResolveWeeklySource(l.Config, PreviousWeek(week)); ok {
		// Previous-week values carry forward: they replace the
		// in-progress weekly values and fill keys the current week
		// has not set yet.
		MergeRecordSets(weekly, l.loadSource(ctx, prevSource))
	}
	MergeRecordSets(data.Records, weekly)

	return data, nil
}

// loadSource parses the primary sheet of one source. Failures are
// non-fatal: the source contributes nothing and the error is logged.
func (l *Loader) loadSource(ctx context.Context, source string) RecordSet {
	names, err := l.Store.SheetNames(ctx, source)
	if err != nil || len(names) == 0 {
		l.Logger.Error("listing sheets failed, skipping source",
			zap.String("source", source), zap.Error(err))
		return make(RecordSet)
	}
	grid, err := l.Store.ReadSheet(ctx, source, names[0])
	if err != nil {
		l.Logger.Error("reading primary sheet failed, skipping source",
			zap.String("source", source), zap.Error(err))
		return make(RecordSet)
	}
	return ParseGrid(grid, l.Logger.With(zap.String("source", source)))
}

// loadWeeklyUpdates reads the master's week → summary sheet. A missing
// sheet is expected on first use and yields an empty mapping.
func (l *Loader) loadWeeklyUpdates(ctx context.Context, source string) WeeklyUpdates {
	updates := WeeklyUpdates{}
	grid, err := l.Store.ReadSheet(ctx, source, weeklyUpdatesSheet)
	if err != nil {
		if !errors.Is(err, gridstore.ErrSheetNotFound) {
			l.Logger.Warn("could not load weekly updates sheet",
				zap.String("source", source), zap.Error(err))
		}
		return updates
	}
	for i := 1; i < len(grid.Rows); i++ {
		week := strings.TrimSpace(grid.Cell(i, 0))
		if week == "" {
			continue
		}
		updates[week] = grid.Cell(i, 1)
	}
	return updates
}

// MergeRecordSets merges src onto dst with key-preserving semantics:
// per customer, per field list, an incoming field replaces the first
// dst field with a matching key, otherwise it appends. Keys present
// only in dst are left untouched, so dst provides defaults and src
// provides overrides and additions.
func MergeRecordSets(dst, src RecordSet) {
	for name, incoming := range src {
		rec, ok := dst[name]
		if !ok {
			rec = NewCustomerRecord()
			dst[name] = rec
		}
		for _, cat := range incoming.Categories() {
			target := rec.List(cat.Name)
			for _, f := range *cat.List {
				target.Set(f)
			}
		}
		if incoming.LogoURL != "" {
			rec.LogoURL = incoming.LogoURL
		}
	}
}

// MergeRecords merges one incoming record onto a base record, same
// semantics as MergeRecordSets but for a single customer.
func MergeRecords(dst, src *CustomerRecord) {
	if src == nil {
		return
	}
	for _, cat := range src.Categories() {
		target := dst.List(cat.Name)
		for _, f := range *cat.List {
			target.Set(f)
		}
	}
	if src.LogoURL != "" {
		dst.LogoURL = src.LogoURL
	}
}
