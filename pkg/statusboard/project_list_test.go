package statusboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

func TestProjectListLoad(t *testing.T) {
	store := gridstore.NewMemoryStore()
	store.SetSheet("master-src", "Status", nil)
	store.SetSheet("master-src", "PL 2025", [][]string{
		{"Acme", "Brick"},
		{"migration project", "rollout"},
	})
	store.SetSheet("master-src", "PL 2026", [][]string{
		{"Acme"},
		{"validation suite"},
	})

	pl := &ProjectList{Store: store, Logger: zap.NewNop()}
	entries, err := pl.Load(context.Background(), "master-src", "Acme")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"2025": "migration project",
		"2026": "validation suite",
	}, entries)

	entries, err = pl.Load(context.Background(), "master-src", "Brick")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2025": "rollout"}, entries)
}

func TestProjectListUpdateCreatesSheet(t *testing.T) {
	store := gridstore.NewMemoryStore()
	pl := &ProjectList{Store: store, Logger: zap.NewNop()}
	ctx := context.Background()

	require.NoError(t, pl.Update(ctx, "master-src", "Acme", "2026", "new program"))

	rows := store.Rows("master-src", "PL 2026")
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0][0])
	assert.Equal(t, "new program", rows[1][0])
}

func TestProjectListUpdateExistingColumn(t *testing.T) {
	store := gridstore.NewMemoryStore()
	store.SetSheet("master-src", "PL 2026", [][]string{
		{"Acme", "Brick"},
		{"old", "other"},
	})
	pl := &ProjectList{Store: store, Logger: zap.NewNop()}

	require.NoError(t, pl.Update(context.Background(), "master-src", "Acme", "2026", "replaced"))

	rows := store.Rows("master-src", "PL 2026")
	assert.Equal(t, "replaced", rows[1][0])
	assert.Equal(t, "other", rows[1][1])
}

func TestWeeklyUpdateStoreUpsert(t *testing.T) {
	store := gridstore.NewMemoryStore()
	w := &WeeklyUpdateStore{Store: store, Logger: zap.NewNop()}
	ctx := context.Background()

	require.NoError(t, w.Update(ctx, "master-src", "2026-W03", "first draft"))
	require.NoError(t, w.Update(ctx, "master-src", "2026-W03", "final"))
	require.NoError(t, w.Update(ctx, "master-src", "2026-W04", "next week"))

	rows := store.Rows("master-src", "WeeklyUpdates")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2026-W03", "final"}, rows[1])
	assert.Equal(t, []string{"2026-W04", "next week"}, rows[2])
}

func TestWeeklyUpdateStorePreExistingEmptySheet(t *testing.T) {
	store := gridstore.NewMemoryStore()
	store.SetSheet("master-src", "WeeklyUpdates", nil)
	w := &WeeklyUpdateStore{Store: store, Logger: zap.NewNop()}

	require.NoError(t, w.Update(context.Background(), "master-src", "2026-W03", "first"))

	rows := store.Rows("master-src", "WeeklyUpdates")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Week", "Update"}, rows[0])
	assert.Equal(t, []string{"2026-W03", "first"}, rows[1])
}
