package statusboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

func writerFixture(t *testing.T) (*Writer, *gridstore.MemoryStore) {
	t.Helper()
	store := gridstore.NewMemoryStore()
	store.SetSheet("src", "Status", [][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme", "Brick"},
		{"Overview", "CSM", "Sycamore", "Jane", "John"},
		{"Overview", "Customer Location", "Client", "Boston", "Denver"},
	})
	return &Writer{Store: store, Logger: zap.NewNop()}, store
}

func TestApplyEditsUpdatesExistingRow(t *testing.T) {
	w, store := writerFixture(t)

	err := w.ApplyEdits(context.Background(), "src", "Acme", Edits{
		CategorySycamore: {{Key: "CSM", Value: "Sam"}},
	})
	require.NoError(t, err)

	rows := store.Rows("src", "Status")
	assert.Equal(t, "Sam", rows[1][3])
	// Other customers' cells untouched.
	assert.Equal(t, "John", rows[1][4])
}

func TestApplyEditsAppendsMissingRow(t *testing.T) {
	w, store := writerFixture(t)

	err := w.ApplyEdits(context.Background(), "src", "Acme", Edits{
		CategoryClient: {{Key: "Customer Sentiment Score", Value: "8"}},
	})
	require.NoError(t, err)

	rows := store.Rows("src", "Status")
	require.Len(t, rows, 4)
	appended := rows[3]
	assert.Equal(t, "Customer Sentiment Score", appended[1])
	assert.Equal(t, "8", appended[3])
	// Synthesized rows get a best-effort relationship label.
	assert.Equal(t, "Client", appended[2])
	// Full header width, other customers blank.
	require.Len(t, appended, 5)
	assert.Equal(t, "", appended[4])
}

func TestApplyEditsRelationshipGuess(t *testing.T) {
	w, store := writerFixture(t)

	err := w.ApplyEdits(context.Background(), "src", "Acme", Edits{
		CategorySycamore: {{Key: "Support Lead", Value: "Ops"}},
	})
	require.NoError(t, err)

	rows := store.Rows("src", "Status")
	assert.Equal(t, "Sycamore", rows[3][2])
}

func TestApplyEditsIdempotent(t *testing.T) {
	w, store := writerFixture(t)
	edits := Edits{
		CategorySycamore: {{Key: "CSM", Value: "Sam"}},
		CategoryClient:   {{Key: "Customer Sentiment Score", Value: "8"}},
	}

	require.NoError(t, w.ApplyEdits(context.Background(), "src", "Acme", edits))
	first := store.Rows("src", "Status")
	require.NoError(t, w.ApplyEdits(context.Background(), "src", "Acme", edits))
	second := store.Rows("src", "Status")

	// The retried payload updates the row it appended; no duplicates.
	assert.Equal(t, first, second)
}

func TestApplyEditsUnknownCustomerIsNoOp(t *testing.T) {
	w, store := writerFixture(t)
	before := store.Rows("src", "Status")

	err := w.ApplyEdits(context.Background(), "src", "Nobody", Edits{
		CategoryClient: {{Key: "CSM", Value: "x"}},
	})
	require.NoError(t, err)
	assert.Equal(t, before, store.Rows("src", "Status"))
}

func TestApplyEditsSkipsEmptyKeys(t *testing.T) {
	w, store := writerFixture(t)

	err := w.ApplyEdits(context.Background(), "src", "Acme", Edits{
		CategoryClient: {{Key: "   ", Value: "ignored"}},
	})
	require.NoError(t, err)
	assert.Len(t, store.Rows("src", "Status"), 3)
}

func TestAddCustomer(t *testing.T) {
	w, store := writerFixture(t)

	rec := NewCustomerRecord()
	rec.Sycamore = FieldList{{Key: "CSM", Value: "Pat"}}
	rec.Client = FieldList{{Key: "Customer Location", Value: "Austin"}}

	require.NoError(t, w.AddCustomer(context.Background(), "src", "Cobalt", rec))

	rows := store.Rows("src", "Status")
	assert.Equal(t, "Cobalt", rows[0][5])
	assert.Equal(t, "Pat", rows[1][5])
	assert.Equal(t, "Austin", rows[2][5])
}

func TestDeleteCustomer(t *testing.T) {
	w, store := writerFixture(t)

	require.NoError(t, w.DeleteCustomer(context.Background(), "src", "Acme"))

	rows := store.Rows("src", "Status")
	assert.Equal(t, []string{"Category", "Subcategory", "Sycamore/Client", "Brick"}, rows[0])
	assert.Equal(t, "John", rows[1][3])
}

func TestEditsRoundTripThroughSheet(t *testing.T) {
	store := gridstore.NewMemoryStore()
	store.SetSheet("origin", "Status", [][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Overview", "Customer Location", "Client", "Boston"},
		{"Overview", "Action Items", "Client", "follow up"},
		{"Overview", "CSM", "Sycamore", "Jane"},
		{"Overview", "Escalation Matrix", "Sycamore/Client", "Tier 2"},
	})
	ctx := context.Background()

	grid, err := store.ReadSheet(ctx, "origin", "Status")
	require.NoError(t, err)
	rec := ParseGrid(grid, zap.NewNop())["Acme"]
	require.NotNil(t, rec)

	// Write every parsed field onto a fresh sheet carrying only the
	// header, then parse the result back.
	store.SetSheet("target", "Status", [][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
	})
	w := &Writer{Store: store, Logger: zap.NewNop()}
	require.NoError(t, w.ApplyEdits(ctx, "target", "Acme", Edits{
		CategoryClient:   rec.Client,
		CategorySycamore: rec.Sycamore,
		CategoryBoth:     rec.SycamoreAndClient,
	}))

	back, err := store.ReadSheet(ctx, "target", "Status")
	require.NoError(t, err)
	rec2 := ParseGrid(back, zap.NewNop())["Acme"]
	require.NotNil(t, rec2)

	// Client fields survive key and value intact.
	assert.Equal(t, rec.Client, rec2.Client)
	// Rows synthesized from the combined list get the Sycamore label,
	// so those fields reappear under Sycamore.
	assert.Equal(t, append(append(FieldList{}, rec.Sycamore...), rec.SycamoreAndClient...), rec2.Sycamore)
	assert.Empty(t, rec2.SycamoreAndClient)
}

func TestDeleteCustomerMatchesHeaderOnly(t *testing.T) {
	w, store := writerFixture(t)
	// "Acme" also appears as a data value; only the header may match.
	store.SetSheet("src", "Status", [][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Brick"},
		{"Overview", "Partner", "Client", "Acme"},
	})

	err := w.DeleteCustomer(context.Background(), "src", "Acme")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Len(t, store.Rows("src", "Status")[1], 4)
}
