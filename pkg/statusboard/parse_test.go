package statusboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

func newGrid(rows [][]string) *gridstore.Grid {
	return &gridstore.Grid{
		Rows:     rows,
		Links:    map[gridstore.CellRef]string{},
		Formulas: map[gridstore.CellRef]string{},
	}
}

func TestParseGridBasic(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme", "Brick"},
		{"Overview", "Customer Location", "Client", "Boston", "Denver"},
		{"Overview", "CSM", "Sycamore", "Jane", "John"},
		{"Overview", "Escalation Matrix", "Sycamore/Client", "Doc A", "Doc B"},
	})

	rs := ParseGrid(grid, zap.NewNop())
	require.Len(t, rs, 2)

	acme := rs["Acme"]
	require.NotNil(t, acme)

	v, ok := acme.Client.Get("Customer Location")
	require.True(t, ok)
	assert.Equal(t, "Boston", v)

	v, ok = acme.Sycamore.Get("CSM")
	require.True(t, ok)
	assert.Equal(t, "Jane", v)

	v, ok = acme.SycamoreAndClient.Get("Escalation Matrix")
	require.True(t, ok)
	assert.Equal(t, "Doc A", v)

	brick := rs["Brick"]
	require.NotNil(t, brick)
	v, _ = brick.Client.Get("Customer Location")
	assert.Equal(t, "Denver", v)
}

func TestParseGridHeaderBelowTitleRows(t *testing.T) {
	grid := newGrid([][]string{
		{"Customer Status Dashboard"},
		{},
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Overview", "CSM", "Sycamore", "Jane"},
	})

	rs := ParseGrid(grid, zap.NewNop())
	require.Contains(t, rs, "Acme")
	v, ok := rs["Acme"].Sycamore.Get("CSM")
	require.True(t, ok)
	assert.Equal(t, "Jane", v)
}

func TestParseGridNoHeaderRow(t *testing.T) {
	grid := newGrid([][]string{
		{"just", "some", "cells"},
		{"no", "header", "here"},
	})
	assert.Empty(t, ParseGrid(grid, zap.NewNop()))
}

func TestParseGridNoDataFill(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Overview", "CSM", "Sycamore", "   "},
	})
	rs := ParseGrid(grid, zap.NewNop())
	v, ok := rs["Acme"].Sycamore.Get("CSM")
	require.True(t, ok)
	assert.Equal(t, "No Data", v)
}

func TestParseGridSkipsEmptySubcategoryRows(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Overview", "", "Client", "orphan value"},
		{"Overview", "CSM", "Sycamore", "Jane"},
	})
	rs := ParseGrid(grid, zap.NewNop())
	require.Len(t, rs["Acme"].Sycamore, 1)
	assert.Empty(t, rs["Acme"].Client)
}

func TestParseGridSkipsBlankHeaderColumns(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme", "  ", "Brick"},
		{"Overview", "CSM", "Sycamore", "Jane", "stray", "John"},
	})
	rs := ParseGrid(grid, zap.NewNop())
	assert.Len(t, rs, 2)
	assert.NotContains(t, rs, "")
}

func TestParseGridLogo(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme", "Brick"},
		{"Overview", "Logo", "Client", "https://cdn.example.com/acme.png", "n/a"},
	})
	rs := ParseGrid(grid, zap.NewNop())

	acme := rs["Acme"]
	assert.Equal(t, "https://cdn.example.com/acme.png", acme.LogoURL)
	v, ok := acme.Client.Get("Logo")
	require.True(t, ok)
	assert.Equal(t, "Link Available", v)

	// A non-URL logo cell keeps its text and sets no URL.
	brick := rs["Brick"]
	assert.Empty(t, brick.LogoURL)
	v, _ = brick.Client.Get("Logo")
	assert.Equal(t, "n/a", v)
}

func TestParseGridDocumentLinks(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Documents", "SOW", "Sycamore", "Signed 2026"},
		{"Documents", "QM and Certification", "Sycamore", "Certified"},
		{"Documents", "Product Documents", "Sycamore", "https://docs.example.com/product"},
		{"Documents", "Deployment Documents", "Sycamore", "See portal"},
	})
	grid.Links[gridstore.CellRef{Row: 1, Col: 3}] = "https://drive.example.com/sow"
	grid.Formulas[gridstore.CellRef{Row: 2, Col: 3}] = `HYPERLINK("https://drive.example.com/qm", "Certified")`

	rs := ParseGrid(grid, zap.NewNop())
	sycamore := rs["Acme"].Sycamore

	v, _ := sycamore.Get("SOW")
	assert.Equal(t, "Signed 2026 [LINK: https://drive.example.com/sow]", v)

	v, _ = sycamore.Get("QM and Certification")
	assert.Equal(t, "Certified [LINK: https://drive.example.com/qm]", v)

	// Literal URL text already contains the link; no marker appended.
	v, _ = sycamore.Get("Product Documents")
	assert.Equal(t, "https://docs.example.com/product", v)

	// No link anywhere: plain text survives.
	v, _ = sycamore.Get("Deployment Documents")
	assert.Equal(t, "See portal", v)
}

func TestParseGridForcedClientKeys(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Overview", "Customer Location", "Sycamore", "Boston"},
		{"Overview", "Customer Description", "Sycamore/Client", "Biotech"},
	})
	rs := ParseGrid(grid, zap.NewNop())

	acme := rs["Acme"]
	assert.True(t, acme.Client.Has("Customer Location"))
	assert.True(t, acme.Client.Has("Customer Description"))
	assert.False(t, acme.Sycamore.Has("Customer Location"))
	assert.False(t, acme.SycamoreAndClient.Has("Customer Description"))
}

func TestParseGridUnlabelledRowDefaultsToClient(t *testing.T) {
	grid := newGrid([][]string{
		{"Category", "Subcategory", "Sycamore/Client", "Acme"},
		{"Overview", "Some Attribute", "", "value"},
	})
	rs := ParseGrid(grid, zap.NewNop())
	assert.True(t, rs["Acme"].Client.Has("Some Attribute"))
}
