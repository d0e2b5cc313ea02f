package statusboard

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

// Subcategories expected to carry a document link, in normalized form.
var documentSubcategories = map[string]struct{}{
	"sow":                  {},
	"qmandcertification":   {},
	"productdocuments":     {},
	"deploymentdocuments":  {},
	"consolidateddocument": {},
}

// Subcategories that always belong to the Client list no matter what
// the relationship column says.
var forcedClientKeys = map[string]struct{}{
	"Customer Location":    {},
	"Customer Description": {},
	"Customer Name":        {},
}

// hyperlinkFormulaRe grabs the first quoted argument of a HYPERLINK()
// formula.
var hyperlinkFormulaRe = regexp.MustCompile(`(?i)HYPERLINK\s*\(\s*"([^"]+)"`)

// noData is stored for customer cells that are empty after trimming.
const noData = "No Data"

// normalizeHeader lowercases and strips non-alphanumerics, for header
// and subcategory matching only; stored values keep original casing.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nonCustomerHeaders are header columns that never name a customer.
var nonCustomerHeaders = map[string]struct{}{
	"category":       {},
	"subcategory":    {},
	"staticdynamic":  {},
	"sycamoreclient": {},
}

// ParseGrid converts one raw grid into the per-customer record set.
//
// The header row is the first row containing a cell whose normalized
// text includes "subcategory"; without one the grid yields an empty
// set. Every header column that is not the category, subcategory,
// static/dynamic or relationship column names a customer. Columns with
// a blank header are skipped rather than becoming a customer named "".
func ParseGrid(grid *gridstore.Grid, logger *zap.Logger) RecordSet {
	result := make(RecordSet)
	if grid == nil {
		return result
	}

	headerIdx := -1
	for i, row := range grid.Rows {
		for _, cell := range row {
			if strings.Contains(normalizeHeader(cell), "subcategory") {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		logger.Warn("no header row with a subcategory column, skipping grid")
		return result
	}

	header := grid.Rows[headerIdx]
	subcategoryCol := -1
	relationshipCol := -1
	for i, cell := range header {
		n := normalizeHeader(cell)
		if subcategoryCol < 0 && strings.Contains(n, "subcategory") {
			subcategoryCol = i
		}
		if relationshipCol < 0 && isRelationshipHeader(n) {
			relationshipCol = i
		}
	}

	var customerCols []int
	var customerNames []string
	for i, cell := range header {
		n := normalizeHeader(cell)
		if _, reserved := nonCustomerHeaders[n]; reserved {
			continue
		}
		if i == subcategoryCol || i == relationshipCol {
			continue
		}
		if strings.TrimSpace(cell) == "" {
			logger.Debug("skipping blank-header column", zap.Int("col", i))
			continue
		}
		customerCols = append(customerCols, i)
		customerNames = append(customerNames, cell)
	}

	for r := headerIdx + 1; r < len(grid.Rows); r++ {
		subcategory := strings.TrimSpace(grid.Cell(r, subcategoryCol))
		if subcategory == "" {
			continue
		}

		relationship := RelationshipUnknown
		if relationshipCol >= 0 {
			relationship = ClassifyRelationship(strings.TrimSpace(grid.Cell(r, relationshipCol)))
		}

		for ci, col := range customerCols {
			name := customerNames[ci]
			rec, ok := result[name]
			if !ok {
				rec = NewCustomerRecord()
				result[name] = rec
			}

			value := strings.TrimSpace(grid.Cell(r, col))
			if value == "" {
				value = noData
			}

			normalized := normalizeHeader(subcategory)
			if normalized == "logo" {
				display := value
				if strings.HasPrefix(strings.ToLower(value), "http") {
					display = "Link Available"
					rec.LogoURL = value
				}
				list := rec.List(relationship.Category())
				*list = append(*list, Field{Key: subcategory, Value: display})
				continue
			}

			if _, isDoc := documentSubcategories[normalized]; isDoc {
				if url := extractCellURL(grid, r, col, value); url != "" && !strings.Contains(value, url) {
					value = value + " [LINK: " + url + "]"
				}
			}

			category := relationship.Category()
			if _, forced := forcedClientKeys[subcategory]; forced {
				category = CategoryClient
			}
			list := rec.List(category)
			*list = append(*list, Field{Key: subcategory, Value: value})
		}
	}

	return result
}

// isRelationshipHeader reports whether a normalized header names the
// relationship column.
func isRelationshipHeader(n string) bool {
	if n == "sycamoreclient" || n == "clienttype" {
		return true
	}
	return strings.Contains(n, "sycamore") && strings.Contains(n, "client")
}

// extractCellURL recovers a hyperlink for a document cell, in priority
// order: an explicit cell-level hyperlink, a URL inside a HYPERLINK()
// formula, or the literal cell text when it is itself a URL.
func extractCellURL(grid *gridstore.Grid, row, col int, value string) string {
	if target := grid.Link(row, col); target != "" {
		return target
	}
	if formula := grid.Formula(row, col); strings.Contains(strings.ToUpper(formula), "HYPERLINK") {
		if m := hyperlinkFormulaRe.FindStringSubmatch(formula); m != nil {
			return m[1]
		}
	}
	if strings.HasPrefix(strings.ToLower(value), "http") {
		return value
	}
	return ""
}
