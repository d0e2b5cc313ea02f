package statusboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

const productUpdatesSheet = "ProductUpdates"

var productUpdateColumns = []string{
	"Customer Name",
	"Current State",
	"Next Up",
	"Top 3 items in upcoming Release(s)",
	"Tech Stack/Infra Upgrades (As Needed)",
}

// ProductUpdate is one customer's per-week release status.
type ProductUpdate struct {
	CurrentState string `json:"currentState"`
	NextUp       string `json:"nextUp"`
	Top3         string `json:"top3"`
	TechStack    string `json:"techStack"`
}

// ProductUpdates reconciles the ProductUpdates sheet of a weekly
// source, one row per customer.
type ProductUpdates struct {
	rows fixedRowSheet
}

func NewProductUpdates(store gridstore.Store, logger *zap.Logger) *ProductUpdates {
	return &ProductUpdates{rows: fixedRowSheet{
		store:   store,
		logger:  logger,
		sheet:   productUpdatesSheet,
		columns: productUpdateColumns,
	}}
}

// Load returns the customer's product update. A missing sheet wraps
// gridstore.ErrSheetNotFound; a missing row yields an empty record.
func (p *ProductUpdates) Load(ctx context.Context, source, customer string) (*ProductUpdate, error) {
	values, err := p.rows.load(ctx, source, customer)
	if err != nil {
		return nil, err
	}
	u := &ProductUpdate{}
	if values != nil {
		u.CurrentState, u.NextUp, u.Top3, u.TechStack = values[0], values[1], values[2], values[3]
	}
	return u, nil
}

// Update upserts the customer's row, creating the sheet on first use.
func (p *ProductUpdates) Update(ctx context.Context, source, customer string, u *ProductUpdate) error {
	return p.rows.update(ctx, source, customer, []string{
		u.CurrentState, u.NextUp, u.Top3, u.TechStack,
	})
}
