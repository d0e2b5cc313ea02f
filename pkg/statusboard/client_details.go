package statusboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

const clientDetailsSheet = "ClientSpecificDetails"

var clientDetailColumns = []string{
	"Customer Name",
	"Deployment Details",
	"Scheduled Activities/ Backlog",
	"Product Development & Services Alignment",
	"Performance Metrics from last week",
}

// ClientSpecificDetails is one customer's per-week operations status.
type ClientSpecificDetails struct {
	DeploymentDetails   string `json:"deploymentDetails"`
	ScheduledActivities string `json:"scheduledActivities"`
	ProductAlignment    string `json:"productAlignment"`
	PerformanceMetrics  string `json:"performanceMetrics"`
}

// ClientDetails reconciles the ClientSpecificDetails sheet of a
// weekly source, one row per customer.
type ClientDetails struct {
	rows fixedRowSheet
}

func NewClientDetails(store gridstore.Store, logger *zap.Logger) *ClientDetails {
	return &ClientDetails{rows: fixedRowSheet{
		store:   store,
		logger:  logger,
		sheet:   clientDetailsSheet,
		columns: clientDetailColumns,
	}}
}

// Load returns the customer's details. A missing sheet wraps
// gridstore.ErrSheetNotFound; a missing row yields an empty record.
func (c *ClientDetails) Load(ctx context.Context, source, customer string) (*ClientSpecificDetails, error) {
	values, err := c.rows.load(ctx, source, customer)
	if err != nil {
		return nil, err
	}
	d := &ClientSpecificDetails{}
	if values != nil {
		d.DeploymentDetails, d.ScheduledActivities = values[0], values[1]
		d.ProductAlignment, d.PerformanceMetrics = values[2], values[3]
	}
	return d, nil
}

// Update upserts the customer's row, creating the sheet on first use.
func (c *ClientDetails) Update(ctx context.Context, source, customer string, d *ClientSpecificDetails) error {
	return c.rows.update(ctx, source, customer, []string{
		d.DeploymentDetails, d.ScheduledActivities, d.ProductAlignment, d.PerformanceMetrics,
	})
}
