package statusboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Key fragments selecting the stakeholder, version and user rows of a
// merged record for the export bundle's home section.
var (
	stakeholderKeys = []string{
		"csm", "lead ba", "production operation poc", "support lead",
		"technical lead", "specialist in sycamore informatics", "sme",
		"support team", "escalation matrix",
	}
	versionKeys = []string{"sycamore informatics product", "add-on modules"}
	userKeys    = []string{
		"number of active users", "number of full users",
		"number of read only users", "number of tlf users",
	}
)

// ExportHome is the export bundle's overview section.
type ExportHome struct {
	ClientInfo   []string `json:"clientInfo"`
	Stakeholders []string `json:"stakeholders"`
	Versions     []string `json:"versions"`
	Users        []string `json:"users"`
	Sentiment    string   `json:"sentiment"`
}

// ExportCFT carries the cross-functional sub-records.
type ExportCFT struct {
	ProductUpdates        *ProductUpdate         `json:"productUpdates"`
	ClientSpecificDetails *ClientSpecificDetails `json:"clientSpecificDetails"`
}

// ExportBundle is the consolidated JSON view of one customer's merged
// state across every sub-record, consumed by the export-formatting
// layer.
type ExportBundle struct {
	CustomerName      string            `json:"customerName"`
	Week              string            `json:"week"`
	ExportedAt        time.Time         `json:"exportedAt"`
	Home              ExportHome        `json:"home"`
	Sycamore          []string          `json:"sycamore"`
	SycamoreAndClient []string          `json:"sycamoreAndClient"`
	CFT               ExportCFT         `json:"cft"`
	Tracker           map[string]string `json:"tracker"`
	ProjectList       map[string]string `json:"projectList"`
	Documents         map[string]string `json:"documents"`
}

// Export assembles the consolidated bundle for one customer. Sub-record
// loads fan out concurrently and fail soft: a missing sheet or
// unreadable year leaves its section empty rather than sinking the
// whole export.
func (s *Service) Export(ctx context.Context, week, name string) (*ExportBundle, error) {
	data, err := s.WeekData(ctx, week)
	if err != nil {
		return nil, err
	}
	rec, ok := data.Records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCustomerNotFound, name)
	}

	bundle := &ExportBundle{
		CustomerName:      name,
		Week:              week,
		ExportedAt:        time.Now().UTC(),
		Sycamore:          rec.Sycamore.Strings(),
		SycamoreAndClient: rec.SycamoreAndClient.Strings(),
		CFT: ExportCFT{
			ProductUpdates:        &ProductUpdate{},
			ClientSpecificDetails: &ClientSpecificDetails{},
		},
		Tracker:     map[string]string{},
		ProjectList: map[string]string{},
		Documents:   DocumentURLs(rec),
	}
	bundle.Home = ExportHome{
		ClientInfo:   rec.Client.Strings(),
		Stakeholders: filterByKey(rec.Sycamore, stakeholderKeys),
		Versions:     filterByKey(rec.Sycamore, versionKeys),
		Users:        filterByKey(rec.Client, userKeys),
		Sentiment:    firstContaining(rec.Client, "customer sentiment score"),
	}

	var g errgroup.Group
	g.Go(func() error {
		u, err := s.ProductUpdate(ctx, week, name)
		if err != nil {
			s.logger.Warn("export: product update unavailable",
				zap.String("customer", name), zap.Error(err))
			return nil
		}
		bundle.CFT.ProductUpdates = u
		return nil
	})
	g.Go(func() error {
		d, err := s.ClientDetails(ctx, week, name)
		if err != nil {
			s.logger.Warn("export: client details unavailable",
				zap.String("customer", name), zap.Error(err))
			return nil
		}
		bundle.CFT.ClientSpecificDetails = d
		return nil
	})
	g.Go(func() error {
		entries, err := s.TrackerEntries(ctx, name, time.Now().Year())
		if err != nil {
			s.logger.Warn("export: tracker unavailable",
				zap.String("customer", name), zap.Error(err))
			return nil
		}
		bundle.Tracker = entries
		return nil
	})
	g.Go(func() error {
		entries, err := s.ProjectListEntries(ctx, name)
		if err != nil {
			s.logger.Warn("export: project list unavailable",
				zap.String("customer", name), zap.Error(err))
			return nil
		}
		bundle.ProjectList = entries
		return nil
	})
	_ = g.Wait()

	return bundle, nil
}

// filterByKey keeps fields whose lowercased key contains any of the
// fragments.
func filterByKey(fl FieldList, fragments []string) []string {
	var out []string
	for _, f := range fl {
		key := strings.ToLower(f.Key)
		for _, frag := range fragments {
			if strings.Contains(key, frag) {
				out = append(out, f.String())
				break
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// firstContaining returns the first rendered field whose text contains
// the fragment, case-insensitively.
func firstContaining(fl FieldList, fragment string) string {
	for _, f := range fl {
		if strings.Contains(strings.ToLower(f.String()), fragment) {
			return f.String()
		}
	}
	return ""
}
