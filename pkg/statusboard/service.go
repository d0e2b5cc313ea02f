package statusboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sycamoredash/statusboard/pkg/config"
	"github.com/sycamoredash/statusboard/pkg/gridstore"
)

// Service ties the loader, writer, sub-record stores and caches
// together behind the operations the HTTP surface exposes.
type Service struct {
	cfg    *config.Config
	store  gridstore.Store
	logger *zap.Logger

	loader        *Loader
	writer        *Writer
	product       *ProductUpdates
	details       *ClientDetails
	tracker       *Tracker
	projects      *ProjectList
	weeklyUpdates *WeeklyUpdateStore

	weekCache    *Cache[*WeekData]
	productCache *Cache[*ProductUpdate]
	detailsCache *Cache[*ClientSpecificDetails]
	trackerCache *Cache[map[string]string]
	projectCache *Cache[map[string]string]
}

// NewService wires a service over the given store and configuration.
func NewService(cfg *config.Config, store gridstore.Store, logger *zap.Logger) *Service {
	return &Service{
		cfg:           cfg,
		store:         store,
		logger:        logger,
		loader:        &Loader{Store: store, Config: cfg, Logger: logger},
		writer:        &Writer{Store: store, Logger: logger},
		product:       NewProductUpdates(store, logger),
		details:       NewClientDetails(store, logger),
		tracker:       &Tracker{Store: store, Logger: logger},
		projects:      &ProjectList{Store: store, Logger: logger},
		weeklyUpdates: &WeeklyUpdateStore{Store: store, Logger: logger},
		weekCache:     NewCache[*WeekData]("week_data", cfg.CacheTTL),
		productCache:  NewCache[*ProductUpdate]("product_update", cfg.CacheTTL),
		detailsCache:  NewCache[*ClientSpecificDetails]("client_details", cfg.CacheTTL),
		trackerCache:  NewCache[map[string]string]("tracker", cfg.CacheTTL),
		projectCache:  NewCache[map[string]string]("project_list", cfg.CacheTTL),
	}
}

// WeekData returns the merged record set for a week, memoized for the
// configured TTL.
func (s *Service) WeekData(ctx context.Context, week string) (*WeekData, error) {
	if data, ok := s.weekCache.Get(week); ok {
		return data, nil
	}
	data, err := s.loader.Load(ctx, week)
	if err != nil {
		return nil, err
	}
	s.weekCache.Set(week, data)
	return data, nil
}

// Customers lists the customers of a week's merged set, sorted.
func (s *Service) Customers(ctx context.Context, week string) ([]string, error) {
	data, err := s.WeekData(ctx, week)
	if err != nil {
		return nil, err
	}
	return data.Records.Customers(), nil
}

// CustomerMeta rides along a customer view.
type CustomerMeta struct {
	Week         string            `json:"week"`
	Timestamp    time.Time         `json:"timestamp"`
	DocumentURLs map[string]string `json:"documentUrls"`
}

// CustomerView is one customer's merged record plus derived metadata.
type CustomerView struct {
	CustomerRecord
	Meta CustomerMeta `json:"_meta"`
}

// Customer returns one customer's merged record with the document-URL
// side channel, scanning both the weekly view and the master baseline.
func (s *Service) Customer(ctx context.Context, week, name string) (*CustomerView, error) {
	data, err := s.WeekData(ctx, week)
	if err != nil {
		return nil, err
	}
	rec, ok := data.Records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCustomerNotFound, name)
	}

	masterData, err := s.WeekData(ctx, WeekMaster)
	if err != nil {
		return nil, err
	}

	return &CustomerView{
		CustomerRecord: *rec,
		Meta: CustomerMeta{
			Week:         week,
			Timestamp:    time.Now().UTC(),
			DocumentURLs: DocumentURLs(rec, masterData.Records[name]),
		},
	}, nil
}

// SaveCustomerEdits splits an edit payload between the weekly and
// master destinations and upserts each part. For the master week the
// whole payload goes to the master source.
func (s *Service) SaveCustomerEdits(ctx context.Context, week, name string, edits Edits) error {
	data, err := s.WeekData(ctx, week)
	if err != nil {
		return err
	}
	if _, ok := data.Records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrCustomerNotFound, name)
	}

	master := s.cfg.Master()
	if week == WeekMaster {
		if err := s.writer.ApplyEdits(ctx, master, name, edits); err != nil {
			return err
		}
		s.weekCache.Clear()
		return nil
	}

	masterData, err := s.WeekData(ctx, WeekMaster)
	if err != nil {
		return err
	}
	weeklyPart, masterPart := SplitEdits(edits, masterData.Records[name])

	weeklySource, ok := ResolveWeeklySource(s.cfg, week)
	if !ok && len(weeklyPart) > 0 {
		return fmt.Errorf("%w: %q", ErrSourceNotConfigured, week)
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(weeklyPart) > 0 {
		g.Go(func() error {
			return s.writer.ApplyEdits(gctx, weeklySource, name, weeklyPart)
		})
	}
	if len(masterPart) > 0 {
		g.Go(func() error {
			return s.writer.ApplyEdits(gctx, master, name, masterPart)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.weekCache.Delete(week)
	if len(masterPart) > 0 {
		// Master feeds every week's merge, so the whole memo goes.
		s.weekCache.Clear()
	}
	return nil
}

// AddCustomer creates a new customer column in the master source and,
// when the week resolves, the weekly source.
func (s *Service) AddCustomer(ctx context.Context, week, name string, rec *CustomerRecord) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty customer name")
	}
	data, err := s.WeekData(ctx, week)
	if err != nil {
		return err
	}
	if _, ok := data.Records[name]; ok {
		return fmt.Errorf("%w: %q", ErrCustomerExists, name)
	}

	targets := []string{s.cfg.Master()}
	if weeklySource, ok := ResolveWeeklySource(s.cfg, week); ok {
		targets = append(targets, weeklySource)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			return s.writer.AddCustomer(gctx, target, name, rec)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.ClearCaches()
	return nil
}

// DeleteCustomer removes the customer's column from every configured
// source.
func (s *Service) DeleteCustomer(ctx context.Context, name string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, source := range s.cfg.Sources {
		g.Go(func() error {
			return s.writer.DeleteCustomer(gctx, source, name)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.ClearCaches()
	return nil
}

// ProductUpdate returns the customer's product update from the week's
// source, memoized per week and customer.
func (s *Service) ProductUpdate(ctx context.Context, week, name string) (*ProductUpdate, error) {
	if err := s.requireCustomer(ctx, week, name); err != nil {
		return nil, err
	}
	key := week + ":" + name
	if u, ok := s.productCache.Get(key); ok {
		return u, nil
	}
	source, ok := ResolveWeeklySource(s.cfg, week)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSourceNotConfigured, week)
	}
	u, err := s.product.Load(ctx, source, name)
	if err != nil {
		return nil, err
	}
	s.productCache.Set(key, u)
	return u, nil
}

// SaveProductUpdate upserts the customer's product update row.
func (s *Service) SaveProductUpdate(ctx context.Context, week, name string, u *ProductUpdate) error {
	if err := s.requireCustomer(ctx, week, name); err != nil {
		return err
	}
	source, ok := ResolveWeeklySource(s.cfg, week)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSourceNotConfigured, week)
	}
	if err := s.product.Update(ctx, source, name, u); err != nil {
		return err
	}
	s.productCache.Delete(week + ":" + name)
	return nil
}

// ClientDetails returns the customer's client-specific details from
// the week's source, memoized per week and customer.
func (s *Service) ClientDetails(ctx context.Context, week, name string) (*ClientSpecificDetails, error) {
	if err := s.requireCustomer(ctx, week, name); err != nil {
		return nil, err
	}
	key := week + ":" + name
	if d, ok := s.detailsCache.Get(key); ok {
		return d, nil
	}
	source, ok := ResolveWeeklySource(s.cfg, week)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSourceNotConfigured, week)
	}
	d, err := s.details.Load(ctx, source, name)
	if err != nil {
		return nil, err
	}
	s.detailsCache.Set(key, d)
	return d, nil
}

// SaveClientDetails upserts the customer's client-specific details row.
func (s *Service) SaveClientDetails(ctx context.Context, week, name string, d *ClientSpecificDetails) error {
	if err := s.requireCustomer(ctx, week, name); err != nil {
		return err
	}
	source, ok := ResolveWeeklySource(s.cfg, week)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSourceNotConfigured, week)
	}
	if err := s.details.Update(ctx, source, name, d); err != nil {
		return err
	}
	s.detailsCache.Delete(week + ":" + name)
	return nil
}

// TrackerEntries returns date → entry for one customer and year from
// the master source.
func (s *Service) TrackerEntries(ctx context.Context, name string, year int) (map[string]string, error) {
	key := fmt.Sprintf("%s:%d", name, year)
	if entries, ok := s.trackerCache.Get(key); ok {
		return entries, nil
	}
	entries, err := s.tracker.Load(ctx, s.cfg.Master(), name, year)
	if err != nil {
		return nil, err
	}
	s.trackerCache.Set(key, entries)
	return entries, nil
}

// SaveTrackerEntry writes one dated entry for a customer. The whole
// tracker memo is dropped because a new column or row shifts what
// other cached years see.
func (s *Service) SaveTrackerEntry(ctx context.Context, name, date, content string) error {
	if err := s.tracker.Update(ctx, s.cfg.Master(), name, date, content); err != nil {
		return err
	}
	s.trackerCache.Clear()
	return nil
}

// ProjectListEntries returns year → content for one customer from the
// master source.
func (s *Service) ProjectListEntries(ctx context.Context, name string) (map[string]string, error) {
	key := name + ":all-years"
	if entries, ok := s.projectCache.Get(key); ok {
		return entries, nil
	}
	entries, err := s.projects.Load(ctx, s.cfg.Master(), name)
	if err != nil {
		return nil, err
	}
	s.projectCache.Set(key, entries)
	return entries, nil
}

// SaveProjectListEntry writes one year's content for a customer.
func (s *Service) SaveProjectListEntry(ctx context.Context, name, year, content string) error {
	if err := s.projects.Update(ctx, s.cfg.Master(), name, year, content); err != nil {
		return err
	}
	s.projectCache.Delete(name + ":all-years")
	return nil
}

// WeeklyUpdateText returns the global free-text update for a week. It
// reads the sheet directly instead of going through the week memo so a
// save by another process is visible immediately.
func (s *Service) WeeklyUpdateText(ctx context.Context, week string) (string, error) {
	updates := s.loader.loadWeeklyUpdates(ctx, s.cfg.Master())
	return updates[week], nil
}

// SaveWeeklyUpdate writes the global free-text update for a week. The
// rows live in the master source so every week's view can read them.
func (s *Service) SaveWeeklyUpdate(ctx context.Context, week, text string) error {
	if err := s.weeklyUpdates.Update(ctx, s.cfg.Master(), week, text); err != nil {
		return err
	}
	s.weekCache.Clear()
	return nil
}

// Weeks lists the selectable weeks as of now.
func (s *Service) Weeks(now time.Time) []WeekOption {
	return AvailableWeeks(s.cfg, now)
}

// ClearCaches drops every memoized record set.
func (s *Service) ClearCaches() {
	s.weekCache.Clear()
	s.productCache.Clear()
	s.detailsCache.Clear()
	s.trackerCache.Clear()
	s.projectCache.Clear()
}

func (s *Service) requireCustomer(ctx context.Context, week, name string) error {
	data, err := s.WeekData(ctx, week)
	if err != nil {
		return err
	}
	if _, ok := data.Records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrCustomerNotFound, name)
	}
	return nil
}
