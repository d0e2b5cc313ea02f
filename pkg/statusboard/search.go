package statusboard

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// SearchResults groups matching field strings by customer and
// category.
type SearchResults struct {
	Results   map[string]map[string][]string `json:"results"`
	Customers []string                       `json:"customers"`
}

// Search scans a week's merged record set for a query. A category
// whose name contains the query matches wholesale; otherwise
// individual fields match on a whole-word or substring basis.
func (s *Service) Search(ctx context.Context, week, query string) (*SearchResults, error) {
	out := &SearchResults{Results: make(map[string]map[string][]string)}
	query = strings.TrimSpace(query)
	if query == "" {
		return out, nil
	}

	data, err := s.WeekData(ctx, week)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	wholeWord := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(query) + `\b`)

	for name, rec := range data.Records {
		matches := make(map[string][]string)
		for _, cat := range rec.Categories() {
			if strings.Contains(strings.ToLower(cat.Name), lower) {
				matches[cat.Name] = cat.List.Strings()
				continue
			}
			var hits []string
			for _, f := range *cat.List {
				item := f.String()
				if wholeWord.MatchString(item) || strings.Contains(strings.ToLower(item), lower) {
					hits = append(hits, item)
				}
			}
			if len(hits) > 0 {
				matches[cat.Name] = hits
			}
		}
		if len(matches) > 0 {
			out.Results[name] = matches
			out.Customers = append(out.Customers, name)
		}
	}
	sort.Strings(out.Customers)
	return out, nil
}
