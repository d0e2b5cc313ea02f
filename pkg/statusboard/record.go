// Package statusboard implements the spreadsheet-backed reconciliation
// engine behind the customer status dashboard: sheet parsing into a
// normalized per-customer record model, master/weekly merging, and
// key-matched write-back of edits.
package statusboard

import (
	"encoding/json"
	"sort"
	"strings"
)

// Relationship classifies which party owns an attribute row.
type Relationship int

const (
	RelationshipUnknown Relationship = iota
	RelationshipClient
	RelationshipSycamore
	RelationshipBoth
)

// Field-list names as they appear in sheet relationship columns, JSON
// payloads and edit payloads.
const (
	CategoryClient   = "Client"
	CategorySycamore = "Sycamore"
	CategoryBoth     = "Sycamore and Client"
)

// ClassifyRelationship maps free-text relationship-column content to a
// Relationship. It is intentionally tolerant: the sheets contain
// variants like "Sycamore/Client", "both", "Client Type".
func ClassifyRelationship(raw string) Relationship {
	n := strings.ToLower(raw)
	hasSycamore := strings.Contains(n, "sycamore")
	hasClient := strings.Contains(n, "client")
	switch {
	case hasSycamore && hasClient:
		return RelationshipBoth
	case hasSycamore:
		return RelationshipSycamore
	case hasClient:
		return RelationshipClient
	case strings.Contains(n, "both") || strings.Contains(n, "and"):
		return RelationshipBoth
	default:
		return RelationshipUnknown
	}
}

// Category returns the field-list name for a relationship. Unknown
// defaults to Client, matching how unlabelled rows are bucketed.
func (r Relationship) Category() string {
	switch r {
	case RelationshipSycamore:
		return CategorySycamore
	case RelationshipBoth:
		return CategoryBoth
	default:
		return CategoryClient
	}
}

// Field is one subcategory attribute of a customer.
type Field struct {
	Key   string
	Value string
}

// String renders the backing store's native "Key: Value" row form.
func (f Field) String() string {
	return f.Key + ": " + f.Value
}

// FieldList is an ordered sequence of fields. Keys are unique within a
// merged list; the parser may hold duplicates, which collapse
// first-match-wins at merge and write time.
type FieldList []Field

// index returns the position of the first field whose trimmed key
// equals key, or -1.
func (fl FieldList) index(key string) int {
	key = strings.TrimSpace(key)
	for i, f := range fl {
		if strings.TrimSpace(f.Key) == key {
			return i
		}
	}
	return -1
}

// Get returns the value of the first field matching key.
func (fl FieldList) Get(key string) (string, bool) {
	if i := fl.index(key); i >= 0 {
		return fl[i].Value, true
	}
	return "", false
}

// Has reports whether the list holds a field with the given key.
func (fl FieldList) Has(key string) bool {
	return fl.index(key) >= 0
}

// Set replaces the first field matching f.Key in place, or appends.
func (fl *FieldList) Set(f Field) {
	if i := fl.index(f.Key); i >= 0 {
		(*fl)[i] = f
		return
	}
	*fl = append(*fl, f)
}

// Strings renders the list in the colon-joined row form.
func (fl FieldList) Strings() []string {
	out := make([]string, len(fl))
	for i, f := range fl {
		out[i] = f.String()
	}
	return out
}

// ParseField splits a "Key: Value" string on the first colon. Text
// without a colon becomes a key with an empty value.
func ParseField(s string) Field {
	key, value, _ := strings.Cut(s, ":")
	return Field{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
}

// ParseFieldStrings converts colon-joined rows into a FieldList.
func ParseFieldStrings(items []string) FieldList {
	fl := make(FieldList, 0, len(items))
	for _, s := range items {
		fl = append(fl, ParseField(s))
	}
	return fl
}

// MarshalJSON serializes the list as an array of "Key: Value" strings,
// the form the UI and the backing store both speak.
func (fl FieldList) MarshalJSON() ([]byte, error) {
	return json.Marshal(fl.Strings())
}

// UnmarshalJSON accepts an array of "Key: Value" strings.
func (fl *FieldList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*fl = ParseFieldStrings(items)
	return nil
}

// CustomerRecord is one customer's reconciled attributes, grouped by
// relationship category.
type CustomerRecord struct {
	Client            FieldList `json:"Client"`
	Sycamore          FieldList `json:"Sycamore"`
	SycamoreAndClient FieldList `json:"Sycamore and Client"`
	LogoURL           string    `json:"_logoUrl"`
}

// NewCustomerRecord returns a record with all three lists empty.
func NewCustomerRecord() *CustomerRecord {
	return &CustomerRecord{
		Client:            FieldList{},
		Sycamore:          FieldList{},
		SycamoreAndClient: FieldList{},
	}
}

// List returns the field list for a category name, or nil when the
// name is not one of the three categories.
func (r *CustomerRecord) List(category string) *FieldList {
	switch category {
	case CategoryClient:
		return &r.Client
	case CategorySycamore:
		return &r.Sycamore
	case CategoryBoth:
		return &r.SycamoreAndClient
	default:
		return nil
	}
}

// Categories iterates the three field lists in a fixed order.
func (r *CustomerRecord) Categories() []struct {
	Name string
	List *FieldList
} {
	return []struct {
		Name string
		List *FieldList
	}{
		{CategoryClient, &r.Client},
		{CategorySycamore, &r.Sycamore},
		{CategoryBoth, &r.SycamoreAndClient},
	}
}

// Flatten collapses all three lists into one key → value map,
// first occurrence winning.
func (r *CustomerRecord) Flatten() map[string]string {
	flat := make(map[string]string)
	for _, cat := range r.Categories() {
		for _, f := range *cat.List {
			key := strings.TrimSpace(f.Key)
			if key == "" {
				continue
			}
			if _, ok := flat[key]; !ok {
				flat[key] = f.Value
			}
		}
	}
	return flat
}

// RecordSet maps customer name to record.
type RecordSet map[string]*CustomerRecord

// Customers lists customer names in sorted order. Names starting with
// an underscore are reserved for side-channel columns and are skipped.
func (rs RecordSet) Customers() []string {
	names := make([]string, 0, len(rs))
	for name := range rs {
		if strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
