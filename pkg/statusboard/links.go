package statusboard

import (
	"regexp"
	"strings"
)

// linkMarkerRe recognizes the "[LINK: url]" marker the parser embeds
// in document field values.
var linkMarkerRe = regexp.MustCompile(`(?i)\[LINK:\s*(https?://[^\]]+)\]`)

// DocumentURLs scans every field value of the given records for an
// embedded link marker or a bare URL and returns subcategory → URL.
// Records are scanned in order; a later record's URL wins for a
// repeated subcategory.
func DocumentURLs(records ...*CustomerRecord) map[string]string {
	urls := make(map[string]string)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, cat := range rec.Categories() {
			for _, f := range *cat.List {
				value := strings.TrimSpace(f.Value)
				var url string
				if m := linkMarkerRe.FindStringSubmatch(value); m != nil {
					url = m[1]
				} else if strings.HasPrefix(value, "http") {
					url = value
				}
				if url == "" {
					continue
				}
				urls[strings.TrimSpace(f.Key)] = url
			}
		}
	}
	return urls
}
