package statusboard

// weeklyOnlyKeys always route to the weekly destination, even when the
// master set holds the same key. These are per-week observations that
// must never overwrite the master baseline.
var weeklyOnlyKeys = map[string]struct{}{
	"Customer Sentiment Score":       {},
	"Customer Sentiment Description": {},
}

// SplitEdits routes an edit payload between the weekly and master
// destinations. A key on the weekly-only allow-list always goes
// weekly; otherwise a key goes to master when the same category of the
// master record already holds it, and weekly when it does not.
func SplitEdits(edits Edits, master *CustomerRecord) (weekly, masterOut Edits) {
	weekly = make(Edits)
	masterOut = make(Edits)

	for _, category := range []string{CategoryClient, CategorySycamore, CategoryBoth} {
		for _, f := range edits[category] {
			dest := weekly
			if _, always := weeklyOnlyKeys[f.Key]; !always && master != nil {
				if list := master.List(category); list != nil && list.Has(f.Key) {
					dest = masterOut
				}
			}
			dest[category] = append(dest[category], f)
		}
	}
	return weekly, masterOut
}
