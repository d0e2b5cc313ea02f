package statusboard

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/sycamoredash/statusboard/pkg/config"
)

// WeekMaster selects the master source instead of a weekly overlay.
const WeekMaster = "master"

var weekRe = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)

// ParseWeek splits a YYYY-Wnn identifier. The week number is accepted
// with one or two digits.
func ParseWeek(week string) (year, num int, err error) {
	m := weekRe.FindStringSubmatch(week)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, week)
	}
	year, _ = strconv.Atoi(m[1])
	num, _ = strconv.Atoi(m[2])
	return year, num, nil
}

// FormatWeek builds the zero-padded YYYY-Wnn identifier.
func FormatWeek(year, num int) string {
	return fmt.Sprintf("%04d-W%02d", year, num)
}

// PreviousWeek returns the identifier one week earlier, rolling W1
// back to W52 of the prior year. Malformed input yields "".
func PreviousWeek(week string) string {
	year, num, err := ParseWeek(week)
	if err != nil {
		return ""
	}
	if num == 1 {
		return FormatWeek(year-1, 52)
	}
	return FormatWeek(year, num-1)
}

// ResolveWeeklySource maps a week identifier to its configured source.
// Week N of a year resolves to the Nth entry of that year's ordered
// source list. "master", malformed identifiers, unconfigured years and
// out-of-range week numbers all resolve to nothing.
func ResolveWeeklySource(cfg *config.Config, week string) (string, bool) {
	if week == "" || week == WeekMaster {
		return "", false
	}
	year, num, err := ParseWeek(week)
	if err != nil {
		return "", false
	}
	sources := cfg.WeeklySources[year]
	if num < 1 || num > len(sources) {
		return "", false
	}
	src := sources[num-1]
	if src == "" {
		return "", false
	}
	return src, true
}

// CurrentWeek returns the identifier of the ISO week containing now.
func CurrentWeek(now time.Time) string {
	year, num := now.ISOWeek()
	return FormatWeek(year, num)
}

// WeekOption is one selectable week, labelled for display.
type WeekOption struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	IsCurrent bool   `json:"isCurrent"`
}

// AvailableWeeks lists every configured week in ascending order. The
// current, previous and upcoming weeks are always included and get
// special labels; other weeks are kept only when they end within the
// last three months.
func AvailableWeeks(cfg *config.Config, now time.Time) []WeekOption {
	threeMonthsAgo := now.AddDate(0, -3, 0)

	type candidate struct {
		value      string
		num        int
		start, end time.Time
	}
	var all []candidate

	years := make([]int, 0, len(cfg.WeeklySources))
	for year := range cfg.WeeklySources {
		years = append(years, year)
	}
	sort.Ints(years)

	for _, year := range years {
		for i := range cfg.WeeklySources[year] {
			num := i + 1
			start := isoWeekStart(year, num)
			all = append(all, candidate{
				value: FormatWeek(year, num),
				num:   num,
				start: start,
				end:   start.AddDate(0, 0, 6),
			})
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].start.Before(all[j].start) })

	nowStart := isoWeekStartOf(now)
	var out []WeekOption
	for _, c := range all {
		label := fmt.Sprintf("Week %d", c.num)
		isCurrent := false
		switch {
		case c.start.Equal(nowStart):
			label = "Current"
			isCurrent = true
		case c.start.Equal(nowStart.AddDate(0, 0, -7)):
			label = "Previous"
		case c.start.Equal(nowStart.AddDate(0, 0, 7)):
			label = "Upcoming"
		}

		special := label == "Current" || label == "Previous" || label == "Upcoming"
		if !special && !c.end.After(threeMonthsAgo) {
			continue
		}

		out = append(out, WeekOption{
			Value: c.value,
			Label: fmt.Sprintf("%s (%s - %s)", label,
				c.start.Format("Jan 2, 2006"), c.end.Format("Jan 2, 2006")),
			IsCurrent: isCurrent,
		})
	}
	return out
}

// isoWeekStart returns the Monday of ISO week num of year. January 4
// is always inside ISO week 1.
func isoWeekStart(year, num int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1 := mondayOf(jan4)
	return week1.AddDate(0, 0, (num-1)*7)
}

// isoWeekStartOf returns the Monday of the ISO week containing t.
func isoWeekStartOf(t time.Time) time.Time {
	return mondayOf(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
