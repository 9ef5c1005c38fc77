package streak

import (
	"sort"
	"time"
)

// timestamp layouts accepted from the backend. Rows normally arrive as
// RFC 3339 but older rows may lack a zone or carry only a date.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Calculate returns the number of consecutive calendar days, ending today or
// yesterday, on which at least one of the given timestamps falls. Day
// boundaries use the ambient local timezone. The input may be empty,
// unsorted, and may contain several entries for the same day.
func Calculate(dates []string) int {
	return At(dates, time.Now())
}

// At is Calculate with an explicit "now", in whose location day boundaries
// are computed. Malformed timestamps are skipped.
func At(dates []string, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	loc := now.Location()

	// Collapse to distinct local calendar days.
	uniq := make(map[time.Time]struct{}, len(dates))
	for _, raw := range dates {
		t, ok := parse(raw, loc)
		if !ok {
			continue
		}
		uniq[midnight(t, loc)] = struct{}{}
	}
	if len(uniq) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := midnight(now, loc)
	yesterday := today.AddDate(0, 0, -1)

	// The streak is broken if the user logged neither today nor yesterday.
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	// An entry yesterday keeps the streak alive until the next midnight
	// passes, so counting starts at yesterday in that case.
	cursor := today
	if days[0].Equal(yesterday) {
		cursor = yesterday
	}

	count := 0
	for _, day := range days {
		if !day.Equal(cursor) {
			break
		}
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return count
}

// parse interprets zoneless layouts in loc. A zoneless datetime came from a
// clock in the user's timezone; reading it as UTC could shift the entry
// across a day boundary.
func parse(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
