package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Occurrences is how many upcoming dates are offered for a class.
const Occurrences = 15

var ErrTimeRange = errors.New("unrecognised time range")

// short labels shown next to a date; unknown ranges are shown verbatim
var timeLabels = map[string]string{
	"5:00 PM to 5:45 PM": "5pm-5:45pm",
	"6:00 PM to 6:50 PM": "6pm-6:50pm",
	"7:00 PM to 8:30 PM": "7pm-8:30pm",
	"9:00 AM to 9:50 AM": "9am-9:50am",
}

// DateCandidate is one concrete date a class can be attended on.
type DateCandidate struct {
	Date        time.Time // local midnight
	DisplayDate string    // dd/mm
	DisplayTime string
}

// Label is the value a user picks, e.g. "04/06 (5pm-5:45pm)".
func (c DateCandidate) Label() string {
	return fmt.Sprintf("%s (%s)", c.DisplayDate, c.DisplayTime)
}

// TimeLabel abbreviates a published time range.
func TimeLabel(timeRange string) string {
	if l, ok := timeLabels[timeRange]; ok {
		return l
	}
	return timeRange
}

// day/month, as the academy's Brazilian audience reads dates
func displayDate(d time.Time) string {
	return d.Format("02/01")
}

// NextOccurrences returns the next 15 dates falling on day, starting with
// the calendar day of now. Unknown weekdays yield nil.
func NextOccurrences(now time.Time, day Weekday, timeRange string) []DateCandidate {
	want, ok := day.CalendarDay()
	if !ok {
		return nil
	}
	label := TimeLabel(timeRange)

	cur := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]DateCandidate, 0, Occurrences)
	for len(out) < Occurrences {
		if cur.Weekday() == want {
			out = append(out, DateCandidate{
				Date:        cur,
				DisplayDate: displayDate(cur),
				DisplayTime: label,
			})
		}
		// AddDate keeps midnight across DST changes, Add(24h) would not
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}

// ParseTimeRange splits "5:00 PM to 5:45 PM" into offsets from midnight.
func ParseTimeRange(timeRange string) (start, end time.Duration, err error) {
	from, to, ok := strings.Cut(timeRange, " to ")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrTimeRange, timeRange)
	}
	s, err := time.Parse("3:04 PM", strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrTimeRange, timeRange)
	}
	e, err := time.Parse("3:04 PM", strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrTimeRange, timeRange)
	}
	start = time.Duration(s.Hour())*time.Hour + time.Duration(s.Minute())*time.Minute
	end = time.Duration(e.Hour())*time.Hour + time.Duration(e.Minute())*time.Minute
	if end <= start {
		return 0, 0, fmt.Errorf("%w: %q ends before it starts", ErrTimeRange, timeRange)
	}
	return start, end, nil
}
