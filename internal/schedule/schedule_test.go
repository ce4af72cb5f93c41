package schedule_test

import (
	"testing"
	"time"

	"github.com/essenciabjj/trial/internal/schedule"
)

func TestBookableClasses_Order(t *testing.T) {
	got := schedule.Default().BookableClasses()
	if len(got) != 11 {
		t.Fatalf("expected 11 bookable classes, got %d", len(got))
	}

	first := got[0]
	if first.Day != schedule.Monday || first.TimeRange != "6:00 PM to 6:50 PM" || first.ClassName != "KIDS GI 10 - 15" {
		t.Errorf("unexpected first class: %+v", first)
	}
	last := got[len(got)-1]
	if last.Day != schedule.Saturday || last.ClassName != "KIDS NO GI 6 - 15" {
		t.Errorf("unexpected last class: %+v", last)
	}

	// days never go backwards in the week
	pos := map[schedule.Weekday]int{}
	for i, d := range schedule.Week {
		pos[d] = i
	}
	for i := 1; i < len(got); i++ {
		if pos[got[i].Day] < pos[got[i-1].Day] {
			t.Errorf("class %d (%s) listed after %s", i, got[i].Day, got[i-1].Day)
		}
	}
}

func TestBookableClasses_SkipsClosedDays(t *testing.T) {
	for _, c := range schedule.Default().BookableClasses() {
		if c.Day == schedule.Friday || c.Day == schedule.Sunday {
			t.Errorf("closed day listed as bookable: %+v", c)
		}
		if c.ClassName == "CLOSED" {
			t.Errorf("unavailable slot listed: %+v", c)
		}
	}
}

func TestNewTable_CopiesInput(t *testing.T) {
	slots := map[schedule.Weekday][]schedule.Slot{
		schedule.Monday: {{TimeRange: "6:00 PM to 6:50 PM", ClassName: "A", Available: true}},
	}
	tbl := schedule.NewTable(slots)
	slots[schedule.Monday][0].ClassName = "changed"

	if got := tbl.Slots(schedule.Monday)[0].ClassName; got != "A" {
		t.Errorf("table mutated through caller's map: %q", got)
	}
	tbl.Slots(schedule.Monday)[0].ClassName = "changed"
	if got := tbl.Slots(schedule.Monday)[0].ClassName; got != "A" {
		t.Errorf("table mutated through Slots result: %q", got)
	}
}

func TestLookup(t *testing.T) {
	tbl := schedule.Default()
	if _, ok := tbl.Lookup(schedule.Tuesday, "5:00 PM to 5:45 PM"); !ok {
		t.Error("expected Tuesday 5pm class")
	}
	if _, ok := tbl.Lookup(schedule.Friday, "All Day"); ok {
		t.Error("closed slot must not be bookable")
	}
	if _, ok := tbl.Lookup("Funday", "5:00 PM to 5:45 PM"); ok {
		t.Error("unknown day must not resolve")
	}
}

func TestNextOccurrences_TuesdayScenario(t *testing.T) {
	now := time.Date(2024, time.June, 3, 10, 30, 0, 0, time.Local) // a Monday
	got := schedule.NextOccurrences(now, schedule.Tuesday, "5:00 PM to 5:45 PM")

	if len(got) != schedule.Occurrences {
		t.Fatalf("expected %d candidates, got %d", schedule.Occurrences, len(got))
	}
	if l := got[0].Label(); l != "04/06 (5pm-5:45pm)" {
		t.Errorf("first candidate: want 04/06 (5pm-5:45pm), got %q", l)
	}
	want := time.Date(2024, time.June, 4, 0, 0, 0, 0, time.Local).AddDate(0, 0, 14*7)
	if !got[14].Date.Equal(want) {
		t.Errorf("15th candidate: want %s, got %s", want.Format("2006-01-02"), got[14].Date.Format("2006-01-02"))
	}
	if l := got[14].Label(); l != "10/09 (5pm-5:45pm)" {
		t.Errorf("15th label: got %q", l)
	}
}

// Every weekday, from every starting weekday: 15 dates, right weekday,
// strictly increasing, no duplicates.
func TestNextOccurrences_AllWeekdays(t *testing.T) {
	start := time.Date(2024, time.June, 3, 23, 59, 0, 0, time.Local)
	for offset := 0; offset < 7; offset++ {
		now := start.AddDate(0, 0, offset)
		for _, day := range schedule.Week {
			want, _ := day.CalendarDay()
			got := schedule.NextOccurrences(now, day, "7:00 PM to 8:30 PM")
			if len(got) != schedule.Occurrences {
				t.Fatalf("%s from %s: %d candidates", day, now.Format("Mon"), len(got))
			}
			seen := map[string]bool{}
			for i, c := range got {
				if c.Date.Weekday() != want {
					t.Errorf("%s from %s: candidate %d is a %s", day, now.Format("Mon"), i, c.Date.Weekday())
				}
				if i > 0 && !c.Date.After(got[i-1].Date) {
					t.Errorf("%s: candidate %d not after previous", day, i)
				}
				if seen[c.Label()] {
					t.Errorf("%s: duplicate candidate %q", day, c.Label())
				}
				seen[c.Label()] = true
			}
			if got[0].Date.Sub(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)) >= 7*24*time.Hour {
				t.Errorf("%s from %s: first candidate more than a week away", day, now.Format("Mon"))
			}
		}
	}
}

func TestNextOccurrences_IncludesToday(t *testing.T) {
	now := time.Date(2024, time.June, 8, 8, 0, 0, 0, time.Local) // a Saturday
	got := schedule.NextOccurrences(now, schedule.Saturday, "9:00 AM to 9:50 AM")
	if got[0].Label() != "08/06 (9am-9:50am)" {
		t.Errorf("expected today first, got %q", got[0].Label())
	}
}

func TestNextOccurrences_Deterministic(t *testing.T) {
	now := time.Date(2024, time.December, 20, 12, 0, 0, 0, time.Local)
	a := schedule.NextOccurrences(now, schedule.Wednesday, "6:00 PM to 6:50 PM")
	b := schedule.NextOccurrences(now, schedule.Wednesday, "6:00 PM to 6:50 PM")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candidate %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	// crosses the year boundary
	if a[2].Label() != "08/01 (6pm-6:50pm)" {
		t.Errorf("unexpected third candidate %q", a[2].Label())
	}
}

func TestNextOccurrences_UnknownWeekday(t *testing.T) {
	if got := schedule.NextOccurrences(time.Now(), "Funday", "5:00 PM to 5:45 PM"); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestTimeLabel(t *testing.T) {
	cases := map[string]string{
		"5:00 PM to 5:45 PM":   "5pm-5:45pm",
		"6:00 PM to 6:50 PM":   "6pm-6:50pm",
		"7:00 PM to 8:30 PM":   "7pm-8:30pm",
		"9:00 AM to 9:50 AM":   "9am-9:50am",
		"10:00 AM to 11:00 AM": "10:00 AM to 11:00 AM",
		"All Day":              "All Day",
	}
	for in, want := range cases {
		if got := schedule.TimeLabel(in); got != want {
			t.Errorf("TimeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := schedule.ParseTimeRange("7:00 PM to 8:30 PM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if start != 19*time.Hour || end != 20*time.Hour+30*time.Minute {
		t.Errorf("got %s-%s", start, end)
	}

	for _, bad := range []string{"All Day", "7:00 PM - 8:30 PM", "8:30 PM to 7:00 PM"} {
		if _, _, err := schedule.ParseTimeRange(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
