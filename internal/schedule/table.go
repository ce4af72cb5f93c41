package schedule

import "time"

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the days in the order the academy publishes them (Monday first).
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// time.Weekday numbers Sunday as 0; keep the mapping explicit.
var calendarDay = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// CalendarDay returns the time.Weekday for d, false for unknown names.
func (d Weekday) CalendarDay() (time.Weekday, bool) {
	wd, ok := calendarDay[d]
	return wd, ok
}

func (d Weekday) Valid() bool {
	_, ok := calendarDay[d]
	return ok
}

// Slot is one published class time on a weekday.
type Slot struct {
	TimeRange string
	ClassName string
	Available bool
}

// ClassOption is a bookable slot together with its day.
type ClassOption struct {
	Day       Weekday
	TimeRange string
	ClassName string
}

// Table is the weekly timetable. It is built once and never mutated.
type Table struct {
	days map[Weekday][]Slot
}

// NewTable copies slots so later changes to the argument do not leak in.
func NewTable(slots map[Weekday][]Slot) *Table {
	t := &Table{days: make(map[Weekday][]Slot, len(slots))}
	for day, ss := range slots {
		if !day.Valid() {
			continue
		}
		t.days[day] = append([]Slot(nil), ss...)
	}
	return t
}

// Default is the academy's published timetable.
func Default() *Table {
	return NewTable(map[Weekday][]Slot{
		Monday: {
			{TimeRange: "6:00 PM to 6:50 PM", ClassName: "KIDS GI 10 - 15", Available: true},
			{TimeRange: "7:00 PM to 8:30 PM", ClassName: "ADULT GI", Available: true},
		},
		Tuesday: {
			{TimeRange: "5:00 PM to 5:45 PM", ClassName: "KIDS GI 3 - 5", Available: true},
			{TimeRange: "6:00 PM to 6:50 PM", ClassName: "KIDS GI 6 - 9", Available: true},
			{TimeRange: "7:00 PM to 8:30 PM", ClassName: "ADULT GI", Available: true},
		},
		Wednesday: {
			{TimeRange: "6:00 PM to 6:50 PM", ClassName: "KIDS GI 10 - 15", Available: true},
			{TimeRange: "7:00 PM to 8:30 PM", ClassName: "ADULT NO GI", Available: true},
		},
		Thursday: {
			{TimeRange: "5:00 PM to 5:45 PM", ClassName: "KIDS GI 3 - 5", Available: true},
			{TimeRange: "6:00 PM to 6:50 PM", ClassName: "KIDS GI 6 - 9", Available: true},
			{TimeRange: "7:00 PM to 8:30 PM", ClassName: "ADULT GI", Available: true},
		},
		Friday: {
			{TimeRange: "All Day", ClassName: "CLOSED", Available: false},
		},
		Saturday: {
			{TimeRange: "9:00 AM to 9:50 AM", ClassName: "KIDS NO GI 6 - 15", Available: true},
		},
		Sunday: {
			{TimeRange: "All Day", ClassName: "CLOSED", Available: false},
		},
	})
}

// Slots returns a copy of the slots published for day.
func (t *Table) Slots(day Weekday) []Slot {
	return append([]Slot(nil), t.days[day]...)
}

// BookableClasses lists available slots in week order, then declaration order.
// It is recomputed on every call.
func (t *Table) BookableClasses() []ClassOption {
	var out []ClassOption
	for _, day := range Week {
		for _, s := range t.days[day] {
			if !s.Available {
				continue
			}
			out = append(out, ClassOption{Day: day, TimeRange: s.TimeRange, ClassName: s.ClassName})
		}
	}
	return out
}

// Lookup finds the bookable option for day and time range.
func (t *Table) Lookup(day Weekday, timeRange string) (ClassOption, bool) {
	for _, s := range t.days[day] {
		if s.Available && s.TimeRange == timeRange {
			return ClassOption{Day: day, TimeRange: s.TimeRange, ClassName: s.ClassName}, true
		}
	}
	return ClassOption{}, false
}
