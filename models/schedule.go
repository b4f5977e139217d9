package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.uber.org/multierr"
)

// Weekday is one of the seven fixed keys of a doctor's weekly schedule
type Weekday int

// Weekdays in schedule order
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of Weekday variants
const DaysPerWeek = 7

var weekdayNames = [DaysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Weekdays returns all weekdays in schedule order
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday resolves a day name, ignoring case
func ParseWeekday(name string) (Weekday, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, w := range weekdayNames {
		if w == n {
			return Weekday(i), true
		}
	}
	return 0, false
}

// WeekdayOf maps a calendar date to its schedule key
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts the week on Sunday
	return Weekday((int(t.Weekday()) + 6) % DaysPerWeek)
}

// timeOfDay matches 24-hour HH:MM
var timeOfDay = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is a 24-hour HH:MM string
func ValidTimeOfDay(s string) bool {
	return timeOfDay.MatchString(s)
}

// TimeSlot is a bookable window within a day
type TimeSlot struct {
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

// DefaultSlot is used for any day configured without slots
func DefaultSlot() TimeSlot {
	return TimeSlot{StartTime: "09:00", EndTime: "17:00"}
}

// Contains reports whether the HH:MM time falls inside the slot, end exclusive
func (s TimeSlot) Contains(hhmm string) bool {
	return hhmm >= s.StartTime && hhmm < s.EndTime
}

// DaySchedule is the availability of one weekday
type DaySchedule struct {
	Enabled bool       `json:"enabled" bson:"enabled"`
	Slots   []TimeSlot `json:"slots" bson:"slots"`
}

// WeeklySchedule holds exactly one DaySchedule per Weekday. It is stored as a
// map keyed by day name and refuses any other key.
type WeeklySchedule [DaysPerWeek]DaySchedule

// Day returns the schedule for d
func (w WeeklySchedule) Day(d Weekday) DaySchedule {
	return w[d]
}

// Covers reports whether an appointment at date/hhmm lands in an enabled slot
func (w WeeklySchedule) Covers(date time.Time, hhmm string) bool {
	day := w[WeekdayOf(date)]
	if !day.Enabled {
		return false
	}
	for _, s := range day.Slots {
		if s.Contains(hhmm) {
			return true
		}
	}
	return false
}

// SlotFormatError describes one slot whose times are not HH:MM
type SlotFormatError struct {
	Day       Weekday
	Index     int
	StartTime string
	EndTime   string
}

func (e *SlotFormatError) Error() string {
	return fmt.Sprintf("%s slot %d has invalid time format (startTime %q, endTime %q)", e.Day, e.Index, e.StartTime, e.EndTime)
}

// Validate checks every slot of every day and returns all failures combined
func (w WeeklySchedule) Validate() error {
	var err error
	for _, d := range Weekdays() {
		for i, s := range w[d].Slots {
			if !ValidTimeOfDay(s.StartTime) || !ValidTimeOfDay(s.EndTime) {
				err = multierr.Append(err, &SlotFormatError{Day: d, Index: i, StartTime: s.StartTime, EndTime: s.EndTime})
			}
		}
	}
	return err
}

func (w WeeklySchedule) ordered() bson.D {
	d := make(bson.D, 0, DaysPerWeek)
	for _, day := range Weekdays() {
		d = append(d, bson.E{Key: day.String(), Value: w[day]})
	}
	return d
}

func (w *WeeklySchedule) fromMap(m map[string]DaySchedule) error {
	var out WeeklySchedule
	for name, day := range m {
		wd, ok := ParseWeekday(name)
		if !ok {
			return fmt.Errorf("unknown weekday %q in schedule", name)
		}
		out[wd] = day
	}
	*w = out
	return nil
}

// MarshalBSONValue stores the schedule as a day-name keyed document
func (w WeeklySchedule) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(w.ordered())
}

// UnmarshalBSONValue reads a day-name keyed document
func (w *WeeklySchedule) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		*w = WeeklySchedule{}
		return nil
	}
	m := map[string]DaySchedule{}
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&m); err != nil {
		return err
	}
	return w.fromMap(m)
}

// MarshalJSON renders the schedule as a day-name keyed object
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	m := make(map[string]DaySchedule, DaysPerWeek)
	for _, day := range Weekdays() {
		m[day.String()] = w[day]
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a day-name keyed object
func (w *WeeklySchedule) UnmarshalJSON(b []byte) error {
	m := map[string]DaySchedule{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	return w.fromMap(m)
}
