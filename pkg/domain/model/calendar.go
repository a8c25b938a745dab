package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const monthLayout = "2006-01"

// Month is a displayed calendar month. It is view state only and is never
// persisted.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns a normalized month; out of range months roll over to the
// neighbouring year the same way time.Date does.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, goerr.Wrap(ErrInvalidMonth, "failed to parse month", goerr.V(MonthKey, s))
	}
	return MonthOf(t), nil
}

func (x Month) String() string {
	return fmt.Sprintf("%04d-%02d", x.Year, int(x.Month))
}

func (x Month) first() time.Time {
	return time.Date(x.Year, x.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in the month (proleptic Gregorian)
func (x Month) Days() int {
	// day 0 of the next month is the last day of this one
	return time.Date(x.Year, x.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of day 1; the grid's leading blank cells
func (x Month) FirstWeekday() time.Weekday {
	return x.first().Weekday()
}

// Next returns the following month
func (x Month) Next() Month {
	return NewMonth(x.Year, x.Month+1)
}

// Prev returns the preceding month
func (x Month) Prev() Month {
	return NewMonth(x.Year, x.Month-1)
}

// Date returns the LogDate of day in the month
func (x Month) Date(day int) LogDate {
	return NewLogDate(time.Date(x.Year, x.Month, day, 0, 0, 0, 0, time.UTC))
}

// CalendarDay is the bucket of one calendar day
type CalendarDay struct {
	Day     int
	Date    LogDate
	Records []*LogRecord
}

// Count is the number of records logged on the day
func (x *CalendarDay) Count() int {
	return len(x.Records)
}

// Calendar buckets records of one month by exact LogDate
type Calendar struct {
	Month Month
	Days  []*CalendarDay
}

// Day returns the bucket of day (1-based)
func (x *Calendar) Day(day int) (*CalendarDay, error) {
	if day < 1 || day > len(x.Days) {
		return nil, goerr.Wrap(ErrDayOutOfRange, "no such day in month",
			goerr.V(MonthKey, x.Month.String()),
			goerr.V(DayKey, day))
	}
	return x.Days[day-1], nil
}

// Total is the number of records in the month
func (x *Calendar) Total() int {
	total := 0
	for _, d := range x.Days {
		total += d.Count()
	}
	return total
}

// BuildCalendar buckets logs into the days of month. Records inside a bucket
// keep their order in logs.
func BuildCalendar(logs []*LogRecord, month Month) *Calendar {
	n := month.Days()
	cal := &Calendar{
		Month: month,
		Days:  make([]*CalendarDay, n),
	}

	index := make(map[LogDate]*CalendarDay, n)
	for i := 0; i < n; i++ {
		day := &CalendarDay{
			Day:     i + 1,
			Date:    month.Date(i + 1),
			Records: []*LogRecord{},
		}
		cal.Days[i] = day
		index[day.Date] = day
	}

	for _, l := range logs {
		if day, ok := index[l.LogDate]; ok {
			day.Records = append(day.Records, l)
		}
	}

	return cal
}
