package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
)

func rec(id, name, studentID, date string) *model.LogRecord {
	return &model.LogRecord{
		ID:                 model.LogRecordID(id),
		StudentName:        name,
		StudentID:          studentID,
		AssignmentTitle:    "Essay",
		Step:               types.StepIdea,
		Prompt:             "prompt " + id,
		CriticalReflection: "reflection " + id,
		LogDate:            model.LogDate(date),
	}
}

func ids(logs []*model.LogRecord) []model.LogRecordID {
	result := make([]model.LogRecordID, len(logs))
	for i, l := range logs {
		result[i] = l.ID
	}
	return result
}

func TestBuildTimeline(t *testing.T) {
	logs := []*model.LogRecord{
		rec("1", "Kim", "2023001", "2026-03-01"),
		rec("2", "Lee", "2023002", "2026-01-01"),
		rec("3", "Kim", "2023001", "2026-01-15"),
		rec("4", "kim", "2023001", "2026-01-10"),
		rec("5", "Kim", "2023001", "2026-02-10"),
	}

	t.Run("orders by log date ascending", func(t *testing.T) {
		tl := model.BuildTimeline(logs, model.Identity{Name: "Kim", ID: "2023001"})
		gt.Value(t, tl.State).Equal(model.TimelineSearched)
		gt.Value(t, ids(tl.Records)).Equal([]model.LogRecordID{"3", "5", "1"})
	})

	t.Run("match is case sensitive", func(t *testing.T) {
		tl := model.BuildTimeline(logs, model.Identity{Name: "kim", ID: "2023001"})
		gt.Value(t, ids(tl.Records)).Equal([]model.LogRecordID{"4"})
	})

	t.Run("same date keeps store order", func(t *testing.T) {
		sameDay := []*model.LogRecord{
			rec("b", "Kim", "1", "2026-01-01"),
			rec("a", "Kim", "1", "2026-01-01"),
			rec("c", "Kim", "1", "2025-12-31"),
		}
		tl := model.BuildTimeline(sameDay, model.Identity{Name: "Kim", ID: "1"})
		gt.Value(t, ids(tl.Records)).Equal([]model.LogRecordID{"c", "b", "a"})
	})

	t.Run("zero matches is searched and empty", func(t *testing.T) {
		tl := model.BuildTimeline(logs, model.Identity{Name: "Park", ID: "2023009"})
		gt.Value(t, tl.State).Equal(model.TimelineSearched)
		gt.Array(t, tl.Records).Length(0)
		gt.Bool(t, tl.IsEmpty()).True()
	})

	t.Run("incomplete identity is unsearched", func(t *testing.T) {
		for _, who := range []model.Identity{{}, {Name: "Kim"}, {ID: "2023001"}} {
			tl := model.BuildTimeline(logs, who)
			gt.Value(t, tl.State).Equal(model.TimelineUnsearched)
			gt.Array(t, tl.Records).Length(0)
			gt.Bool(t, tl.IsEmpty()).False()
		}
	})

	t.Run("does not reorder the input", func(t *testing.T) {
		_ = model.BuildTimeline(logs, model.Identity{Name: "Kim", ID: "2023001"})
		gt.Value(t, ids(logs)).Equal([]model.LogRecordID{"1", "2", "3", "4", "5"})
	})
}

func TestMonth(t *testing.T) {
	tests := []struct {
		name         string
		month        model.Month
		days         int
		firstWeekday time.Weekday
	}{
		{name: "leap february 2028", month: model.NewMonth(2028, time.February), days: 29, firstWeekday: time.Tuesday},
		{name: "february 2027", month: model.NewMonth(2027, time.February), days: 28, firstWeekday: time.Monday},
		{name: "century non leap 2100", month: model.NewMonth(2100, time.February), days: 28, firstWeekday: time.Monday},
		{name: "quad century leap 2000", month: model.NewMonth(2000, time.February), days: 29, firstWeekday: time.Tuesday},
		{name: "may 2026", month: model.NewMonth(2026, time.May), days: 31, firstWeekday: time.Friday},
		{name: "april 2026", month: model.NewMonth(2026, time.April), days: 30, firstWeekday: time.Wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.month.Days()).Equal(tt.days)
			gt.Value(t, tt.month.FirstWeekday()).Equal(tt.firstWeekday)
		})
	}
}

func TestMonthNavigation(t *testing.T) {
	dec := model.NewMonth(2026, time.December)
	gt.Value(t, dec.Next()).Equal(model.Month{Year: 2027, Month: time.January})
	gt.Value(t, dec.Next().Prev()).Equal(dec)

	jan := model.NewMonth(2026, time.January)
	gt.Value(t, jan.Prev()).Equal(model.Month{Year: 2025, Month: time.December})

	gt.Value(t, model.NewMonth(2026, 13)).Equal(model.Month{Year: 2027, Month: time.January})
}

func TestParseMonth(t *testing.T) {
	m, err := model.ParseMonth("2026-05")
	gt.NoError(t, err)
	gt.Value(t, m).Equal(model.Month{Year: 2026, Month: time.May})
	gt.Value(t, m.String()).Equal("2026-05")

	_, err = model.ParseMonth("2026-13")
	gt.Error(t, err).Is(model.ErrInvalidMonth)

	_, err = model.ParseMonth("May 2026")
	gt.Error(t, err).Is(model.ErrInvalidMonth)
}

func TestBuildCalendar(t *testing.T) {
	logs := []*model.LogRecord{
		rec("1", "Kim", "1", "2026-05-10"),
		rec("2", "Lee", "2", "2026-05-01"),
		rec("3", "Park", "3", "2026-05-10"),
		rec("4", "Kim", "1", "2026-06-10"),
		rec("5", "Kim", "1", "2026-05-31"),
	}

	cal := model.BuildCalendar(logs, model.NewMonth(2026, time.May))
	gt.Array(t, cal.Days).Length(31)
	gt.Value(t, cal.Total()).Equal(4)

	day10, err := cal.Day(10)
	gt.NoError(t, err).Required()
	gt.Value(t, day10.Date).Equal(model.LogDate("2026-05-10"))
	gt.Value(t, day10.Count()).Equal(2)
	gt.Value(t, ids(day10.Records)).Equal([]model.LogRecordID{"1", "3"})

	day1, err := cal.Day(1)
	gt.NoError(t, err).Required()
	gt.Value(t, day1.Count()).Equal(1)

	day2, err := cal.Day(2)
	gt.NoError(t, err).Required()
	gt.Value(t, day2.Count()).Equal(0)

	_, err = cal.Day(0)
	gt.Error(t, err).Is(model.ErrDayOutOfRange)
	_, err = cal.Day(32)
	gt.Error(t, err).Is(model.ErrDayOutOfRange)
}

func TestBuildCalendarLeapDay(t *testing.T) {
	logs := []*model.LogRecord{rec("1", "Kim", "1", "2028-02-29")}

	cal := model.BuildCalendar(logs, model.NewMonth(2028, time.February))
	gt.Array(t, cal.Days).Length(29)
	day, err := cal.Day(29)
	gt.NoError(t, err).Required()
	gt.Value(t, day.Count()).Equal(1)

	gt.Array(t, model.BuildCalendar(logs, model.NewMonth(2027, time.February)).Days).Length(28)
}

func TestGroupByStudent(t *testing.T) {
	logs := []*model.LogRecord{
		rec("a1", "A", "1", "2026-01-01"),
		rec("b1", "B", "2", "2026-01-02"),
		rec("a2", "A", "1", "2026-01-03"),
	}

	groups := model.GroupByStudent(logs)
	gt.Array(t, groups).Length(2)
	gt.Value(t, groups[0].Label()).Equal("A (1)")
	gt.Value(t, ids(groups[0].Records)).Equal([]model.LogRecordID{"a1", "a2"})
	gt.Value(t, groups[1].Label()).Equal("B (2)")
	gt.Value(t, ids(groups[1].Records)).Equal([]model.LogRecordID{"b1"})
}

func TestGroupByStudentSameNameDifferentID(t *testing.T) {
	logs := []*model.LogRecord{
		rec("1", "Kim", "2023001", "2026-01-01"),
		rec("2", "Kim", "2023002", "2026-01-01"),
	}

	groups := model.GroupByStudent(logs)
	gt.Array(t, groups).Length(2)
}

func TestBuildDashboard(t *testing.T) {
	empty := model.BuildDashboard(nil)
	gt.Value(t, empty.Total).Equal(0)
	gt.Array(t, empty.Groups).Length(0)

	d := model.BuildDashboard([]*model.LogRecord{
		rec("1", "A", "1", "2026-01-01"),
		rec("2", "B", "2", "2026-01-01"),
		rec("3", "A", "1", "2026-01-01"),
	})
	gt.Value(t, d.Total).Equal(3)
	gt.Array(t, d.Groups).Length(2)
}
