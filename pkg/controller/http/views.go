package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/secmon-lab/logiclog/pkg/utils/errutil"
)

func timelineHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		State       model.TimelineState `json:"state"`
		StudentName string              `json:"studentName"`
		StudentID   string              `json:"studentId"`
		Records     []*model.LogRecord  `json:"records"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		who := model.Identity{
			Name: r.URL.Query().Get("name"),
			ID:   r.URL.Query().Get("id"),
		}

		tl := uc.View.Timeline(r.Context(), who)
		resp := response{
			State:       tl.State,
			StudentName: who.Name,
			StudentID:   who.ID,
			Records:     tl.Records,
		}
		if resp.Records == nil {
			resp.Records = []*model.LogRecord{}
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

type calendarDayResponse struct {
	Day   int           `json:"day"`
	Date  model.LogDate `json:"date"`
	Count int           `json:"count"`
}

type calendarSelectionResponse struct {
	Day     int                `json:"day"`
	Date    model.LogDate      `json:"date"`
	Records []*model.LogRecord `json:"records"`
}

type calendarResponse struct {
	Month        string                     `json:"month"`
	Prev         string                     `json:"prev"`
	Next         string                     `json:"next"`
	FirstWeekday time.Weekday               `json:"firstWeekday"`
	Total        int                        `json:"total"`
	Days         []calendarDayResponse      `json:"days"`
	Selected     *calendarSelectionResponse `json:"selected,omitempty"`
}

func calendarHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := uc.View.CurrentMonth()
		if v := r.URL.Query().Get("month"); v != "" {
			parsed, err := model.ParseMonth(v)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			month = parsed
		}

		cal := uc.View.Calendar(r.Context(), month)
		resp := calendarResponse{
			Month:        month.String(),
			Prev:         month.Prev().String(),
			Next:         month.Next().String(),
			FirstWeekday: month.FirstWeekday(),
			Total:        cal.Total(),
			Days:         make([]calendarDayResponse, len(cal.Days)),
		}
		for i, d := range cal.Days {
			resp.Days[i] = calendarDayResponse{Day: d.Day, Date: d.Date, Count: d.Count()}
		}

		if v := r.URL.Query().Get("day"); v != "" {
			day, err := strconv.Atoi(v)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "day must be a number"), http.StatusBadRequest)
				return
			}
			selected, err := cal.Day(day)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			resp.Selected = &calendarSelectionResponse{
				Day:     selected.Day,
				Date:    selected.Date,
				Records: selected.Records,
			}
			if resp.Selected.Records == nil {
				resp.Selected.Records = []*model.LogRecord{}
			}
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func dashboardHandler(uc *usecase.UseCases) http.HandlerFunc {
	type groupResponse struct {
		Label       string             `json:"label"`
		StudentName string             `json:"studentName"`
		StudentID   string             `json:"studentId"`
		Records     []*model.LogRecord `json:"records"`
	}
	type response struct {
		Total  int             `json:"total"`
		Groups []groupResponse `json:"groups"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		d := uc.View.Dashboard(r.Context())
		resp := response{
			Total:  d.Total,
			Groups: make([]groupResponse, len(d.Groups)),
		}
		for i, g := range d.Groups {
			resp.Groups[i] = groupResponse{
				Label:       g.Label(),
				StudentName: g.Identity.Name,
				StudentID:   g.Identity.ID,
				Records:     g.Records,
			}
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}
