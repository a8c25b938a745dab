package model

import "github.com/m-mizutani/goerr/v2"

// Log record errors
var (
	ErrInvalidLogDate = goerr.New("invalid log date")
	ErrInvalidDraft   = goerr.New("invalid log draft")
	ErrInvalidMonth   = goerr.New("invalid month")
	ErrDayOutOfRange  = goerr.New("day is out of range")
)

// Context keys for error values
const (
	LogDateKey = "log_date"
	FieldsKey  = "fields"
	MonthKey   = "month"
	DayKey     = "day"
)
