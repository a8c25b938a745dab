package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
)

// LogDraft is the input of a new log entry: a LogRecord without id and
// creation time.
type LogDraft struct {
	StudentName        string     `json:"studentName" validate:"required"`
	StudentID          string     `json:"studentId" validate:"required"`
	AssignmentTitle    string     `json:"assignmentTitle" validate:"required"`
	Step               types.Step `json:"step" validate:"required,step"`
	AITool             string     `json:"aiTool"`
	Prompt             string     `json:"prompt" validate:"required"`
	CriticalReflection string     `json:"criticalReflection" validate:"required"`
	LogDate            LogDate    `json:"logDate" validate:"required,logdate"`
}

// NewLogDraft returns a draft with form defaults: the first step and the
// calendar day of now.
func NewLogDraft(now time.Time) *LogDraft {
	return &LogDraft{
		Step:    types.StepIdea,
		LogDate: NewLogDate(now),
	}
}

var (
	draftValidator     *validator.Validate
	draftValidatorOnce sync.Once
)

func getDraftValidator() *validator.Validate {
	draftValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("step", func(fl validator.FieldLevel) bool {
			return types.Step(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("logdate", func(fl validator.FieldLevel) bool {
			return LogDate(fl.Field().String()).Validate() == nil
		})
		draftValidator = v
	})
	return draftValidator
}

// Validate checks all required fields are set and well formed. The returned
// error carries the offending field names.
func (x *LogDraft) Validate() error {
	if fields := x.MissingFields(); len(fields) > 0 {
		return goerr.Wrap(ErrInvalidDraft, "log draft is incomplete", goerr.V(FieldsKey, fields))
	}
	return nil
}

// CanSubmit is the boolean gate of the input form
func (x *LogDraft) CanSubmit() bool {
	return len(x.MissingFields()) == 0
}

// MissingFields returns json names of fields that are empty or malformed
func (x *LogDraft) MissingFields() []string {
	var fieldErrs validator.ValidationErrors
	if err := getDraftValidator().Struct(x); !errors.As(err, &fieldErrs) {
		return nil
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// ToRecord builds the record to be stored
func (x *LogDraft) ToRecord(id LogRecordID, createdAt time.Time) *LogRecord {
	return &LogRecord{
		ID:                 id,
		StudentName:        x.StudentName,
		StudentID:          x.StudentID,
		AssignmentTitle:    x.AssignmentTitle,
		Step:               x.Step,
		AITool:             x.AITool,
		Prompt:             x.Prompt,
		CriticalReflection: x.CriticalReflection,
		LogDate:            x.LogDate,
		CreatedAt:          createdAt,
	}
}

// DraftOf returns the form input a record was created from
func DraftOf(x *LogRecord) *LogDraft {
	return &LogDraft{
		StudentName:        x.StudentName,
		StudentID:          x.StudentID,
		AssignmentTitle:    x.AssignmentTitle,
		Step:               x.Step,
		AITool:             x.AITool,
		Prompt:             x.Prompt,
		CriticalReflection: x.CriticalReflection,
		LogDate:            x.LogDate,
	}
}
