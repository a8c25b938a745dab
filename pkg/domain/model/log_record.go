package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
)

// LogRecordID is an opaque identifier of a LogRecord. Records imported from
// older data may carry non-UUID ids; they are kept as is.
type LogRecordID string

// NewLogRecordID generates a new UUID v4 LogRecordID
func NewLogRecordID() LogRecordID {
	return LogRecordID(uuid.New().String())
}

func (x LogRecordID) String() string {
	return string(x)
}

// LogDateLayout is the textual layout of LogDate
const LogDateLayout = "2006-01-02"

// LogDate is a calendar day in YYYY-MM-DD form. Two dates are the same day
// if and only if their strings are equal.
type LogDate string

// NewLogDate returns the calendar day of t in t's location
func NewLogDate(t time.Time) LogDate {
	return LogDate(t.Format(LogDateLayout))
}

// ParseLogDate parses and validates s as a calendar date
func ParseLogDate(s string) (LogDate, error) {
	d := LogDate(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate checks the date is a real YYYY-MM-DD calendar day
func (d LogDate) Validate() error {
	t, err := time.Parse(LogDateLayout, string(d))
	if err != nil {
		return goerr.Wrap(ErrInvalidLogDate, "failed to parse log date", goerr.V(LogDateKey, d))
	}
	// time.Parse accepts some non-canonical forms; require the round trip
	if t.Format(LogDateLayout) != string(d) {
		return goerr.Wrap(ErrInvalidLogDate, "log date is not canonical", goerr.V(LogDateKey, d))
	}
	return nil
}

// Time returns midnight UTC of the date
func (d LogDate) Time() (time.Time, error) {
	t, err := time.Parse(LogDateLayout, string(d))
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrInvalidLogDate, "failed to parse log date", goerr.V(LogDateKey, d))
	}
	return t, nil
}

func (d LogDate) String() string {
	return string(d)
}

// Identity is the (studentName, studentId) pair that scopes a student's records
type Identity struct {
	Name string `json:"studentName"`
	ID   string `json:"studentId"`
}

// IsComplete reports whether both parts of the identity are set
func (x Identity) IsComplete() bool {
	return x.Name != "" && x.ID != ""
}

// Label renders the identity the way the dashboard shows it, e.g. "Kim (2023001)"
func (x Identity) Label() string {
	return x.Name + " (" + x.ID + ")"
}

// LogRecord is one AI-assisted writing interaction at a given stage and date.
// A record is never modified after it has been stored.
type LogRecord struct {
	ID                 LogRecordID `json:"id"`
	StudentName        string      `json:"studentName"`
	StudentID          string      `json:"studentId"`
	AssignmentTitle    string      `json:"assignmentTitle"`
	Step               types.Step  `json:"step"`
	AITool             string      `json:"aiTool"`
	Prompt             string      `json:"prompt"`
	CriticalReflection string      `json:"criticalReflection"`
	LogDate            LogDate     `json:"logDate"`
	CreatedAt          time.Time   `json:"createdAt"`

	// createdAt exactly as it was read, written back unchanged while it
	// still denotes CreatedAt
	createdAtRaw json.RawMessage
}

// CreatedAtLayout is the layout of newly written createdAt values
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

func parseCreatedAt(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// UnmarshalJSON decodes a record. A createdAt that is not an RFC 3339 string
// leaves CreatedAt zero instead of failing the record.
func (x *LogRecord) UnmarshalJSON(data []byte) error {
	type alias LogRecord
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(x)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	x.CreatedAt = time.Time{}
	x.createdAtRaw = nil
	if len(aux.CreatedAt) == 0 || string(aux.CreatedAt) == "null" {
		return nil
	}
	x.createdAtRaw = append(json.RawMessage(nil), aux.CreatedAt...)
	x.CreatedAt = parseCreatedAt(aux.CreatedAt)
	return nil
}

// MarshalJSON encodes a record. createdAt keeps the text it was read with;
// otherwise it is written in UTC with millisecond precision.
func (x LogRecord) MarshalJSON() ([]byte, error) {
	type alias LogRecord
	createdAt := x.createdAtRaw
	if len(createdAt) == 0 || !parseCreatedAt(createdAt).Equal(x.CreatedAt) {
		encoded, err := json.Marshal(x.CreatedAt.UTC().Format(CreatedAtLayout))
		if err != nil {
			return nil, err
		}
		createdAt = encoded
	}
	return json.Marshal(struct {
		alias
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: alias(x), CreatedAt: createdAt})
}

// Identity returns the identity pair the record belongs to
func (x *LogRecord) Identity() Identity {
	return Identity{Name: x.StudentName, ID: x.StudentID}
}

// Clone returns a copy of the record
func (x *LogRecord) Clone() *LogRecord {
	copied := *x
	return &copied
}

// CloneLogRecords copies every record of logs into a new slice
func CloneLogRecords(logs []*LogRecord) []*LogRecord {
	result := make([]*LogRecord, len(logs))
	for i, l := range logs {
		result[i] = l.Clone()
	}
	return result
}
