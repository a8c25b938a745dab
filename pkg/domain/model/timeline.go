package model

import "sort"

// TimelineState tells an empty timeline that was never searched apart from
// a search that found nothing
type TimelineState string

const (
	TimelineUnsearched TimelineState = "unsearched"
	TimelineSearched   TimelineState = "searched"
)

// Timeline is one student's records in calendar order
type Timeline struct {
	State    TimelineState
	Identity Identity
	Records  []*LogRecord
}

// IsEmpty reports a searched timeline without any record
func (x *Timeline) IsEmpty() bool {
	return x.State == TimelineSearched && len(x.Records) == 0
}

// BuildTimeline selects the records of who (exact, case-sensitive match on
// both name and id) and orders them by LogDate ascending. Records sharing a
// date keep their order in logs. Until both parts of who are set the
// timeline stays unsearched.
func BuildTimeline(logs []*LogRecord, who Identity) *Timeline {
	if !who.IsComplete() {
		return &Timeline{
			State:    TimelineUnsearched,
			Identity: who,
			Records:  []*LogRecord{},
		}
	}

	records := make([]*LogRecord, 0)
	for _, l := range logs {
		if l.StudentName == who.Name && l.StudentID == who.ID {
			records = append(records, l)
		}
	}

	// YYYY-MM-DD sorts lexically in calendar order
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LogDate < records[j].LogDate
	})

	return &Timeline{
		State:    TimelineSearched,
		Identity: who,
		Records:  records,
	}
}
