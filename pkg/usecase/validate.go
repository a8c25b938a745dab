package usecase

import (
	"context"

	"github.com/secmon-lab/logiclog/pkg/domain/model"
)

// ValidationIssue is a stored record that would not pass the input form today
type ValidationIssue struct {
	LogID   model.LogRecordID
	Student string
	Fields  []string
	Message string
}

// ValidationResult holds the results of a store check
type ValidationResult struct {
	Checked int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateStore checks every stored record against the current input rules
// and for duplicate ids. Records written by older versions may fail. It
// does NOT modify any data.
func (uc *UseCases) ValidateStore(ctx context.Context) *ValidationResult {
	logs := uc.store.Snapshot()
	result := &ValidationResult{Checked: len(logs)}

	seen := make(map[model.LogRecordID]bool, len(logs))
	for _, l := range logs {
		if l.ID == "" {
			result.AddIssue(ValidationIssue{
				Student: l.Identity().Label(),
				Message: "record has no id",
			})
		} else if seen[l.ID] {
			result.AddIssue(ValidationIssue{
				LogID:   l.ID,
				Student: l.Identity().Label(),
				Message: "duplicate id",
			})
		}
		seen[l.ID] = true

		if fields := model.DraftOf(l).MissingFields(); len(fields) > 0 {
			result.AddIssue(ValidationIssue{
				LogID:   l.ID,
				Student: l.Identity().Label(),
				Fields:  fields,
				Message: "empty or malformed fields",
			})
		}
		if l.CreatedAt.IsZero() {
			result.AddIssue(ValidationIssue{
				LogID:   l.ID,
				Student: l.Identity().Label(),
				Fields:  []string{"createdAt"},
				Message: "missing creation time",
			})
		}
	}

	return result
}
