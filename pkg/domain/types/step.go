package types

import "fmt"

// Step is a writing-process phase a log entry belongs to
type Step string

const (
	StepIdea      Step = "idea"
	StepOutline   Step = "outline"
	StepDraft     Step = "draft"
	StepFactCheck Step = "fact-check"
	StepEditing   Step = "editing"
)

// AllSteps returns all steps in writing-process order
func AllSteps() []Step {
	return []Step{
		StepIdea,
		StepOutline,
		StepDraft,
		StepFactCheck,
		StepEditing,
	}
}

// IsValid checks if the step is one of the fixed stage set
func (s Step) IsValid() bool {
	switch s {
	case StepIdea,
		StepOutline,
		StepDraft,
		StepFactCheck,
		StepEditing:
		return true
	default:
		return false
	}
}

// Label returns a human readable name of the step
func (s Step) Label() string {
	switch s {
	case StepIdea:
		return "Idea"
	case StepOutline:
		return "Outline"
	case StepDraft:
		return "Draft"
	case StepFactCheck:
		return "Fact check"
	case StepEditing:
		return "Final editing"
	default:
		return string(s)
	}
}

// String returns the string representation of the step
func (s Step) String() string {
	return string(s)
}

// ParseStep parses a string into a Step
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if !step.IsValid() {
		return "", fmt.Errorf("invalid step: %s", s)
	}
	return step, nil
}
