package usecase_test

import (
	"testing"
	"time"

	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
	"github.com/secmon-lab/logiclog/pkg/repository/memory"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
	"github.com/secmon-lab/logiclog/pkg/usecase"
)

var testNow = time.Date(2026, time.May, 12, 10, 0, 0, 0, time.UTC)

func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *logstore.Store) {
	t.Helper()
	store := logstore.New(memory.New(), "test_logs")
	opts = append([]usecase.Option{usecase.WithClock(func() time.Time { return testNow })}, opts...)
	return usecase.New(store, opts...), store
}

func draftFor(name, id, date string) *model.LogDraft {
	return &model.LogDraft{
		StudentName:        name,
		StudentID:          id,
		AssignmentTitle:    "Essay on AI ethics",
		Step:               types.StepIdea,
		AITool:             "ChatGPT",
		Prompt:             "What are the risks of AI in education?",
		CriticalReflection: "The answer ignored assessment integrity",
		LogDate:            model.LogDate(date),
	}
}
