package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
)

// ViewUseCase computes the derived views. Each call reads a fresh snapshot
// of the store, so views never diverge from it.
type ViewUseCase struct {
	store interfaces.LogStore
	now   func() time.Time
}

func NewViewUseCase(store interfaces.LogStore, now func() time.Time) *ViewUseCase {
	return &ViewUseCase{
		store: store,
		now:   now,
	}
}

// Timeline returns the growth timeline of who
func (uc *ViewUseCase) Timeline(ctx context.Context, who model.Identity) *model.Timeline {
	return model.BuildTimeline(uc.store.Snapshot(), who)
}

// CurrentMonth is the month a calendar opens on
func (uc *ViewUseCase) CurrentMonth() model.Month {
	return model.MonthOf(uc.now())
}

// Calendar returns the day buckets of month
func (uc *ViewUseCase) Calendar(ctx context.Context, month model.Month) *model.Calendar {
	return model.BuildCalendar(uc.store.Snapshot(), month)
}

// Dashboard returns all records grouped by student. The caller decides
// whether the view may be shown; see GateUseCase.
func (uc *ViewUseCase) Dashboard(ctx context.Context) *model.Dashboard {
	return model.BuildDashboard(uc.store.Snapshot())
}
