package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

type LogUseCase struct {
	store interfaces.LogStore
	now   func() time.Time
}

func NewLogUseCase(store interfaces.LogStore, now func() time.Time) *LogUseCase {
	return &LogUseCase{
		store: store,
		now:   now,
	}
}

// NewDraft returns an empty form with its defaults filled in
func (uc *LogUseCase) NewDraft() *model.LogDraft {
	return model.NewLogDraft(uc.now())
}

// Submit stores draft when every required field is filled. A record whose
// write failed is still returned, together with an error wrapping
// logstore.ErrNotSaved.
func (uc *LogUseCase) Submit(ctx context.Context, draft *model.LogDraft) (*model.LogRecord, error) {
	if draft == nil {
		return nil, goerr.Wrap(ErrCannotSubmit, "log draft is required")
	}
	if fields := draft.MissingFields(); len(fields) > 0 {
		return nil, goerr.Wrap(ErrCannotSubmit, "log draft is incomplete", goerr.V(FieldsKey, fields))
	}

	record, err := uc.store.Append(ctx, draft)
	if err != nil {
		if record == nil {
			return nil, goerr.Wrap(err, "failed to append log")
		}
		return record, goerr.Wrap(err, "log was kept but not saved", goerr.V(LogIDKey, record.ID))
	}

	logging.From(ctx).Info("log submitted",
		"id", record.ID,
		"step", record.Step,
		"log_date", record.LogDate,
	)
	return record, nil
}

// Delete removes the record with id. The caller must have asked the user
// for confirmation. It reports whether a record was actually removed.
func (uc *LogUseCase) Delete(ctx context.Context, id model.LogRecordID, confirmed bool) (bool, error) {
	if !confirmed {
		return false, goerr.Wrap(ErrNotConfirmed, "refusing to delete without confirmation", goerr.V(LogIDKey, id))
	}

	removed, err := uc.store.Remove(ctx, id)
	if err != nil {
		return removed, goerr.Wrap(err, "failed to delete log", goerr.V(LogIDKey, id))
	}

	if removed {
		logging.From(ctx).Info("log deleted", "id", id)
	} else {
		logging.From(ctx).Info("no log to delete", "id", id)
	}
	return removed, nil
}
