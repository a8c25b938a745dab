package interfaces

import (
	"context"

	"github.com/secmon-lab/logiclog/pkg/domain/model"
)

// LogStore owns the canonical collection of log records
type LogStore interface {
	// Load re-reads the persisted collection. Missing or malformed data yields an empty collection.
	Load(ctx context.Context) []*model.LogRecord

	// Append stores a new record in front of the collection
	Append(ctx context.Context, draft *model.LogDraft) (*model.LogRecord, error)

	// Remove deletes the record with id and reports whether one was removed
	Remove(ctx context.Context, id model.LogRecordID) (bool, error)

	// Replace swaps the whole collection, used by imports
	Replace(ctx context.Context, logs []*model.LogRecord) error

	// Snapshot returns a copy of the collection in store order
	Snapshot() []*model.LogRecord
}
