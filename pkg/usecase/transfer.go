package usecase

import (
	"context"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// TransferUseCase moves the raw collection in and out of the store. There is
// no schema versioning; a schema change is done by exporting, transforming
// the array by hand and importing it again.
type TransferUseCase struct {
	store interfaces.LogStore
}

func NewTransferUseCase(store interfaces.LogStore) *TransferUseCase {
	return &TransferUseCase{store: store}
}

// ImportMode tells Import what to do with records already in the store
type ImportMode int

const (
	// ImportReplace drops the current collection
	ImportReplace ImportMode = iota
	// ImportMerge keeps the current collection and adds records whose id is not present yet
	ImportMerge
)

// ImportResult summarizes an import
type ImportResult struct {
	Imported int
	Skipped  int
	Total    int
}

// Export writes the collection as an indented JSON array in store order
func (uc *TransferUseCase) Export(ctx context.Context, w io.Writer) (int, error) {
	logs := uc.store.Snapshot()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(logs); err != nil {
		return 0, goerr.Wrap(err, "failed to write export")
	}
	return len(logs), nil
}

// Import reads a JSON array of records. Unlike loading at startup, malformed
// input is an error here and leaves the store untouched. Records without an
// id get a new one.
func (uc *TransferUseCase) Import(ctx context.Context, r io.Reader, mode ImportMode) (*ImportResult, error) {
	var incoming []*model.LogRecord
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return nil, goerr.Wrap(ErrMalformedImport, "failed to decode import", goerr.V("cause", err.Error()))
	}

	result := &ImportResult{}
	var logs []*model.LogRecord
	seen := make(map[model.LogRecordID]struct{})

	if mode == ImportMerge {
		logs = uc.store.Snapshot()
		for _, l := range logs {
			seen[l.ID] = struct{}{}
		}
	}

	for _, l := range incoming {
		if l == nil {
			result.Skipped++
			continue
		}
		if l.ID == "" {
			l.ID = model.NewLogRecordID()
		}
		if _, dup := seen[l.ID]; dup {
			result.Skipped++
			continue
		}
		seen[l.ID] = struct{}{}
		logs = append(logs, l)
		result.Imported++
	}
	if logs == nil {
		logs = []*model.LogRecord{}
	}

	if err := uc.store.Replace(ctx, logs); err != nil {
		return nil, goerr.Wrap(err, "failed to store imported logs")
	}
	result.Total = len(logs)

	logging.From(ctx).Info("logs imported",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"total", result.Total,
	)
	return result, nil
}
