package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// DefaultKey is the storage key the collection is kept under
const DefaultKey = "ai_logic_log_data_2026"

// ErrNotSaved is returned when a mutation was applied in memory but could not
// be written to the blob store. The change is kept and written again with
// the next successful mutation.
var ErrNotSaved = goerr.New("could not save")

// ErrIDExhausted is returned when the id generator keeps producing ids that
// are already stored
var ErrIDExhausted = goerr.New("could not generate an unused log id")

const maxIDRetries = 16

// Store owns the canonical collection of log records. Every mutation
// re-serializes the whole collection and overwrites the blob under key.
type Store struct {
	blob  interfaces.BlobStore
	key   string
	now   func() time.Time
	newID func() model.LogRecordID

	mu   sync.Mutex
	logs []*model.LogRecord
}

var _ interfaces.LogStore = &Store{}

type Option func(*Store)

// WithClock replaces time.Now for createdAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces model.NewLogRecordID
func WithIDGenerator(newID func() model.LogRecordID) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates a store on top of blob. The collection starts empty; call
// Load to read the persisted state.
func New(blob interfaces.BlobStore, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		blob:  blob,
		key:   key,
		now:   time.Now,
		newID: model.NewLogRecordID,
		logs:  []*model.LogRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one. A missing
// key or malformed payload yields an empty collection; the failure is only
// logged.
func (s *Store) Load(ctx context.Context) []*model.LogRecord {
	logs := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = logs
	return model.CloneLogRecords(logs)
}

func (s *Store) read(ctx context.Context) []*model.LogRecord {
	logger := logging.From(ctx)

	data, err := s.blob.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, interfaces.ErrBlobNotFound) {
			logger.Debug("no stored logs, starting empty", "key", s.key)
		} else {
			logger.Warn("failed to read stored logs, starting empty", "key", s.key, "error", err)
		}
		return []*model.LogRecord{}
	}

	var stored []json.RawMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("stored logs are malformed, starting empty", "key", s.key, "error", err)
		return []*model.LogRecord{}
	}

	logs := make([]*model.LogRecord, 0, len(stored))
	for i, raw := range stored {
		var l *model.LogRecord
		if err := json.Unmarshal(raw, &l); err != nil {
			logger.Warn("dropping undecodable stored log", "key", s.key, "index", i, "error", err)
			continue
		}
		if l != nil {
			logs = append(logs, l)
		}
	}
	logger.Debug("stored logs loaded", "key", s.key, "loaded", len(logs))
	return logs
}

// must be called with s.mu held
func (s *Store) flush(ctx context.Context) error {
	data, err := json.Marshal(s.logs)
	if err != nil {
		return goerr.Wrap(ErrNotSaved, "failed to encode logs", goerr.V("cause", err.Error()))
	}
	if err := s.blob.Put(ctx, s.key, data); err != nil {
		logging.From(ctx).Error("failed to save logs", "key", s.key, "error", err)
		return goerr.Wrap(ErrNotSaved, "failed to write logs",
			goerr.V("key", s.key),
			goerr.V("cause", err.Error()))
	}
	return nil
}

// must be called with s.mu held
func (s *Store) indexOf(id model.LogRecordID) int {
	for i, l := range s.logs {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Append stores a record built from draft in front of the collection and
// persists the collection. The draft is expected to have passed validation.
// When only the write fails, the stored record is returned together with an
// error wrapping ErrNotSaved.
func (s *Store) Append(ctx context.Context, draft *model.LogDraft) (*model.LogRecord, error) {
	if draft == nil {
		return nil, goerr.New("log draft is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for retry := 0; s.indexOf(id) >= 0; retry++ {
		if retry >= maxIDRetries {
			return nil, goerr.Wrap(ErrIDExhausted, "no unused log id", goerr.V("id", id))
		}
		id = s.newID()
	}

	record := draft.ToRecord(id, s.now().UTC())

	logs := make([]*model.LogRecord, 0, len(s.logs)+1)
	logs = append(logs, record)
	logs = append(logs, s.logs...)
	s.logs = logs

	if err := s.flush(ctx); err != nil {
		return record.Clone(), err
	}
	return record.Clone(), nil
}

// Remove deletes the record with id. It reports false without writing when
// no record has that id.
func (s *Store) Remove(ctx context.Context, id model.LogRecordID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	logs := make([]*model.LogRecord, 0, len(s.logs)-1)
	logs = append(logs, s.logs[:idx]...)
	logs = append(logs, s.logs[idx+1:]...)
	s.logs = logs

	if err := s.flush(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Replace swaps the whole collection and persists it
func (s *Store) Replace(ctx context.Context, logs []*model.LogRecord) error {
	seen := make(map[model.LogRecordID]struct{}, len(logs))
	for _, l := range logs {
		if l == nil {
			return goerr.New("log record must not be null")
		}
		if l.ID == "" {
			return goerr.New("log record has no id", goerr.V("student", l.Identity().Label()))
		}
		if _, dup := seen[l.ID]; dup {
			return goerr.New("duplicate log record id", goerr.V("id", l.ID))
		}
		seen[l.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = model.CloneLogRecords(logs)
	return s.flush(ctx)
}

// Snapshot returns a copy of the collection in store order, newest first
func (s *Store) Snapshot() []*model.LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneLogRecords(s.logs)
}

// Encode returns the collection serialized the way it is persisted
func (s *Store) Encode() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.logs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode logs")
	}
	return data, nil
}
