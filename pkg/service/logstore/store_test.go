package logstore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
	"github.com/secmon-lab/logiclog/pkg/repository/memory"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
)

const testKey = "test_logs"

// flakyBlob wraps a BlobStore and fails Put while broken is set
type flakyBlob struct {
	interfaces.BlobStore
	mu     sync.Mutex
	broken bool
	puts   int
}

func (f *flakyBlob) setBroken(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken = v
}

func (f *flakyBlob) Put(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.broken {
		return errors.New("quota exceeded")
	}
	return f.BlobStore.Put(ctx, key, data)
}

func newDraft(name, id, date string) *model.LogDraft {
	return &model.LogDraft{
		StudentName:        name,
		StudentID:          id,
		AssignmentTitle:    "Essay",
		Step:               types.StepOutline,
		AITool:             "ChatGPT",
		Prompt:             "Outline the essay",
		CriticalReflection: "The outline skipped the counterargument",
		LogDate:            model.LogDate(date),
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.May, 10, 9, 30, 15, 123456789, time.UTC)
	}
}

func TestLoadEmpty(t *testing.T) {
	store := logstore.New(memory.New(), testKey)
	logs := store.Load(context.Background())
	gt.Array(t, logs).Length(0)
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{name: "not json", payload: "{broken", want: 0},
		{name: "object instead of array", payload: `{"id":"1"}`, want: 0},
		{name: "wrong field type", payload: `[{"id":1}]`, want: 0},
		{name: "null", payload: `null`, want: 0},
		{name: "null entries are dropped", payload: `[null,{"id":"1","logDate":"2026-05-10","createdAt":"2026-05-10T00:00:00Z"}]`, want: 1},
		{name: "empty createdAt keeps every record", payload: `[{"id":"1","logDate":"2026-05-10","createdAt":"2026-05-10T00:00:00Z"},{"id":"2","logDate":"2026-05-11","createdAt":""}]`, want: 2},
		{name: "date string createdAt", payload: `[{"id":"1","logDate":"2026-05-10","createdAt":"Tue May 12 2026 10:00:00 GMT+0900 (Korean Standard Time)"}]`, want: 1},
		{name: "only the undecodable record is dropped", payload: `[{"id":"1","logDate":"2026-05-10"},{"id":2}]`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := memory.New()
			ctx := context.Background()
			gt.NoError(t, blob.Put(ctx, testKey, []byte(tt.payload))).Required()

			logs := logstore.New(blob, testKey).Load(ctx)
			gt.Array(t, logs).Length(tt.want)
		})
	}
}

func TestLoadLegacyPayload(t *testing.T) {
	blob := memory.New()
	ctx := context.Background()
	payload := `[{"studentName":"Kim","studentId":"2023001","assignmentTitle":"Essay","step":"draft","aiTool":"ChatGPT","prompt":"p","criticalReflection":"r","logDate":"2026-05-10","id":"1767225600000","createdAt":"2026-05-10T01:02:03.456Z"}]`
	gt.NoError(t, blob.Put(ctx, testKey, []byte(payload))).Required()

	logs := logstore.New(blob, testKey).Load(ctx)
	gt.Array(t, logs).Length(1)
	gt.Value(t, logs[0].ID).Equal(model.LogRecordID("1767225600000"))
	gt.Value(t, logs[0].Step).Equal(types.StepDraft)
	gt.Value(t, logs[0].CreatedAt.UnixMilli()).Equal(time.Date(2026, time.May, 10, 1, 2, 3, 456000000, time.UTC).UnixMilli())
}

func TestAppendRoundTrip(t *testing.T) {
	blob := memory.New()
	ctx := context.Background()

	store := logstore.New(blob, testKey, logstore.WithClock(fixedClock()))
	store.Load(ctx)

	first, err := store.Append(ctx, newDraft("Kim", "2023001", "2026-05-10"))
	gt.NoError(t, err).Required()
	gt.String(t, string(first.ID)).NotEqual("")
	gt.Bool(t, first.CreatedAt.Equal(fixedClock()())).True()

	second, err := store.Append(ctx, newDraft("Lee", "2023002", "2026-05-11"))
	gt.NoError(t, err).Required()

	reloaded := logstore.New(blob, testKey)
	logs := reloaded.Load(ctx)
	gt.Array(t, logs).Length(2)

	// newest first
	gt.Value(t, logs[0].ID).Equal(second.ID)
	gt.Value(t, logs[1].ID).Equal(first.ID)
	gt.Value(t, logs[1].StudentName).Equal("Kim")
	gt.Value(t, logs[1].LogDate).Equal(model.LogDate("2026-05-10"))
	gt.Bool(t, logs[1].CreatedAt.Equal(first.CreatedAt)).True()

	// serializing the reloaded collection gives back the persisted bytes
	persisted, err := blob.Get(ctx, testKey)
	gt.NoError(t, err).Required()
	encoded, err := reloaded.Encode()
	gt.NoError(t, err).Required()
	gt.Value(t, string(encoded)).Equal(string(persisted))
}

func TestAppendGeneratesUniqueIDs(t *testing.T) {
	ids := []model.LogRecordID{"dup", "dup", "fresh"}
	n := 0
	gen := func() model.LogRecordID {
		id := ids[n]
		n++
		return id
	}

	store := logstore.New(memory.New(), testKey, logstore.WithIDGenerator(gen))
	ctx := context.Background()

	r1, err := store.Append(ctx, newDraft("Kim", "1", "2026-05-10"))
	gt.NoError(t, err).Required()
	r2, err := store.Append(ctx, newDraft("Kim", "1", "2026-05-10"))
	gt.NoError(t, err).Required()

	gt.Value(t, r1.ID).Equal(model.LogRecordID("dup"))
	gt.Value(t, r2.ID).Equal(model.LogRecordID("fresh"))
}

func TestAppendRejectsNilDraft(t *testing.T) {
	store := logstore.New(memory.New(), testKey)
	_, err := store.Append(context.Background(), nil)
	gt.Error(t, err)
}

func TestRemove(t *testing.T) {
	blob := &flakyBlob{BlobStore: memory.New()}
	ctx := context.Background()
	store := logstore.New(blob, testKey)

	var created []*model.LogRecord
	for i := 0; i < 3; i++ {
		r, err := store.Append(ctx, newDraft(fmt.Sprintf("S%d", i), "1", "2026-05-10"))
		gt.NoError(t, err).Required()
		created = append(created, r)
	}

	t.Run("removes existing record", func(t *testing.T) {
		removed, err := store.Remove(ctx, created[1].ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, removed).True()

		logs := logstore.New(blob, testKey).Load(ctx)
		gt.Array(t, logs).Length(2)
		for _, l := range logs {
			gt.Value(t, l.ID).NotEqual(created[1].ID)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		before := blob.puts
		removed, err := store.Remove(ctx, "no-such-id")
		gt.NoError(t, err).Required()
		gt.Bool(t, removed).False()
		gt.Value(t, blob.puts).Equal(before)
		gt.Array(t, store.Snapshot()).Length(2)
	})

	t.Run("removing twice reports false the second time", func(t *testing.T) {
		removed, err := store.Remove(ctx, created[0].ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, removed).True()

		removed, err = store.Remove(ctx, created[0].ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, removed).False()
	})
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	blob := &flakyBlob{BlobStore: memory.New()}
	ctx := context.Background()
	store := logstore.New(blob, testKey)

	blob.setBroken(true)
	rec, err := store.Append(ctx, newDraft("Kim", "2023001", "2026-05-10"))
	gt.Error(t, err).Is(logstore.ErrNotSaved)
	gt.Value(t, rec).NotNil()
	gt.Array(t, store.Snapshot()).Length(1)

	// nothing was persisted
	gt.Array(t, logstore.New(blob, testKey).Load(ctx)).Length(0)

	// the next successful write persists everything
	blob.setBroken(false)
	_, err = store.Append(ctx, newDraft("Lee", "2023002", "2026-05-11"))
	gt.NoError(t, err).Required()
	gt.Array(t, logstore.New(blob, testKey).Load(ctx)).Length(2)
}

func TestRemoveWriteFailure(t *testing.T) {
	blob := &flakyBlob{BlobStore: memory.New()}
	ctx := context.Background()
	store := logstore.New(blob, testKey)

	rec, err := store.Append(ctx, newDraft("Kim", "2023001", "2026-05-10"))
	gt.NoError(t, err).Required()

	blob.setBroken(true)
	removed, err := store.Remove(ctx, rec.ID)
	gt.Error(t, err).Is(logstore.ErrNotSaved)
	gt.Bool(t, removed).True()
	gt.Array(t, store.Snapshot()).Length(0)
}

func TestReplace(t *testing.T) {
	blob := memory.New()
	ctx := context.Background()
	store := logstore.New(blob, testKey)

	logs := []*model.LogRecord{
		{ID: "a", StudentName: "Kim", StudentID: "1", LogDate: "2026-05-10"},
		{ID: "b", StudentName: "Lee", StudentID: "2", LogDate: "2026-05-11"},
	}
	gt.NoError(t, store.Replace(ctx, logs)).Required()
	gt.Array(t, logstore.New(blob, testKey).Load(ctx)).Length(2)

	dup := []*model.LogRecord{{ID: "a"}, {ID: "a"}}
	gt.Error(t, store.Replace(ctx, dup))
	gt.Array(t, store.Snapshot()).Length(2)

	gt.Error(t, store.Replace(ctx, []*model.LogRecord{{StudentName: "no id"}}))
}

func TestSnapshotIsACopy(t *testing.T) {
	store := logstore.New(memory.New(), testKey)
	ctx := context.Background()
	_, err := store.Append(ctx, newDraft("Kim", "1", "2026-05-10"))
	gt.NoError(t, err).Required()

	snap := store.Snapshot()
	snap[0].StudentName = "changed"
	gt.Value(t, store.Snapshot()[0].StudentName).Equal("Kim")
}

func TestDefaultKey(t *testing.T) {
	store := logstore.New(memory.New(), "")
	gt.Value(t, store.Key()).Equal(logstore.DefaultKey)
}

func TestLoadKeepsCreatedAtText(t *testing.T) {
	blob := memory.New()
	ctx := context.Background()
	payload := `[{"id":"a","studentName":"Kim","studentId":"1","logDate":"2026-05-10","createdAt":"2026-05-10T01:02:03.120Z"},` +
		`{"id":"b","studentName":"Kim","studentId":"1","logDate":"2026-05-11","createdAt":""},` +
		`{"id":"c","studentName":"Kim","studentId":"1","logDate":"2026-05-12","createdAt":"Tue May 12 2026 10:00:00 GMT+0900"}]`
	gt.NoError(t, blob.Put(ctx, testKey, []byte(payload))).Required()

	store := logstore.New(blob, testKey, logstore.WithClock(fixedClock()))
	logs := store.Load(ctx)
	gt.Array(t, logs).Length(3)
	gt.Bool(t, logs[0].CreatedAt.Equal(time.Date(2026, time.May, 10, 1, 2, 3, 120000000, time.UTC))).True()
	gt.Bool(t, logs[1].CreatedAt.IsZero()).True()
	gt.Bool(t, logs[2].CreatedAt.IsZero()).True()

	_, err := store.Append(ctx, newDraft("Lee", "2", "2026-05-13"))
	gt.NoError(t, err).Required()

	data, err := blob.Get(ctx, testKey)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains(`"createdAt":"2026-05-10T01:02:03.120Z"`)
	gt.String(t, string(data)).Contains(`"createdAt":""`)
	gt.String(t, string(data)).Contains(`"createdAt":"Tue May 12 2026 10:00:00 GMT+0900"`)
	gt.String(t, string(data)).Contains(`"createdAt":"2026-05-10T09:30:15.123Z"`)
	gt.Array(t, logstore.New(blob, testKey).Load(ctx)).Length(4)
}

func TestAppendStopsOnExhaustedIDs(t *testing.T) {
	gen := func() model.LogRecordID { return "same" }
	store := logstore.New(memory.New(), testKey, logstore.WithIDGenerator(gen))
	ctx := context.Background()

	_, err := store.Append(ctx, newDraft("Kim", "1", "2026-05-10"))
	gt.NoError(t, err).Required()

	rec, err := store.Append(ctx, newDraft("Kim", "1", "2026-05-11"))
	gt.Error(t, err).Is(logstore.ErrIDExhausted)
	gt.Value(t, rec).Nil()
	gt.Array(t, store.Snapshot()).Length(1)
}
