package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/repository/memory"
	"github.com/secmon-lab/logiclog/pkg/service/worker"
)

type failingBlob struct {
	*memory.Memory
}

func (f *failingBlob) Put(ctx context.Context, key string, data []byte) error {
	return errors.New("quota exceeded")
}

func TestNewBackupWorker(t *testing.T) {
	blob := memory.New()

	t.Run("accepts cron expressions and descriptors", func(t *testing.T) {
		for _, spec := range []string{"0 3 * * *", "@hourly", "@every 30m"} {
			w, err := worker.NewBackupWorker(blob, "logs", spec)
			gt.NoError(t, err).Required()
			gt.Value(t, w.BackupKey()).Equal("logs.backup")
		}
	})

	t.Run("rejects invalid schedule", func(t *testing.T) {
		_, err := worker.NewBackupWorker(blob, "logs", "every day")
		gt.Value(t, err).NotNil()
	})
}

func TestBackupWorker_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("copies stored logs", func(t *testing.T) {
		blob := memory.New()
		gt.NoError(t, blob.Put(ctx, "logs", []byte(`[{"id":"a"}]`))).Required()

		w, err := worker.NewBackupWorker(blob, "logs", "@daily")
		gt.NoError(t, err).Required()
		gt.NoError(t, w.RunOnce(ctx)).Required()

		data, err := blob.Get(ctx, "logs.backup")
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal(`[{"id":"a"}]`)
		gt.Bool(t, w.LastRun().IsZero()).False()
	})

	t.Run("skips when nothing is stored", func(t *testing.T) {
		blob := memory.New()
		w, err := worker.NewBackupWorker(blob, "logs", "@daily")
		gt.NoError(t, err).Required()
		gt.NoError(t, w.RunOnce(ctx)).Required()

		_, err = blob.Get(ctx, "logs.backup")
		gt.Error(t, err).Is(interfaces.ErrBlobNotFound)
		gt.Bool(t, w.LastRun().IsZero()).True()
	})

	t.Run("reports write failure", func(t *testing.T) {
		blob := &failingBlob{Memory: memory.New()}
		gt.NoError(t, blob.Memory.Put(ctx, "logs", []byte(`[]`))).Required()

		w, err := worker.NewBackupWorker(blob, "logs", "@daily")
		gt.NoError(t, err).Required()
		gt.Value(t, w.RunOnce(ctx)).NotNil()
	})
}

func TestBackupWorker_Schedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the cron scheduler")
	}

	ctx := context.Background()
	blob := memory.New()
	gt.NoError(t, blob.Put(ctx, "logs", []byte(`[]`))).Required()

	w, err := worker.NewBackupWorker(blob, "logs", "@every 1s")
	gt.NoError(t, err).Required()
	gt.NoError(t, w.Start(ctx)).Required()
	defer w.Stop()

	gt.Value(t, w.Start(ctx)).NotNil()

	deadline := time.Now().Add(5 * time.Second)
	for w.LastRun().IsZero() && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	gt.Bool(t, w.LastRun().IsZero()).False()
}
