package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// BackupSuffix is appended to the storage key to name the backup copy
const BackupSuffix = ".backup"

// BackupWorker copies the stored log blob to "<key>.backup" on a cron
// schedule.
//
// Architecture assumptions:
// - Single process per storage key (no distributed locking)
// - A failed copy is logged and retried at the next tick
type BackupWorker struct {
	blob     interfaces.BlobStore
	key      string
	schedule cron.Schedule
	spec     string

	mu      sync.Mutex
	cron    *cron.Cron
	lastRun time.Time
}

// NewBackupWorker parses spec (standard 5-field cron or a descriptor such
// as "@hourly" or "@every 30m") and returns a stopped worker.
func NewBackupWorker(blob interfaces.BlobStore, key, spec string) (*BackupWorker, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid backup schedule", goerr.V("schedule", spec))
	}

	return &BackupWorker{
		blob:     blob,
		key:      key,
		schedule: schedule,
		spec:     spec,
	}, nil
}

// BackupKey returns the key the copy is written to
func (w *BackupWorker) BackupKey() string {
	return w.key + BackupSuffix
}

// LastRun returns when the last successful copy finished
func (w *BackupWorker) LastRun() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun
}

// Start schedules the copy job. It does not block.
func (w *BackupWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return goerr.New("backup worker already started")
	}

	logging.Default().Info("Backup worker starting",
		"schedule", w.spec,
		"key", w.key,
		"backup_key", w.BackupKey(),
	)

	w.cron = cron.New()
	w.cron.Schedule(w.schedule, cron.FuncJob(func() {
		if err := w.RunOnce(ctx); err != nil {
			logging.Default().Error("Backup failed (will retry next schedule)",
				"error", err.Error())
		}
	}))
	w.cron.Start()

	return nil
}

// Stop cancels the schedule and waits for a running copy to finish
func (w *BackupWorker) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return
	}

	logging.Default().Info("Backup worker stopping")
	<-c.Stop().Done()
	logging.Default().Info("Backup worker stopped")
}

// Run starts the worker and blocks until ctx is cancelled
func (w *BackupWorker) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// RunOnce performs a single copy. Nothing is written when no logs are
// stored yet.
func (w *BackupWorker) RunOnce(ctx context.Context) error {
	startTime := time.Now()

	data, err := w.blob.Get(ctx, w.key)
	if err != nil {
		if errors.Is(err, interfaces.ErrBlobNotFound) {
			logging.Default().Debug("No stored logs to back up", "key", w.key)
			return nil
		}
		return goerr.Wrap(err, "failed to read stored logs", goerr.V("key", w.key))
	}

	if err := w.blob.Put(ctx, w.BackupKey(), data); err != nil {
		return goerr.Wrap(err, "failed to write backup", goerr.V("backup_key", w.BackupKey()))
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.mu.Unlock()

	logging.Default().Info("Backup completed",
		"backup_key", w.BackupKey(),
		"bytes", len(data),
		"duration", time.Since(startTime).String())
	return nil
}
