package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/logiclog/pkg/controller/http"
	"github.com/secmon-lab/logiclog/pkg/service/worker"
	"github.com/secmon-lab/logiclog/pkg/utils/async"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(a *app) *cli.Command {
	var addr string
	var backupSchedule string

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the local HTTP JSON service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "HTTP server address",
				Value:       "127.0.0.1:8080",
				Sources:     cli.EnvVars("LOGICLOG_ADDR"),
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "backup-schedule",
				Usage:       "Cron schedule for copying the stored logs to <key>.backup, e.g. \"@hourly\"",
				Sources:     cli.EnvVars("LOGICLOG_BACKUP_SCHEDULE"),
				Destination: &backupSchedule,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			var backup *worker.BackupWorker
			if backupSchedule != "" {
				backup, err = worker.NewBackupWorker(s.blob, s.store.Key(), backupSchedule)
				if err != nil {
					return err
				}
			}

			handler, err := httpctrl.New(s.uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr, "storage_key", s.store.Key())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			eg.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				logging.Default().Info("Server shutdown completed")
				return nil
			})

			if backup != nil {
				async.Dispatch(ctx, backup.RunOnce)
				eg.Go(func() error {
					return backup.Run(ctx)
				})
			}

			return eg.Wait()
		},
	}
}
