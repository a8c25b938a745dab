package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/cli/config"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
	"github.com/secmon-lab/logiclog/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout, os.Stdin)
}

// app carries the shared configuration and terminal streams of one run
type app struct {
	loggerCfg  config.Logger
	sentryCfg  config.Sentry
	storageCfg config.Storage
	appCfg     config.AppConfig

	out    io.Writer
	in     io.Reader
	reader *bufio.Reader
}

// session is the opened storage of one command
type session struct {
	blob     interfaces.BlobStore
	store    *logstore.Store
	uc       *usecase.UseCases
	resolved *config.Resolved
}

func (s *session) Close(ctx context.Context) {
	safe.Close(ctx, s.blob)
}

// open loads the log collection from the configured backend
func (a *app) open(ctx context.Context) (*session, error) {
	resolved, err := a.appCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load configuration")
	}

	blob, err := a.storageCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize storage")
	}

	store := logstore.New(blob, resolved.StorageKey)
	logs := store.Load(ctx)
	logging.From(ctx).Debug("Logs loaded", "count", len(logs), "key", store.Key())

	return &session{
		blob:     blob,
		store:    store,
		resolved: resolved,
		uc:       usecase.New(store, usecase.WithPassphrase(resolved.Passphrase)),
	}, nil
}

func run(ctx context.Context, args []string, version string, out io.Writer, in io.Reader) error {
	a := &app{
		out:    out,
		in:     in,
		reader: bufio.NewReader(in),
	}
	var closers []func()

	var flags []cli.Flag
	flags = append(flags, a.loggerCfg.Flags()...)
	flags = append(flags, a.sentryCfg.Flags()...)
	flags = append(flags, a.appCfg.Flags()...)
	flags = append(flags, a.storageCfg.Flags()...)

	cmd := &cli.Command{
		Name:    "logiclog",
		Usage:   "Journal of AI assisted writing steps for students and instructors",
		Version: version,
		Flags:   flags,
		Writer:  out,
		Reader:  in,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLogger, err := a.loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLogger)

			flush, err := a.sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting logiclog",
				"logger", a.loggerCfg,
				"sentry", a.sentryCfg,
				"storage", a.storageCfg,
				"app", a.appCfg,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(a),
			cmdAdd(a),
			cmdTimeline(a),
			cmdCalendar(a),
			cmdDashboard(a),
			cmdDelete(a),
			cmdExport(a),
			cmdImport(a),
			cmdValidate(a),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
