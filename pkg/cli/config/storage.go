package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/repository/file"
	"github.com/secmon-lab/logiclog/pkg/repository/firestore"
	"github.com/secmon-lab/logiclog/pkg/repository/gcs"
	"github.com/secmon-lab/logiclog/pkg/repository/memory"
	"github.com/secmon-lab/logiclog/pkg/repository/redis"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Storage backend names
const (
	BackendFile      = "file"
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendGCS       = "gcs"
	BackendRedis     = "redis"
)

// Storage holds CLI flags for the blob backend the log collection is kept in
type Storage struct {
	backend string
	dir     string

	firestoreProjectID  string
	firestoreDatabaseID string
	firestoreCollection string

	gcsBucket   string
	gcsPrefix   string
	gcsEndpoint string

	redisAddr     string
	redisPassword string
	redisDB       string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Storage backend type (file, memory, firestore, gcs or redis)",
			Category:    "Storage",
			Value:       BackendFile,
			Sources:     cli.EnvVars("LOGICLOG_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "storage-dir",
			Usage:       "Directory for the file backend (default: <user config dir>/logiclog)",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_STORAGE_DIR"),
			Destination: &s.dir,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_FIRESTORE_PROJECT_ID"),
			Destination: &s.firestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_FIRESTORE_DATABASE_ID"),
			Destination: &s.firestoreDatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding the log documents",
			Category:    "Storage",
			Value:       firestore.DefaultCollection,
			Sources:     cli.EnvVars("LOGICLOG_FIRESTORE_COLLECTION"),
			Destination: &s.firestoreCollection,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (required when using gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_GCS_BUCKET"),
			Destination: &s.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket, e.g. logiclog/",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_GCS_PREFIX"),
			Destination: &s.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Cloud Storage endpoint override (emulators)",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_GCS_ENDPOINT"),
			Destination: &s.gcsEndpoint,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address host:port (required when using redis backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_REDIS_ADDR"),
			Destination: &s.redisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_REDIS_PASSWORD"),
			Destination: &s.redisPassword,
		},
		&cli.StringFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Category:    "Storage",
			Value:       "0",
			Sources:     cli.EnvVars("LOGICLOG_REDIS_DB"),
			Destination: &s.redisDB,
		},
	}
}

func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", s.backend),
		slog.String("dir", s.dir),
		slog.String("firestore-project-id", s.firestoreProjectID),
		slog.String("gcs-bucket", s.gcsBucket),
		slog.String("redis-addr", s.redisAddr),
		slog.Int("redis-password.len", len(s.redisPassword)),
	)
}

// Backend returns the configured backend type
func (s *Storage) Backend() string {
	return s.backend
}

func defaultStorageDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to locate user config directory, set --storage-dir")
	}
	return filepath.Join(base, "logiclog"), nil
}

func missingFlag(backend, flag string) error {
	return goerr.Wrap(ErrMissingBackendFlag, flag+" is required when using "+backend+" backend",
		goerr.V(BackendKey, backend),
		goerr.V(FlagKey, flag))
}

// Configure initializes and returns a blob store based on the configured
// backend. The caller is responsible for calling Close() on it.
func (s *Storage) Configure(ctx context.Context) (interfaces.BlobStore, error) {
	logger := logging.From(ctx)

	switch s.backend {
	case BackendFile, "":
		dir := s.dir
		if dir == "" {
			d, err := defaultStorageDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		store, err := file.New(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file storage")
		}
		logger.Debug("Using file storage", "dir", dir)
		return store, nil

	case BackendMemory:
		logger.Warn("Using in-memory storage, logs are lost on exit (development mode)")
		return memory.New(), nil

	case BackendFirestore:
		if s.firestoreProjectID == "" {
			return nil, missingFlag(s.backend, "firestore-project-id")
		}
		var opts []firestore.Option
		if s.firestoreCollection != "" {
			opts = append(opts, firestore.WithCollection(s.firestoreCollection))
		}
		store, err := firestore.New(ctx, s.firestoreProjectID, s.firestoreDatabaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore storage")
		}
		logger.Info("Using Firestore storage",
			"project_id", s.firestoreProjectID,
			"database_id", s.firestoreDatabaseID,
			"collection", s.firestoreCollection,
		)
		return store, nil

	case BackendGCS:
		if s.gcsBucket == "" {
			return nil, missingFlag(s.backend, "gcs-bucket")
		}
		opts := []gcs.Option{gcs.WithPrefix(s.gcsPrefix)}
		if s.gcsEndpoint != "" {
			opts = append(opts, gcs.WithClientOptions(
				option.WithEndpoint(s.gcsEndpoint),
				option.WithoutAuthentication(),
			))
		}
		store, err := gcs.New(ctx, s.gcsBucket, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs storage")
		}
		logger.Info("Using Cloud Storage", "bucket", s.gcsBucket, "prefix", s.gcsPrefix)
		return store, nil

	case BackendRedis:
		if s.redisAddr == "" {
			return nil, missingFlag(s.backend, "redis-addr")
		}
		db, err := strconv.Atoi(s.redisDB)
		if err != nil || db < 0 {
			return nil, goerr.Wrap(ErrInvalidConfig, "redis-db must be a non-negative number", goerr.V("redis_db", s.redisDB))
		}
		store, err := redis.New(ctx, s.redisAddr, s.redisPassword, db)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis storage")
		}
		logger.Info("Using Redis storage", "addr", s.redisAddr, "db", db)
		return store, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown storage backend", goerr.V(BackendKey, s.backend))
	}
}
