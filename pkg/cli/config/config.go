package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// FileConfig is the optional TOML configuration file. It carries the two
// deployment constants: the storage key and the dashboard passphrase.
type FileConfig struct {
	StorageKey string `toml:"storage_key"`
	Passphrase string `toml:"passphrase" masq:"secret"`
}

// Validate checks if the FileConfig is valid
func (f *FileConfig) Validate() error {
	if strings.ContainsAny(f.StorageKey, `/\ `) {
		return goerr.Wrap(ErrInvalidConfig, "storage_key must not contain slashes or spaces", goerr.V("storage_key", f.StorageKey))
	}
	return nil
}

// LoadFileConfig loads the configuration from a TOML file
func LoadFileConfig(path string) (*FileConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var cfg FileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path),
			goerr.V("cause", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &cfg, nil
}

// AppConfig holds CLI flags for the storage key and the dashboard
// passphrase. Flags win over the TOML file, which wins over the defaults.
type AppConfig struct {
	configPath string
	storageKey string
	passphrase string
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("LOGICLOG_CONFIG"),
			Destination: &a.configPath,
		},
		&cli.StringFlag{
			Name:        "storage-key",
			Usage:       "Key the log collection is stored under",
			Category:    "Storage",
			Sources:     cli.EnvVars("LOGICLOG_STORAGE_KEY"),
			Destination: &a.storageKey,
		},
		&cli.StringFlag{
			Name:        "gate-passphrase",
			Usage:       "Shared passphrase that unlocks the professor dashboard",
			Category:    "Gate",
			Sources:     cli.EnvVars("LOGICLOG_GATE_PASSPHRASE"),
			Destination: &a.passphrase,
		},
	}
}

func (a AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", a.configPath),
		slog.String("storage-key", a.storageKey),
		slog.Int("gate-passphrase.len", len(a.passphrase)),
	)
}

// Resolved is the effective application configuration
type Resolved struct {
	StorageKey string
	Passphrase string `masq:"secret"`
}

// Configure merges flags, the optional TOML file and the defaults
func (a *AppConfig) Configure() (*Resolved, error) {
	resolved := &Resolved{
		StorageKey: logstore.DefaultKey,
		Passphrase: usecase.DefaultPassphrase,
	}

	if a.configPath != "" {
		file, err := LoadFileConfig(a.configPath)
		if err != nil {
			return nil, err
		}
		if file.StorageKey != "" {
			resolved.StorageKey = file.StorageKey
		}
		if file.Passphrase != "" {
			resolved.Passphrase = file.Passphrase
		}
	}

	if a.storageKey != "" {
		resolved.StorageKey = a.storageKey
	}
	if a.passphrase != "" {
		resolved.Passphrase = a.passphrase
	}

	return resolved, nil
}
