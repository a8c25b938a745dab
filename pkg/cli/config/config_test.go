package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/logiclog/pkg/cli/config"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
	"github.com/secmon-lab/logiclog/pkg/usecase"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logiclog.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadFileConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		want    config.FileConfig
	}{
		{
			name: "both values",
			content: `
storage_key = "class_2026_spring"
passphrase = "open sesame"
`,
			want: config.FileConfig{StorageKey: "class_2026_spring", Passphrase: "open sesame"},
		},
		{
			name:    "empty file",
			content: "",
			want:    config.FileConfig{},
		},
		{
			name:    "broken toml",
			content: `storage_key = "unterminated`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "key with slash",
			content: `storage_key = "../escape"`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadFileConfig(writeConfig(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, *cfg).Equal(tt.want)
		})
	}
}

func TestLoadFileConfigNotFound(t *testing.T) {
	_, err := config.LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestAppConfigConfigure(t *testing.T) {
	path := writeConfig(t, `
storage_key = "from_file"
passphrase = "file-pass"
`)

	t.Run("defaults", func(t *testing.T) {
		resolved, err := config.NewAppConfigForTest("", "", "").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, resolved.StorageKey).Equal(logstore.DefaultKey)
		gt.Value(t, resolved.Passphrase).Equal(usecase.DefaultPassphrase)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		resolved, err := config.NewAppConfigForTest(path, "", "").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, resolved.StorageKey).Equal("from_file")
		gt.Value(t, resolved.Passphrase).Equal("file-pass")
	})

	t.Run("flags override file", func(t *testing.T) {
		resolved, err := config.NewAppConfigForTest(path, "from_flag", "flag-pass").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, resolved.StorageKey).Equal("from_flag")
		gt.Value(t, resolved.Passphrase).Equal("flag-pass")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.NewAppConfigForTest(filepath.Join(t.TempDir(), "none.toml"), "", "").Configure()
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}
