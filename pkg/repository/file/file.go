package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// ErrInvalidKey is returned for keys that cannot be used as a file name
var ErrInvalidKey = goerr.New("invalid storage key")

// File stores each key as <dir>/<key>.json. Writes go to a temporary file
// that is renamed over the target, so readers see either the old or the new
// value.
type File struct {
	dir string
	mu  sync.Mutex
}

var _ interfaces.BlobStore = &File{}

func New(dir string) (*File, error) {
	if dir == "" {
		return nil, goerr.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", dir))
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory blobs are stored in
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", goerr.Wrap(ErrInvalidKey, "key must be a plain file name", goerr.V("key", key))
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is built from the configured directory and a validated key
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(interfaces.ErrBlobNotFound, "blob not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read blob", goerr.V("path", path))
	}
	return data, nil
}

func (f *File) Put(ctx context.Context, key string, data []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+key+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", f.dir))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := os.Remove(tmpName); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.From(ctx).Warn("failed to remove temporary file", "path", tmpName, "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write blob", goerr.V("path", tmpName))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to sync blob", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close blob", goerr.V("path", tmpName))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return goerr.Wrap(err, "failed to replace blob", goerr.V("path", path))
	}
	committed = true

	return nil
}

func (f *File) Close() error {
	return nil
}
