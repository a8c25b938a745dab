package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
)

// Memory keeps blobs in process memory. Data is lost on exit; it is meant
// for development and tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ interfaces.BlobStore = &Memory{}

func New() *Memory {
	return &Memory{
		blobs: make(map[string][]byte),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrBlobNotFound, "blob not found", goerr.V("key", key))
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (m *Memory) Put(ctx context.Context, key string, data []byte) error {
	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = copied
	return nil
}

func (m *Memory) Close() error {
	return nil
}
