package gcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"github.com/secmon-lab/logiclog/pkg/utils/safe"
	"google.golang.org/api/option"
)

// GCS stores each key as an object <prefix><key>.json in one bucket.
// Object writes become visible atomically when the writer is closed.
type GCS struct {
	client     *storage.Client
	bucket     string
	prefix     string
	clientOpts []option.ClientOption
}

var _ interfaces.BlobStore = &GCS{}

type Option func(*GCS)

// WithPrefix puts objects under prefix, e.g. "logiclog/"
func WithPrefix(prefix string) Option {
	return func(g *GCS) {
		g.prefix = prefix
	}
}

// WithClientOptions passes options such as an emulator endpoint to the storage client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(g *GCS) {
		g.clientOpts = append(g.clientOpts, opts...)
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	g := &GCS{bucket: bucket}
	for _, opt := range opts {
		opt(g)
	}

	client, err := storage.NewClient(ctx, g.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}
	g.client = client

	return g, nil
}

func (g *GCS) object(key string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(g.prefix + key + ".json")
}

func (g *GCS) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := g.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(interfaces.ErrBlobNotFound, "blob not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	return data, nil
}

func (g *GCS) Put(ctx context.Context, key string, data []byte) error {
	w := g.object(key).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	return nil
}

func (g *GCS) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
