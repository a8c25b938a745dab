package redis

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
)

// DefaultPrefix is prepended to every storage key
const DefaultPrefix = "logiclog:"

// Redis stores each key as one string value
type Redis struct {
	client *goredis.Client
	prefix string
}

var _ interfaces.BlobStore = &Redis{}

type Option func(*Redis)

// WithPrefix replaces DefaultPrefix
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// New connects to addr and checks the connection with PING
func New(ctx context.Context, addr, password string, db int, opts ...Option) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr), goerr.V("db", db))
	}

	r := &Redis{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, goerr.Wrap(interfaces.ErrBlobNotFound, "blob not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get blob", goerr.V("key", key))
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return goerr.Wrap(err, "failed to put blob", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
