package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per storage key
const DefaultCollection = "logiclog"

// blobDoc is the Firestore document holding one blob. A document is limited
// to 1 MiB, which bounds the size of a collection stored this way.
type blobDoc struct {
	Data      []byte    `firestore:"Data"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.BlobStore = &Firestore{}

type Option func(*Firestore)

// WithCollection changes the collection blobs are written to
func WithCollection(name string) Option {
	return func(f *Firestore) {
		f.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrBlobNotFound, "blob not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get blob", goerr.V("key", key))
	}

	var d blobDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal blob", goerr.V("key", key))
	}

	return d.Data, nil
}

func (f *Firestore) Put(ctx context.Context, key string, data []byte) error {
	d := &blobDoc{
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.client.Collection(f.collection).Doc(key).Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to put blob", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
