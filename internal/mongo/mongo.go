package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connector opens a new client for uri. Every successful call must be paired
// with exactly one Client.Disconnect.
type Connector func(ctx context.Context, uri string) (Client, error)

// Client defines the MongoDB client operations needed by Fetcher.
type Client interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Collection(database, collection string) Collection
	Disconnect(ctx context.Context) error
}

// Collection defines the MongoDB collection operations needed by Fetcher.
type Collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (Cursor, error)
}

// Cursor defines the MongoDB cursor operations needed by Fetcher.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	Close(ctx context.Context) error
	Err() error
}

// Connect creates a MongoDB client for uri using the driver defaults for
// timeouts and server selection.
func Connect(ctx context.Context, uri string) (Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &mongoClientWrapper{client}, nil
}

// mongoClientWrapper wraps *mongo.Client to implement Client interface.
type mongoClientWrapper struct {
	*mongo.Client
}

// Collection returns a handle on database.collection.
func (w *mongoClientWrapper) Collection(database, collection string) Collection {
	return &mongoCollectionWrapper{w.Client.Database(database).Collection(collection)}
}

// mongoCollectionWrapper wraps *mongo.Collection to implement Collection interface.
type mongoCollectionWrapper struct {
	Collection *mongo.Collection
}

// Find executes a MongoDB find operation on the wrapped collection.
func (w *mongoCollectionWrapper) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (Cursor, error) {
	cursor, err := w.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursorWrapper{cursor}, nil
}

// mongoCursorWrapper wraps *mongo.Cursor to implement Cursor interface.
type mongoCursorWrapper struct {
	*mongo.Cursor
}
