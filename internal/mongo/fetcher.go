package mongo

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dataapi/internal/common"
	"dataapi/internal/transformer"
)

const databaseName = "MongoDB"

// Fetcher reads a whole collection over a connection that lives only for the
// duration of one FetchAll call.
type Fetcher struct {
	connect     Connector
	uri         string
	database    string
	collection  string
	transformer *transformer.DocTransformer
	logger      logrus.FieldLogger
}

// NewFetcher creates a Fetcher for the collection named in cfg.
func NewFetcher(cfg common.ConfigProvider, logger logrus.FieldLogger) *Fetcher {
	return newFetcher(Connect, cfg.GetMongoURI(), cfg.GetMongoDB(), cfg.GetMongoCollection(), logger)
}

func newFetcher(connect Connector, uri, database, collection string, logger logrus.FieldLogger) *Fetcher {
	fields := logrus.Fields{
		"database":   database,
		"collection": collection,
	}
	return &Fetcher{
		connect:     connect,
		uri:         uri,
		database:    database,
		collection:  collection,
		transformer: transformer.NewDocTransformer(transformer.MongoIDField),
		logger:      logger.WithFields(fields),
	}
}

// FetchAll returns every document of the collection without its _id field,
// in the order the server returns them. The client is disconnected before
// FetchAll returns, whether or not an error occurred.
func (f *Fetcher) FetchAll(ctx context.Context) ([]common.Document, error) {
	client, err := f.connect(ctx, f.uri)
	if err != nil {
		return nil, &common.DatabaseConnectionError{Database: databaseName, Reason: err.Error(), Err: err}
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			f.logger.WithError(err).Warn("failed to disconnect from MongoDB")
		}
	}()

	// The driver connects lazily; ping so unreachable servers and bad
	// credentials surface as connection errors rather than query errors.
	if err := client.Ping(ctx, nil); err != nil {
		return nil, &common.DatabaseConnectionError{Database: databaseName, Reason: err.Error(), Err: err}
	}

	findOptions := options.Find().SetProjection(bson.D{{Key: transformer.MongoIDField, Value: 0}})
	cursor, err := client.Collection(f.database, f.collection).Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, &common.DatabaseOperationError{Database: databaseName, Op: "find", Reason: err.Error(), Err: err}
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			f.logger.WithError(err).Debug("failed to close cursor")
		}
	}()

	var docs []bson.D
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, &common.DatabaseOperationError{Database: databaseName, Op: "decode", Reason: err.Error(), Err: err}
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, &common.DatabaseOperationError{Database: databaseName, Op: "cursor", Reason: err.Error(), Err: err}
	}

	out, err := f.transformer.TransformBSON(docs)
	if err != nil {
		return nil, &common.DatabaseOperationError{Database: databaseName, Op: "transform", Reason: err.Error(), Err: err}
	}

	f.logger.WithField("documents", len(out)).Debug("fetched collection")
	return out, nil
}
