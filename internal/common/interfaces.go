package common

import (
	"context"
	"encoding/json"
)

// Document is a single stored document rendered as a JSON object, with the
// store's identifier field already removed.
type Document = json.RawMessage

// Fetcher retrieves every document of one collection.
type Fetcher interface {
	// FetchAll opens a connection, reads the whole collection and releases
	// the connection before returning. The result is never partial.
	FetchAll(ctx context.Context) ([]Document, error)
}

// ConfigProvider is the interface for providing configuration settings.
type ConfigProvider interface {
	GetStore() string
	GetMongoURI() string
	GetMongoDB() string
	GetMongoCollection() string
	GetDynamoEndpoint() string
	GetDynamoTable() string
	GetDynamoIDAttribute() string
	GetAWSRegion() string
}
