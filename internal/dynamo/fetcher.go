package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"dataapi/internal/common"
	"dataapi/internal/transformer"
)

const databaseName = "DynamoDB"

// ClientFactory builds a client used for a single FetchAll call.
type ClientFactory func(ctx context.Context) (dynamodb.ScanAPIClient, error)

// Fetcher reads a whole DynamoDB table with a full scan.
type Fetcher struct {
	newClient   ClientFactory
	table       string
	transformer *transformer.DocTransformer
	logger      logrus.FieldLogger
}

// NewFetcher creates a Fetcher for the table named in cfg. The configured
// identifier attribute is removed from every item.
func NewFetcher(cfg common.ConfigProvider, logger logrus.FieldLogger) *Fetcher {
	factory := func(ctx context.Context) (dynamodb.ScanAPIClient, error) {
		return Connect(ctx, cfg)
	}
	return newFetcher(factory, cfg.GetDynamoTable(), cfg.GetDynamoIDAttribute(), logger)
}

func newFetcher(factory ClientFactory, table, idAttribute string, logger logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		newClient:   factory,
		table:       table,
		transformer: transformer.NewDocTransformer(idAttribute),
		logger:      logger.WithField("table", table),
	}
}

// FetchAll scans every page of the table and returns all items.
func (f *Fetcher) FetchAll(ctx context.Context) ([]common.Document, error) {
	client, err := f.newClient(ctx)
	if err != nil {
		return nil, &common.DatabaseConnectionError{Database: databaseName, Reason: err.Error(), Err: err}
	}

	paginator := dynamodb.NewScanPaginator(client, &dynamodb.ScanInput{
		TableName: aws.String(f.table),
	})

	var items []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) {
				return nil, &common.DatabaseConnectionError{Database: databaseName, Reason: err.Error(), Err: err}
			}
			return nil, &common.DatabaseOperationError{Database: databaseName, Op: "scan", Reason: err.Error(), Err: err}
		}

		var pageItems []map[string]any
		if err := attributevalue.UnmarshalListOfMapsWithOptions(page.Items, &pageItems, useNumber); err != nil {
			return nil, &common.DatabaseOperationError{Database: databaseName, Op: "unmarshal", Reason: err.Error(), Err: err}
		}
		for _, item := range pageItems {
			items = append(items, jsonNumbers(item).(map[string]any))
		}
	}

	out, err := f.transformer.TransformMaps(items)
	if err != nil {
		return nil, &common.DatabaseOperationError{Database: databaseName, Op: "transform", Reason: err.Error(), Err: err}
	}

	f.logger.WithField("documents", len(out)).Debug("scanned table")
	return out, nil
}

func useNumber(o *attributevalue.DecoderOptions) {
	o.UseNumber = true
}

// jsonNumbers replaces attributevalue.Number values with json.Number so N
// attributes are written as the exact digits DynamoDB returned.
func jsonNumbers(v any) any {
	switch tv := v.(type) {
	case attributevalue.Number:
		return json.Number(tv)
	case []attributevalue.Number:
		out := make([]json.Number, len(tv))
		for i, n := range tv {
			out[i] = json.Number(n)
		}
		return out
	case map[string]any:
		for k, elem := range tv {
			tv[k] = jsonNumbers(elem)
		}
		return tv
	case []any:
		for i, elem := range tv {
			tv[i] = jsonNumbers(elem)
		}
		return tv
	default:
		return v
	}
}
