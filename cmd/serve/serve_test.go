package serve

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataapi/internal/common"
	"dataapi/internal/config"
	"dataapi/internal/dynamo"
	"dataapi/internal/flags"
	"dataapi/internal/mongo"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{RunE: runServe}
	flags.AddServerFlags(cmd)
	flags.AddMongoFlags(cmd)
	flags.AddDynamoFlags(cmd)
	flags.AddLogFlags(cmd)
	cmd.SetContext(context.Background())
	cmd.SetErr(&bytes.Buffer{})
	return cmd
}

func TestRunServe_InvalidStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("store", "redis"))

	err := runServe(cmd, nil)
	require.Error(t, err)

	var cfgErr *common.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunServe_DynamoRequiresTable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("store", "dynamo"))

	err := runServe(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dynamo_table")
}

func TestNewFetcher(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		Store:           config.StoreMongo,
		MongoHost:       "localhost",
		MongoPort:       "27017",
		MongoDB:         "db",
		MongoCollection: "coll",
	}
	assert.IsType(t, &mongo.Fetcher{}, newFetcher(cfg, logger))

	cfg.Store = config.StoreDynamo
	cfg.DynamoTable = "readings"
	cfg.DynamoIDAttribute = "id"
	assert.IsType(t, &dynamo.Fetcher{}, newFetcher(cfg, logger))
}
