package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dataapi/internal/common"
	"dataapi/internal/config"
	"dataapi/internal/dynamo"
	"dataapi/internal/flags"
	"dataapi/internal/logging"
	"dataapi/internal/metrics"
	"dataapi/internal/mongo"
	"dataapi/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ServeCmd represents the serve command.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the collection over HTTP",
	Long: `Start the HTTP server. GET /api/data returns every document of the
configured collection as a JSON array, without the store's identifier field.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{}

	// Load configuration from environment variables and config file.
	if err := cfg.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// Explicit flags take precedence.
	if err := cfg.OverrideConfigWithFlags(cmd); err != nil {
		return fmt.Errorf("failed to apply flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	fetcher := newFetcher(cfg, logger)
	database, collection := cfg.Source()
	srv := server.New(server.Options{
		ListenAddr:    cfg.ListenAddr,
		CORSOrigins:   cfg.CORSOrigins,
		CORSHeaders:   cfg.CORSHeaders,
		ExposeMetrics: cfg.MetricsEnabled,
		Database:      database,
		Collection:    collection,
	}, fetcher, metrics.NewMetrics(), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// newFetcher selects the data access backend for cfg.
func newFetcher(cfg *config.Config, logger *logrus.Logger) common.Fetcher {
	if cfg.Store == config.StoreDynamo {
		logger.WithFields(logrus.Fields{
			"endpoint": cfg.DynamoEndpoint,
			"table":    cfg.DynamoTable,
		}).Info("using DynamoDB store")
		return dynamo.NewFetcher(cfg, logger)
	}
	logger.WithField("uri", cfg.RedactedMongoURI()).Info("using MongoDB store")
	return mongo.NewFetcher(cfg, logger)
}

func init() {
	flags.AddServerFlags(ServeCmd)
	flags.AddMongoFlags(ServeCmd)
	flags.AddDynamoFlags(ServeCmd)
	flags.AddLogFlags(ServeCmd)
}
