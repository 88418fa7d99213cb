package flags

import (
	"github.com/spf13/cobra"
)

// AddServerFlags adds HTTP server flags to the command.
func AddServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("listen-addr", ":5001", "Address the HTTP server listens on.")
	cmd.Flags().StringSlice("cors-origins", []string{"*"}, "Origins allowed to make cross-origin requests.")
	cmd.Flags().StringSlice("cors-headers", []string{"*"}, "Request headers allowed in cross-origin requests (* allows any).")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics.")
	cmd.Flags().String("store", "mongo", "Document store backend (mongo or dynamo).")
}

// AddMongoFlags adds MongoDB-related flags to the command.
func AddMongoFlags(cmd *cobra.Command) {
	cmd.Flags().String("mongo-uri", "", "MongoDB connection string. Overrides host, port and credentials.")
	cmd.Flags().String("mongo-host", "localhost", "MongoDB host.")
	cmd.Flags().String("mongo-port", "27017", "MongoDB port.")
	cmd.Flags().String("mongo-user", "", "MongoDB username.")
	cmd.Flags().String("mongo-password", "", "MongoDB password.")
	cmd.Flags().String("mongo-db", "myDatabase", "MongoDB database name.")
	cmd.Flags().String("mongo-collection", "air_quality_traffic", "MongoDB collection name.")
}

// AddDynamoFlags adds DynamoDB-related flags to the command.
func AddDynamoFlags(cmd *cobra.Command) {
	cmd.Flags().String("dynamo-endpoint", "http://localhost:8000", "DynamoDB endpoint.")
	cmd.Flags().String("dynamo-table", "", "DynamoDB table name.")
	cmd.Flags().String("dynamo-id-attribute", "id", "DynamoDB attribute excluded from responses.")
	cmd.Flags().String("aws-region", "us-east-1", "AWS region.")
}

// AddLogFlags adds logging flags to the command.
func AddLogFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error).")
	cmd.Flags().String("log-format", "text", "Log format (text or json).")
}
