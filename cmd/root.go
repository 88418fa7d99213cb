package cmd

import (
	"fmt"
	"os"

	"dataapi/cmd/serve"
	"dataapi/cmd/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dataapi",
	Short: "Read-only HTTP API over a document collection",
	Long: `A small HTTP service that returns every document of one MongoDB collection
(or DynamoDB table) as a JSON array on GET /api/data.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.ServeCmd)
	rootCmd.AddCommand(version.VersionCmd)
}
