package version

import (
	"fmt"

	"dataapi/internal/version"

	"github.com/spf13/cobra"
)

// VersionCmd represents the version command.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of dataapi`,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) {
	fmt.Fprint(cmd.OutOrStdout(), version.GetVersionInfo())
}
