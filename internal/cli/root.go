package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finshield",
	Short: "Load transaction data into a cloud data warehouse",
	Long: `finshield loads tabular transaction data into a warehouse table.

The destination table is created from the data's inferred schema when it does
not exist (an existing table is never altered), then rows are sent through the
direct insert path in sequential chunks.

Credentials are read from the environment (a .env file in the working
directory is loaded first) and from finshield.yaml.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Warehouse connection failed
  12 - Column names collide after normalization
  13 - Table provisioning failed
  14 - Bulk load failed (rows may be partially committed)
  15 - Input dataset is malformed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
