package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxload",
	Short: "Load currency-exchange worksheets into a warehouse",
	Long: `fxload reads every worksheet of a currency-exchange spreadsheet, normalizes
the rows to (date, currency_from, currency_to, close), stages them as CSV in
object storage and merges them into a warehouse table in one transaction.

Worksheet titles name the currency pair as <FROM>2<TO>, for example EUR2USD.
Rows already present in the target are never updated.

Configuration is read from fxload.yaml, then PIPELINE_* environment variables
(a .env file in the working directory is loaded first), then command line flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Warehouse connection failed
  12 - Spreadsheet unreadable, bad worksheet label or bad data
  13 - Warehouse load failed (rolled back)
  14 - Artifact could not be written to object storage`,
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
	rootCmd.PersistentFlags().Bool("help", false, "Help for fxload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at DEBUG level (overrides --log-level)")
	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Path to a YAML config file (default: ./fxload.yaml when present)")
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

func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return ""
	}
	return path
}
