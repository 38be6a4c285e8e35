package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	logLevelNames     = []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG", "NOTSET"}
	modeNames         = []string{"consolidated", "per-pair"}
	sheetsSourceNames = []string{"google", "xlsx"}
	dialectNames      = []string{"redshift", "postgres"}
	authNames         = []string{"standard", "aws-iam", "azure", "google"}
)

// completeFrom provides shell completion for a fixed set of flag values.
func completeFrom(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(strings.ToLower(v), strings.ToLower(toComplete)) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}
