package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running",
	Long: `Validate resolves the configuration exactly as run would and prints the
effective values with secrets masked. Nothing is read, written or loaded.

Every missing or malformed field is reported at once. Exit code 10 means the
configuration is not usable.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addSettingsFlags(validateCmd, &settingsFlags)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderSummary(cfg.Summary(), isStyled(out)))
	return nil
}
