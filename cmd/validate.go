package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var valConfig string

var validateCmd = &cobra.Command{
	Use:   "validate [spec.yaml]",
	Short: "Check a spec without generating",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&valConfig, "config", "c", "", "Settings file (.yaml, .yml or .toml)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	specPath := args[0]
	logger.Info("validating", "spec", specPath)

	settings, err := loadSettings(cmd, valConfig)
	if err != nil {
		return err
	}
	spec, err := loadAndValidate(specPath, settings)
	if err != nil {
		return err
	}

	logger.Debug("spec summary",
		"types", len(spec.Types),
		"enums", spec.Enums.Len(),
		"delegates", spec.Delegates.Len(),
		"functions", spec.Functions.Len(),
		"categories", len(spec.Functions.Categories()))

	if !quiet {
		fmt.Println("Validation passed.")
	}
	return nil
}
