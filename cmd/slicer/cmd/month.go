package cmd

import (
	"fmt"

	"financial-report-slicer/internal/reconciler"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print the report month of a currency summary",
	Long: `Month prints the month label found in the title row of a currency summary,
such as "September, 2014".

Examples:
  slicer month --currency-file financial_report.csv`,
	Args: cobra.NoArgs,
	RunE: runMonth,
}

func init() {
	rootCmd.AddCommand(monthCmd)

	monthCmd.Flags().StringP("currency-file", "c", "", "path to the currency summary export (required)")
}

func runMonth(cmd *cobra.Command, args []string) error {
	path := viper.GetString("currency-file")
	if path == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "currency-file", nil, nil)
	}

	service, err := reconciler.NewService(nil)
	if err != nil {
		return err
	}
	service.WithLogger(logger.GetGlobalLogger())

	month, ok, err := service.Month(path)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.CategoryParse, errors.CodeNoDataInFile, "no report month in the title row").
			WithContext("file_path", path).
			WithSuggestion("the first row must carry the month in parentheses, e.g. (September, 2014)")
	}

	fmt.Fprintln(cmd.OutOrStdout(), month)
	return nil
}
