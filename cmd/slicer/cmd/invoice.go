package cmd

import (
	"context"
	"fmt"
	"os"

	"financial-report-slicer/cmd/slicer/config"
	"financial-report-slicer/internal/reconciler"
	"financial-report-slicer/internal/reporter"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the invoice command
var (
	currencyFile      string
	ledgerFile        string
	localCurrency     string
	entityNames       []string
	outputFormat      string
	outputFile        string
	asOf              string
	includeCurrencies bool
	showProgress      bool
)

// Settings derived from the flags by validateInvoiceFlags
var (
	reconcilerConfig *reconciler.Config
	reportConfig     *reporter.ReportConfig
)

// invoiceCmd represents the invoice command
var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Build the intercompany invoices of one month",
	Long: `Invoice reads the currency summary and the sales ledger of one month and
builds one invoice per legal entity, split by country. Item amounts are taken
after tax and converted to the local currency with the rates of the summary.

The local currency defaults to the bank account currency used by most rows of
the currency summary.

Examples:
  # Console report of every entity
  slicer invoice --currency-file financial_report.csv --ledger-file sales.txt

  # Markdown invoice for Europe and Japan only
  slicer invoice -c financial_report.csv -l sales.txt --entities europe,japan \
    --output-format markdown --output-file invoices.md

  # Workbook with one sheet per invoice
  slicer invoice -c financial_report.csv -l sales.txt -f xlsx -o invoices.xlsx

  # Country names as they were on a given day
  slicer invoice -c financial_report.csv -l sales.txt --as-of 2024-10-01`,
	Args:    cobra.NoArgs,
	PreRunE: validateInvoiceFlags,
	RunE:    runInvoice,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	// Input flags
	invoiceCmd.Flags().StringVarP(&currencyFile, "currency-file", "c", "", "path to the currency summary export (required)")
	invoiceCmd.Flags().StringVarP(&ledgerFile, "ledger-file", "l", "", "path to the sales ledger export (required)")

	// Invoice flags
	invoiceCmd.Flags().StringVar(&localCurrency, "local-currency", "", "currency of the invoice totals (default: inferred from the bank accounts)")
	invoiceCmd.Flags().StringSliceVarP(&entityNames, "entities", "e", nil, "comma-separated legal entities to invoice (default: all)")
	invoiceCmd.Flags().StringVar(&asOf, "as-of", "", "date used for country display names (YYYY-MM-DD, default: today)")

	// Output flags
	invoiceCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv, yaml, markdown, html, xlsx")
	invoiceCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	invoiceCmd.Flags().BoolVar(&includeCurrencies, "include-currencies", true, "include the currency records in the report")

	// UI flags
	invoiceCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress indicators")
}

func validateInvoiceFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file and environment)
	currencyFile = viper.GetString("currency-file")
	ledgerFile = viper.GetString("ledger-file")
	localCurrency = viper.GetString("local-currency")
	entityNames = viper.GetStringSlice("entities")
	asOf = viper.GetString("as-of")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	includeCurrencies = viper.GetBool("include-currencies")
	showProgress = viper.GetBool("progress")

	if currencyFile == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "currency-file", nil, nil)
	}
	if ledgerFile == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "ledger-file", nil, nil)
	}

	if err := validateFileExists(currencyFile); err != nil {
		return err
	}
	if err := validateFileExists(ledgerFile); err != nil {
		return err
	}

	var err error
	if reconcilerConfig, err = config.CreateReconcilerConfig(localCurrency, entityNames, asOf); err != nil {
		return err
	}
	if reportConfig, err = config.CreateReportConfig(outputFormat, includeCurrencies); err != nil {
		return err
	}

	return config.ValidateOutput(reportConfig, outputFile)
}

func validateFileExists(filePath string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return errors.FileError(errors.CodeFileNotFound, filePath, err)
	}
	if os.IsPermission(err) {
		return errors.FileError(errors.CodeFilePermission, filePath, err)
	}
	if err != nil {
		return errors.FileError(errors.CodeFileCorrupted, filePath, err)
	}

	if info.IsDir() {
		return errors.FileError(errors.CodeDirectoryError, filePath, nil).
			WithSuggestion("pass the report file, not the directory containing it")
	}

	return nil
}

func runInvoice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.WithComponent("cli")
	log.WithFields(logger.Fields{
		"currency_file": currencyFile,
		"ledger_file":   ledgerFile,
		"output_format": reportConfig.Format,
		"output_file":   outputFile,
	}).Info("Starting invoice run")

	service, err := reconciler.NewService(reconcilerConfig)
	if err != nil {
		return err
	}
	service.WithLogger(logger.GetGlobalLogger())

	if showProgress {
		service.AddProgressCallback(func(p reconciler.Progress) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r[%d/%d] %s", p.CompletedSteps, p.TotalSteps, p.Stage)
			if p.Stage == reconciler.StageCompleted {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		})
	}

	result, err := service.Process(ctx, &reconciler.Request{
		CurrencyFile: currencyFile,
		LedgerFile:   ledgerFile,
	})
	if err != nil {
		return err
	}

	generator, err := reporter.NewSafeReportGenerator(reportConfig, logger.GetGlobalLogger())
	if err != nil {
		return err
	}

	if outputFile != "" {
		written, err := generator.WriteReportFile(result, outputFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", written)
	} else if err := generator.GenerateReportSafely(result, cmd.OutOrStdout()); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nInvoice run completed.\n")
		fmt.Fprintf(cmd.ErrOrStderr(), "Month: %s (%s)\n", result.Month, result.DateRange)
		fmt.Fprintf(cmd.ErrOrStderr(), "Built %d invoices from %d currency records.\n",
			len(result.Invoices), len(result.CurrencyRecords))
		fmt.Fprintf(cmd.ErrOrStderr(), "Total: %.2f %s\n", result.TotalInLocalCurrency(), result.LocalCurrency)
		fmt.Fprintf(cmd.ErrOrStderr(), "Processing time: %v\n", result.ProcessingDuration)
	}

	return nil
}
