package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"financial-report-slicer/cmd/slicer/config"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slicer",
	Short: "Storefront financial report slicer",
	Long: `Slicer turns the monthly financial reports of an app storefront into
intercompany invoices, one per legal entity and split by country.

It reads two exports of the same month:
  - the currency summary (exchange rates, taxes and bank account currencies)
  - the sales ledger (units and amounts per product and country)

Examples:
  slicer invoice --currency-file financial_report.csv --ledger-file sales.txt
  slicer invoice -c financial_report.csv -l sales.txt --entities europe --output-format markdown
  slicer entities --as-of 2024-11-01
  slicer month --currency-file financial_report.csv
  slicer version`,
	Version:           getVersionString(),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context that cancels processing
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading SLICER_ environment variables")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
}

// initConfig loads the dotenv file, the config file and the environment, then
// configures the global logger
func initConfig(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return errors.ConfigurationError(errors.CodeInvalidConfig, "env-file", envFile, err)
		}
	}

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "flag binding", err)
	}

	viper.SetEnvPrefix("SLICER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.ConfigurationError(errors.CodeInvalidConfig, "config", cfgFile, err).
				WithSuggestion("Check that the config file exists and its syntax is valid")
		}
	}

	logConfig, err := config.CreateLoggerConfig(
		viper.GetString("log-level"),
		viper.GetString("log-format"),
		viper.GetString("log-file"),
		viper.GetBool("verbose"),
	)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(logConfig)
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "log", logConfig.Level, err)
	}
	logger.SetGlobalLogger(log)

	if cfgFile != "" {
		log.WithField("file", viper.ConfigFileUsed()).Info("Using config file")
	}

	return nil
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
