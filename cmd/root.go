// =============================================================================
// Herbarium Atlas - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (herbarium)
//   ├── processCmd (herbarium process <survey> <atlas-output>)
//   ├── batchCmd   (herbarium batch)
//   ├── checkCmd   (herbarium check <survey>...)
//   ├── configCmd  (herbarium config show|init)
//   └── versionCmd (herbarium version)
//
// INITIALIZATION (PersistentPreRunE):
//   1. Load .env from the working directory, if present
//   2. Build the layered configuration (flags > env > file > defaults)
//   3. Build the zap logger from log_level (or debug with --verbose)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/herbarium-atlas/internal/config"
	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file (--config).
var cfgFile string

// verbose forces debug logging.
var verbose bool

var (
	// settings is the layered configuration source for this invocation.
	settings *viper.Viper

	// appConfig is the decoded and validated configuration.
	appConfig *config.MainConfig

	// logger is built in PersistentPreRunE; commands never see it nil.
	logger = zap.NewNop()

	// catalogs is shared by every conversion in the process.
	catalogs *reference.CatalogCache
)

// skipConfigAnnotation marks commands that must run without a valid config.
const skipConfigAnnotation = "skip_config"

// flagKeys maps command flags to configuration keys. A flag only overrides
// the configuration when it is set on the command line.
var flagKeys = map[string]string{
	"taxa":        "reference.taxa_file",
	"observers":   "reference.observers_file",
	"locations":   "reference.locations_file",
	"template":    "atlas.template_file",
	"sheet":       "survey.sheet",
	"encoding":    "survey.csv_encoding",
	"parquet":     "parquet_export",
	"input-dir":   "input_dir",
	"output-dir":  "output_dir",
	"output-name": "output_name_format",
	"archive":     "archive_on_success",
	"log-level":   "log_level",
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "herbarium",
	Short: "Herbarium Atlas - Convert herbarium field surveys to wildlife atlas CSV",
	Long: `Herbarium Atlas reads free-form field-survey spreadsheets, recognises
taxa, observers, dates, locations and manual totals against reference lists,
validates the survey and writes a CSV in the wildlife atlas import layout.

Example Usage:
  herbarium process "Berowra Creek 150509.xlsx" atlas.csv
  herbarium check surveys/*.xlsx
  herbarium batch --config ./herbarium.yaml
  herbarium config show`,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		v, err := config.NewViper(cfgFile)
		if err != nil {
			return err
		}
		bindFlags(v, cmd.Flags())
		settings = v

		if cmd.Annotations[skipConfigAnnotation] == "" {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			appConfig = cfg
			catalogs = reference.NewCatalogCache(cfg.Reference.CacheTTL)
		}

		logger, err = buildLogger(v.GetString("log_level"), verbose)
		if err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("Using config file", zap.String("path", used))
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./herbarium.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// =============================================================================
// HELPERS
// =============================================================================

// bindFlags binds every flag of the running command that has a
// configuration key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

// buildLogger creates the process logger. Output goes to stderr so it never
// mixes with CSV written to stdout.
func buildLogger(level string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		atomic, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		cfg.Level = atomic
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	built, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return built, nil
}
