// =============================================================================
// XML to EDIFACT Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (edifact-converter)
//   ├── processCmd  (edifact-converter process)
//   ├── encodeCmd   (edifact-converter encode <file>)
//   ├── validateCmd (edifact-converter validate [files...])
//   └── versionCmd  (edifact-converter version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --env-file, --verbose)
//   2. Loading the .env file into the environment
//   3. Building the configuration and logger used by the subcommands
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/config"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// envFile holds the path to the dotenv file loaded before configuration.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "edifact-converter",
	Short: "XML to EDIFACT Converter - Turn XML purchase orders into EDIFACT ORDERS messages",
	Long: `XML to EDIFACT Converter picks up XML purchase orders from an inbox
directory and writes one EDIFACT ORDERS (D.96A, EAN008) interchange per order
to an outbox directory.

Key Features:
  - Fixed ORDERS segment layout with NAD address blocks per trading partner
  - Party address overrides via YAML or an XLSX workbook
  - Optional strict validation (mandatory fields, GS1 check digits)
  - Automatic archival of converted orders and quarantine of rejected ones
  - One-shot or polling (--watch) operation

Example Usage:
  edifact-converter process                    # Convert everything in the inbox
  edifact-converter process --watch            # Keep polling the inbox
  edifact-converter encode order.xml           # Print the EDIFACT text of one order
  edifact-converter validate                   # Check configuration and party table`,

	SilenceUsage: true,

	// PersistentPreRunE loads the .env file before any subcommand reads
	// configuration. A missing file is not an error.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to a dotenv file loaded into the environment",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads the main configuration and applies --verbose.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg. When toFile is false the
// log file is left untouched and entries go to stderr only.
func newLogger(cfg *config.MainConfig, toFile bool) (*logrus.Logger, io.Closer, error) {
	if !toFile {
		return logging.NewWithOutput(os.Stderr, cfg.LogLevel, "")
	}
	return logging.New(cfg.LogLevel, cfg.LogFile)
}
