// =============================================================================
// XML to EDIFACT Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. Main config file (config.yaml)
//   3. Environment variables (a .env file is loaded into the environment
//      by the CLI before this module runs)
//   4. Command line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/xlsxparser"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/pkg/utils"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InboxDir is scanned for incoming XML purchase orders.
	// Default: "./inbox"
	InboxDir string `yaml:"inbox_dir" env:"INBOX_DIR"`

	// OutboxDir receives the generated EDIFACT files.
	// Default: "./outbox"
	OutboxDir string `yaml:"outbox_dir" env:"OUTBOX_DIR"`

	// ArchiveDir receives source files that were converted successfully.
	// Default: "./archive"
	ArchiveDir string `yaml:"archive_dir" env:"ARCHIVE_DIR"`

	// ErrorDir receives source files that could not be converted, together
	// with the error log of the run.
	// Default: "./error"
	ErrorDir string `yaml:"error_dir" env:"ERROR_DIR"`

	// ArchiveByDate files archived and rejected sources under YYYY/MM/DD
	// subdirectories.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date" env:"ARCHIVE_BY_DATE"`

	// ArchiveRetention removes archived sources older than this at the start
	// of every run. Zero keeps them forever.
	// Default: 0
	ArchiveRetention time.Duration `yaml:"archive_retention" env:"ARCHIVE_RETENTION"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Every entry is also
	// written to stdout.
	// Default: "./logs/edifact.log"
	LogFile string `yaml:"log_file" env:"LOG_FILE"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// InputPattern is the glob matched against file names in the inbox.
	// Default: "*.[xX][mM][lL]"
	InputPattern string `yaml:"input_pattern" env:"INPUT_PATTERN"`

	// OutputNameFormat defines the output file name.
	// Placeholders:
	//   {original}  - Source file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {order}     - Order number
	//   {ref}       - Interchange reference
	// Default: "{original}.edi"
	OutputNameFormat string `yaml:"output_name_format" env:"OUTPUT_NAME_FORMAT"`

	// PollInterval is the delay between inbox scans in watch mode.
	// Default: 30s
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`

	// =========================================================================
	// EDIFACT SETTINGS
	// =========================================================================

	// Edifact controls how messages are rendered.
	Edifact EdifactConfig `yaml:"edifact" envPrefix:"EDIFACT_"`

	// =========================================================================
	// TRADING PARTNER SETTINGS
	// =========================================================================

	// Parties overrides the NAD address blocks, keyed by role (BY, DP, SU).
	Parties map[string]PartyConfig `yaml:"parties"`

	// PartiesWorkbook is an optional XLSX file with the NAD address blocks.
	// Workbook entries win over Parties.
	PartiesWorkbook string `yaml:"parties_workbook" env:"PARTIES_WORKBOOK"`
}

// EdifactConfig holds the encoder settings.
type EdifactConfig struct {
	// Compact writes the interchange as a single line, with the segment
	// terminator as the only delimiter. When false each segment is put on
	// its own line.
	// Default: false
	Compact bool `yaml:"compact" env:"COMPACT"`

	// CountRule selects the UNT segment count rule: "legacy" or "standard".
	// Default: "legacy"
	CountRule string `yaml:"count_rule" env:"COUNT_RULE"`

	// EscapeRelease escapes service characters inside data values.
	// Default: false
	EscapeRelease bool `yaml:"escape_release" env:"ESCAPE_RELEASE"`

	// Strict enables validation of mandatory fields, GS1 check digits,
	// quantities and dates before encoding.
	// Default: false
	Strict bool `yaml:"strict" env:"STRICT"`

	// OrderReference is written in the RFF segment.
	// Default: "API:47362"
	OrderReference string `yaml:"order_reference" env:"ORDER_REFERENCE"`
}

// PartyConfig is one NAD address block.
type PartyConfig struct {
	Name       string `yaml:"name"`
	Street     string `yaml:"street"`
	City       string `yaml:"city"`
	PostalCode string `yaml:"postal_code"`
	Country    string `yaml:"country"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. A file that does
//     not exist is not an error: defaults and environment are used instead.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the configuration is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults and environment only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Overlay environment variables. Variables that are not set leave the
	// YAML values untouched.
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InboxDir == "" {
		config.InboxDir = "./inbox"
	}
	if config.OutboxDir == "" {
		config.OutboxDir = "./outbox"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./archive"
	}
	if config.ErrorDir == "" {
		config.ErrorDir = "./error"
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/edifact.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.InputPattern == "" {
		config.InputPattern = utils.DefaultInputPattern
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}.edi"
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 30 * time.Second
	}
	if config.Edifact.CountRule == "" {
		config.Edifact.CountRule = edifact.LegacyCount.Name()
	}
	if config.Edifact.OrderReference == "" {
		config.Edifact.OrderReference = edifact.DefaultReference
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := edifact.CountRuleByName(config.Edifact.CountRule); err != nil {
		return err
	}

	for role := range config.Parties {
		if _, err := edifact.ParseRole(role); err != nil {
			return err
		}
	}

	if config.ArchiveRetention < 0 {
		return fmt.Errorf("archive retention must not be negative: %s", config.ArchiveRetention)
	}

	if config.PartiesWorkbook != "" {
		if _, err := os.Stat(config.PartiesWorkbook); err != nil {
			return fmt.Errorf("parties workbook: %w", err)
		}
	}

	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// FileManager returns a utils.FileManager over the configured directories.
func (c *MainConfig) FileManager() *utils.FileManager {
	fm := utils.NewFileManager(c.InboxDir, c.OutboxDir, c.ArchiveDir, c.ErrorDir)
	fm.UseTimestampSubdirs = c.ArchiveByDate
	return fm
}

// LoadParties returns the NAD party table: the built-in defaults, then the
// YAML overrides, then the workbook entries.
func (c *MainConfig) LoadParties() (edifact.Parties, error) {
	parties := edifact.DefaultParties()

	overrides := make(edifact.Parties, len(c.Parties))
	for key, p := range c.Parties {
		role, err := edifact.ParseRole(key)
		if err != nil {
			return nil, err
		}
		overrides[role] = edifact.Party{
			Name:       p.Name,
			Street:     p.Street,
			City:       p.City,
			PostalCode: p.PostalCode,
			Country:    p.Country,
		}
	}
	parties = parties.Merge(overrides)

	if c.PartiesWorkbook != "" {
		fromWorkbook, err := xlsxparser.ParseParties(c.PartiesWorkbook)
		if err != nil {
			return nil, err
		}
		parties = parties.Merge(fromWorkbook)
	}

	return parties, nil
}

// EncoderOptions builds the edifact.Options described by the configuration.
// The reference source and clock keep their defaults.
func (c *MainConfig) EncoderOptions() (edifact.Options, error) {
	rule, err := edifact.CountRuleByName(c.Edifact.CountRule)
	if err != nil {
		return edifact.Options{}, err
	}

	parties, err := c.LoadParties()
	if err != nil {
		return edifact.Options{}, err
	}

	opts := edifact.DefaultOptions()
	opts.Parties = parties
	opts.CountRule = rule
	opts.Layout = edifact.ParseLayout(!c.Edifact.Compact)
	opts.EscapeRelease = c.Edifact.EscapeRelease
	opts.OrderReference = c.Edifact.OrderReference

	return opts, nil
}
