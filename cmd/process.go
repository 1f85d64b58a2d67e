// =============================================================================
// XML to EDIFACT Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command for
// converting inbox orders to EDIFACT.
//
// COMMAND USAGE:
//   edifact-converter process [flags]
//
// FLAGS:
//   --dry-run   : Parse and encode without writing or moving files
//   --file      : Process only the given file(s) instead of scanning the inbox
//   --watch     : Keep polling the inbox until interrupted
//   --interval  : Poll interval for --watch (overrides poll_interval)
//   --summary   : Write a processing summary next to the log file after each run
//
// PROCESSING PIPELINE:
//   1. Load configuration, party table and logger
//   2. Apply archive retention
//   3. Discover XML files in the inbox
//   4. For each file, in name order:
//      a. Parse the XML order
//      b. Validate it (strict mode)
//      c. Encode the ORDERS interchange
//      d. Write the output file and archive the source
//      e. On failure, move the source to the error directory
//   5. Write the error log and the optional summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/config"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/converter"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun parses and encodes without writing output files.
var dryRun bool

// inputFiles restricts processing to specific files.
var inputFiles []string

// watch keeps polling the inbox.
var watch bool

// pollInterval overrides the configured poll interval when non-zero.
var pollInterval time.Duration

// writeSummary writes processing_summary_<timestamp>.txt into the log
// directory after each run.
var writeSummary bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert XML purchase orders in the inbox to EDIFACT",
	Long: `The process command scans the inbox directory for XML purchase orders and
converts each one to an EDIFACT ORDERS interchange.

Files are processed one at a time in name order. A failing file does not stop
the run.

On successful processing:
  - The EDIFACT file is written to the outbox directory
  - The original XML is moved to the archive directory

On error:
  - No output file is written
  - The original XML is moved to the error directory
  - The failure is recorded in an error log in the error directory`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context())
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and encode without writing or moving files",
	)

	processCmd.Flags().StringSliceVar(
		&inputFiles,
		"file",
		nil,
		"Process only these files instead of scanning the inbox",
	)

	processCmd.Flags().BoolVar(
		&watch,
		"watch",
		false,
		"Keep polling the inbox until interrupted",
	)

	processCmd.Flags().DurationVar(
		&pollInterval,
		"interval",
		0,
		"Poll interval for --watch (default from configuration)",
	)

	processCmd.Flags().BoolVar(
		&writeSummary,
		"summary",
		false,
		"Write a processing summary next to the log file after each run",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess is the main function that orchestrates the conversion pipeline.
func runProcess(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// A fixed file list is gone from the inbox after the first pass.
	if watch && len(inputFiles) > 0 {
		return fmt.Errorf("--file cannot be combined with --watch")
	}

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, !dryRun)
	if err != nil {
		return err
	}
	defer closer.Close()

	encoderOptions, err := cfg.EncoderOptions()
	if err != nil {
		return fmt.Errorf("failed to build encoder options: %w", err)
	}

	files := cfg.FileManager()
	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	conv := converter.New(edifact.New(encoderOptions), files, converter.Options{
		OutputNameFormat: cfg.OutputNameFormat,
		Strict:           cfg.Edifact.Strict,
		DryRun:           dryRun,
	}, logger)

	logger.WithFields(logrus.Fields{
		"inbox":      cfg.InboxDir,
		"outbox":     cfg.OutboxDir,
		"count_rule": encoderOptions.CountRule.Name(),
		"strict":     cfg.Edifact.Strict,
		"dry_run":    dryRun,
	}).Debug("Configuration loaded")

	if !watch {
		return runOnce(cfg, files, conv, logger)
	}

	// =========================================================================
	// WATCH MODE
	// =========================================================================

	interval := cfg.PollInterval
	if pollInterval > 0 {
		interval = pollInterval
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("interval", interval).Info("Watching inbox")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := runOnce(cfg, files, conv, logger); err != nil {
			logger.WithError(err).Error("Run failed")
		}

		select {
		case <-ctx.Done():
			logger.Info("Stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// runOnce processes the inbox a single time.
func runOnce(cfg *config.MainConfig, files *utils.FileManager, conv *converter.Converter, logger logrus.FieldLogger) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 2: ARCHIVE RETENTION
	// =========================================================================

	if cfg.ArchiveRetention > 0 && !dryRun {
		removed, err := utils.CleanOldArchives(cfg.ArchiveDir, cfg.ArchiveRetention)
		if err != nil {
			logger.WithError(err).Warn("Failed to clean archive")
		} else if removed > 0 {
			logger.WithField("removed", removed).Info("Cleaned old archived orders")
		}
	}

	// =========================================================================
	// STEP 3: DISCOVER INPUT FILES
	// =========================================================================

	paths := inputFiles
	if len(paths) == 0 {
		var err error
		paths, err = files.DiscoverInputFiles(cfg.InputPattern)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(paths) == 0 {
		logger.WithField("inbox", cfg.InboxDir).Warn("No files found in inbox")
		return nil
	}

	logger.WithField("count", len(paths)).Info("Found files to process")

	// =========================================================================
	// STEP 4: PROCESS FILES
	// =========================================================================

	results := conv.RunAll(paths)

	// =========================================================================
	// STEP 5: REPORTS
	// =========================================================================

	successCount := 0
	for _, result := range results {
		switch {
		case result.Success && dryRun:
			successCount++
			fmt.Printf("  ✓ %s (%d segments, dry run)\n", filepath.Base(result.FilePath), result.Stats.SegmentCount)
		case result.Success:
			successCount++
			fmt.Printf("  ✓ %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
		default:
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
		}
	}
	errorCount := len(results) - successCount

	if !dryRun {
		logPath, err := utils.WriteErrorLog(converter.ErrorLogEntries(results), cfg.ErrorDir)
		if err != nil {
			logger.WithError(err).Error("Failed to write error log")
		} else if logPath != "" {
			logger.WithField("path", logPath).Info("Error log written")
		}

		if writeSummary {
			summaryPath, err := utils.WriteSummaryLog(converter.Summarize(results, startTime, time.Now()), summaryDir(cfg))
			if err != nil {
				logger.WithError(err).Error("Failed to write summary")
			} else {
				logger.WithField("path", summaryPath).Info("Summary written")
			}
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", len(results))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}

// summaryDir is where run summaries go. The outbox is polled by EDI
// consumers, so reports stay out of it.
func summaryDir(cfg *config.MainConfig) string {
	if cfg.LogFile != "" {
		return filepath.Dir(cfg.LogFile)
	}
	return cfg.ErrorDir
}
