// =============================================================================
// XML to EDIFACT Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the
// pipeline for a single inbox file, from XML parsing to the archived source.
//
// CONVERSION PIPELINE:
//   1. Parse the XML purchase order
//   2. Validate the order (strict mode only)
//   3. Build the EDIFACT ORDERS interchange
//   4. Write the output file to the outbox
//   5. Archive the source file
//
// On any failure no output is left in the outbox and the source is moved
// to the error directory.
//
// CONCURRENCY:
//   Files are processed one after another. A Converter may be shared by
//   several goroutines when its encoder's reference source allows it, but
//   the inbox flow never does so.
//
// =============================================================================

package converter

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/orderxml"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/types"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/validation"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/pkg/utils"
)

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// ErrorType names the class of a conversion failure in logs and reports.
type ErrorType string

const (
	ErrorTypeMalformedDocument    ErrorType = "MalformedDocument"
	ErrorTypeMissingRequiredField ErrorType = "MissingRequiredField"
	ErrorTypeInvalidFieldValue    ErrorType = "InvalidFieldValue"
	ErrorTypeIO                   ErrorType = "IOError"
)

// Classify returns the ErrorType for an error returned by the pipeline.
func Classify(err error) ErrorType {
	var verrs validation.Errors
	switch {
	case err == nil:
		return ""
	case errors.Is(err, orderxml.ErrMalformedDocument):
		return ErrorTypeMalformedDocument
	case errors.As(err, &verrs):
		return kindErrorType(verrs.Kind())
	default:
		return ErrorTypeIO
	}
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated EDIFACT file.
	// This is empty if processing failed or in dry-run mode.
	OutputFile string

	// ArchivePath is where the source was moved after a successful run.
	ArchivePath string

	// ErrorPath is where the source was moved after a failed run.
	ErrorPath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// ErrorType classifies Error.
	ErrorType ErrorType

	// Message is the encoded interchange. Nil if encoding was not reached.
	Message *edifact.Message

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// OrderNumber is the BGM document number.
	OrderNumber string

	// LinesEncoded is the number of LIN groups written.
	LinesEncoded int

	// SegmentCount is the value written in UNT.
	SegmentCount int

	// InterchangeRef is the UNB/UNH/UNT/UNZ reference.
	InterchangeRef int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options controls the file pipeline.
type Options struct {
	// OutputNameFormat is passed to utils.GenerateOutputFileName.
	OutputNameFormat string

	// Strict validates every order before encoding.
	Strict bool

	// DryRun parses and encodes without writing or moving any file.
	DryRun bool
}

// Converter runs the conversion pipeline against inbox files.
type Converter struct {
	encoder   *edifact.Encoder
	validator *validation.Validator
	files     *utils.FileManager
	options   Options
	logger    logrus.FieldLogger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter.
//
// PARAMETERS:
//   - encoder: The EDIFACT encoder.
//   - files: The file manager over the inbox, outbox, archive and error
//     directories.
//   - options: Pipeline options.
//   - logger: Destination for progress and failure logs. Nil discards them.
func New(encoder *edifact.Encoder, files *utils.FileManager, options Options, logger logrus.FieldLogger) *Converter {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if options.OutputNameFormat == "" {
		options.OutputNameFormat = "{original}" + utils.OutputExtension
	}

	c := &Converter{
		encoder: encoder,
		files:   files,
		options: options,
		logger:  logger,
	}
	if options.Strict {
		c.validator = validation.NewValidator()
	}
	return c
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode parses the XML order at path, validates it in strict mode and
// builds its interchange. No file is written or moved.
func (c *Converter) Encode(path string) (*types.OrderDocument, *edifact.Message, error) {
	doc, err := orderxml.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	if c.validator != nil {
		if err := c.validator.Validate(doc); err != nil {
			return doc, nil, err
		}
	}

	return doc, c.encoder.Build(doc), nil
}

// Text renders msg with the encoder's layout.
func (c *Converter) Text(msg *edifact.Message) string {
	return msg.Text(c.encoder.Options().Layout)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for one inbox file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run(path string) Result {
	startTime := time.Now()
	result := Result{FilePath: path}
	log := c.logger.WithField("file", path)

	log.Info("Processing file")

	// =========================================================================
	// STEP 1-3: PARSE, VALIDATE AND ENCODE
	// =========================================================================

	doc, msg, err := c.Encode(path)
	if err != nil {
		return c.fail(result, err, startTime)
	}

	result.Message = msg
	result.Stats.OrderNumber = doc.Header.OrderNumber
	result.Stats.LinesEncoded = msg.LineCount
	result.Stats.SegmentCount = msg.SegmentCount
	result.Stats.InterchangeRef = msg.InterchangeRef

	log.WithFields(logrus.Fields{
		"order":           doc.Header.OrderNumber,
		"lines":           msg.LineCount,
		"segments":        msg.SegmentCount,
		"interchange_ref": msg.InterchangeRef,
	}).Debug("Encoded order")

	if c.options.DryRun {
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		log.Info("Dry run: no files written")
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT FILE
	// =========================================================================

	name := utils.GenerateOutputFileName(c.options.OutputNameFormat, map[string]string{
		"original": utils.OriginalName(path),
		"order":    doc.Header.OrderNumber,
		"ref":      strconv.Itoa(msg.InterchangeRef),
	})

	outputPath, err := c.files.WriteOutputFile(name, c.Text(msg))
	if err != nil {
		return c.fail(result, errors.Wrap(err, "failed to write output"), startTime)
	}

	// =========================================================================
	// STEP 5: ARCHIVE SOURCE FILE
	// =========================================================================

	archivePath, err := c.files.ArchiveInputFile(path)
	if err != nil {
		// Leaving the output would have the source converted twice on the
		// next run.
		if rmErr := os.Remove(outputPath); rmErr != nil {
			log.WithError(rmErr).Error("Failed to remove output after archive failure")
		}
		return c.fail(result, errors.Wrap(err, "failed to archive source"), startTime)
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.OutputFile = outputPath
	result.ArchivePath = archivePath
	result.Stats.ProcessingTime = time.Since(startTime)

	log.WithFields(logrus.Fields{
		"output":  outputPath,
		"archive": archivePath,
	}).Info("Converted successfully")

	return result
}

// RunAll processes paths in order. A failing file does not stop the batch.
func (c *Converter) RunAll(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, c.Run(path))
	}
	return results
}

// fail records err on result and moves the source to the error directory.
func (c *Converter) fail(result Result, err error, startTime time.Time) Result {
	result.Success = false
	result.Error = err
	result.ErrorType = Classify(err)
	result.Message = nil

	log := c.logger.WithFields(logrus.Fields{
		"file":       result.FilePath,
		"error_type": result.ErrorType,
	})
	log.WithError(err).Error("Conversion failed")

	if !c.options.DryRun {
		errorPath, qErr := c.files.QuarantineInputFile(result.FilePath)
		if qErr != nil {
			log.WithError(qErr).Error("Failed to move source to error directory")
		}
		result.ErrorPath = errorPath
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// REPORTING
// =============================================================================

// ErrorLogEntries converts the failed results into error log entries. A
// validation failure yields one entry per offending field.
func ErrorLogEntries(results []Result) []utils.ErrorLogEntry {
	var entries []utils.ErrorLogEntry
	now := time.Now()

	for _, r := range results {
		if r.Success || r.Error == nil {
			continue
		}

		var verrs validation.Errors
		if errors.As(r.Error, &verrs) {
			for _, v := range verrs {
				entries = append(entries, utils.ErrorLogEntry{
					Timestamp:    now,
					FileName:     r.FilePath,
					ErrorType:    string(kindErrorType(v.Kind)),
					ErrorMessage: v.Error(),
					LineNumber:   v.Line,
					FieldName:    v.Field,
					FieldValue:   v.Value,
				})
			}
			continue
		}

		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    now,
			FileName:     r.FilePath,
			ErrorType:    string(r.ErrorType),
			ErrorMessage: r.Error.Error(),
		})
	}

	return entries
}

// Summarize builds the processing summary for a run.
func Summarize(results []Result, start, end time.Time) utils.ProcessingSummary {
	summary := utils.ProcessingSummary{
		StartTime:  start,
		EndTime:    end,
		TotalFiles: len(results),
	}

	for _, r := range results {
		if r.Success {
			summary.SuccessfulFiles++
			summary.TotalLines += r.Stats.LinesEncoded
			summary.TotalSegments += r.Stats.SegmentCount
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:      r.FilePath,
				OutputFile:     r.OutputFile,
				ArchivePath:    r.ArchivePath,
				OrderNumber:    r.Stats.OrderNumber,
				InterchangeRef: r.Stats.InterchangeRef,
				Lines:          r.Stats.LinesEncoded,
				Segments:       r.Stats.SegmentCount,
				ProcessTime:    r.Stats.ProcessingTime,
			})
			continue
		}

		summary.FailedFiles++
		msg := ""
		if r.Error != nil {
			msg = r.Error.Error()
		}
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    r.FilePath,
			ErrorPath:    r.ErrorPath,
			ErrorMessage: msg,
			ErrorType:    string(r.ErrorType),
		})
	}

	return summary
}

func kindErrorType(k validation.Kind) ErrorType {
	if k == validation.KindMissingRequiredField {
		return ErrorTypeMissingRequiredField
	}
	return ErrorTypeInvalidFieldValue
}
