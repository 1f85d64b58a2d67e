// =============================================================================
// XML to EDIFACT Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around the conversion, including:
//   - Inbox scanning
//   - Writing generated EDIFACT files to the outbox
//   - Archival of converted sources and quarantine of rejected ones
//   - Error log and processing summary generation
//   - Archive retention
//
// FILE FLOW:
//   inbox/PO1.XML --converted--> outbox/PO1.edi + archive/PO1.XML
//   inbox/PO2.XML --rejected---> error/PO2.XML  (no output is written)
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultInputPattern matches XML files regardless of extension case.
const DefaultInputPattern = "*.[xX][mM][lL]"

// OutputExtension is appended to generated file names that lack it.
const OutputExtension = ".edi"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// InboxDir is the directory where incoming XML orders are placed.
	InboxDir string

	// OutboxDir is the directory where EDIFACT files are written.
	OutboxDir string

	// ArchiveDir receives sources that were converted successfully.
	ArchiveDir string

	// ErrorDir receives sources that failed, and the run's error log.
	ErrorDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive
	// and error directories.
	// Example: archive/2024/01/15/PO1.XML
	UseTimestampSubdirs bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inboxDir, outboxDir, archiveDir, errorDir string) *FileManager {
	return &FileManager{
		InboxDir:   inboxDir,
		OutboxDir:  outboxDir,
		ArchiveDir: archiveDir,
		ErrorDir:   errorDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InboxDir,
		fm.OutboxDir,
		fm.ArchiveDir,
		fm.ErrorDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans the inbox for files matching the pattern.
//
// PARAMETERS:
//   - pattern: A glob pattern to match files (e.g., "*.XML").
//              If empty, defaults to DefaultInputPattern.
//
// RETURNS:
//   - The matching file paths in lexical order.
//   - An error if the pattern is malformed.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultInputPattern
	}

	files, err := filepath.Glob(filepath.Join(fm.InboxDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan inbox: %w", err)
	}

	// Filter out directories.
	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}

	return result, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// WriteOutputFile writes content to name inside the outbox. The file is
// written under a temporary name first so that a reader polling the outbox
// never sees a partial interchange.
//
// RETURNS:
//   - The path to the written file.
//   - An error if writing fails.
func (fm *FileManager) WriteOutputFile(name, content string) (string, error) {
	if err := os.MkdirAll(fm.OutboxDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create outbox: %w", err)
	}

	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid output file name %q", name)
	}

	outputPath := filepath.Join(fm.OutboxDir, name)
	tmpPath := outputPath + ".tmp"

	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize output file: %w", err)
	}

	return outputPath, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a converted source file to the archive directory.
//
// RETURNS:
//   - The path to the archived file.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := fm.getArchivePath(fm.ArchiveDir, filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// QuarantineInputFile copies a rejected source file to the error directory
// and removes it from the inbox.
//
// RETURNS:
//   - The path to the quarantined copy.
//   - An error if the copy or the removal fails. When the copy fails the
//     source is left in the inbox.
func (fm *FileManager) QuarantineInputFile(filePath string) (string, error) {
	errorPath := fm.getArchivePath(fm.ErrorDir, filePath)

	if err := os.MkdirAll(filepath.Dir(errorPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create error directory: %w", err)
	}

	if err := copyFile(filePath, errorPath); err != nil {
		return "", fmt.Errorf("failed to copy file to error directory: %w", err)
	}
	if err := os.Remove(filePath); err != nil {
		return errorPath, fmt.Errorf("failed to remove original file: %w", err)
	}

	return errorPath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		// Create date-based subdirectory structure.
		now := time.Now()
		subDir := filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(archiveDir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OriginalName returns the base name of path without its extension.
//
// EXAMPLE:
//   inbox/PO_0042.XML -> PO_0042
func OriginalName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             Any other {key} is taken from params, e.g. {original},
//             {order} and {ref}. Path separators in param values are
//             replaced so a value cannot leave the target directory.
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in ".edi".
//
// EXAMPLE:
//   format: "{original}_{ref}"
//   params: {"original": "PO_0042", "ref": "4711001"}
//   output: "PO_0042_4711001.edi"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	// Add custom params.
	for key, value := range params {
		replacements["{"+key+"}"] = sanitizeNamePart(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), OutputExtension) {
		result += OutputExtension
	}

	return result
}

// nameReplacer neutralizes characters that are not allowed inside a single
// path element.
var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// sanitizeNamePart makes value safe to embed in a file name.
func sanitizeNamePart(value string) string {
	value = nameReplacer.Replace(value)
	if value == "." || value == ".." {
		return "_"
	}
	return value
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	ErrorType    string
	ErrorMessage string
	LineNumber   int
	FieldName    string
	FieldValue   string
}

// WriteErrorLog writes error entries to a log file.
//
// PARAMETERS:
//   - entries: The error entries to write.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the error log file, or "" when there are no entries.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", timestamp))

	// Runs that finish within the same second share one log.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	// Write header.
	header := fmt.Sprintf("XML to EDIFACT Converter - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))
	writer.WriteString(header)

	// Write each entry.
	for i, entry := range entries {
		entryStr := fmt.Sprintf("Error #%d\n"+
			"  Timestamp:      %s\n"+
			"  File:           %s\n"+
			"  Error Type:     %s\n"+
			"  Message:        %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorType,
			entry.ErrorMessage)

		if entry.LineNumber > 0 {
			entryStr += fmt.Sprintf("  Order Line:     %d\n", entry.LineNumber)
		}
		if entry.FieldName != "" {
			entryStr += fmt.Sprintf("  Field:          %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			entryStr += fmt.Sprintf("  Value:          %s\n", entry.FieldValue)
		}

		entryStr += "\n"
		writer.WriteString(entryStr)
	}

	// Write footer.
	footer := "================================================================================\n" +
		"End of Error Log\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalLines      int
	TotalSegments   int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully converted file.
type ProcessedFileInfo struct {
	InputFile      string
	OutputFile     string
	ArchivePath    string
	OrderNumber    string
	InterchangeRef int
	Lines          int
	Segments       int
	ProcessTime    time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorPath    string
	ErrorMessage string
	ErrorType    string
}

// WriteSummaryLog writes a processing summary to a log file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	// Write header.
	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("XML to EDIFACT Converter - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:        %d\n"+
		"  Successful:         %d\n"+
		"  Failed:             %d\n"+
		"  Total Order Lines:  %d\n"+
		"  Total Segments:     %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalLines,
		summary.TotalSegments)
	writer.WriteString(header)

	// Write successful files.
	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			writer.WriteString(fmt.Sprintf("  Input:        %s\n", pf.InputFile))
			writer.WriteString(fmt.Sprintf("  Output:       %s\n", pf.OutputFile))
			writer.WriteString(fmt.Sprintf("  Order Number: %s\n", pf.OrderNumber))
			writer.WriteString(fmt.Sprintf("  Reference:    %d\n", pf.InterchangeRef))
			writer.WriteString(fmt.Sprintf("  Lines:        %d\n", pf.Lines))
			writer.WriteString(fmt.Sprintf("  Segments:     %d\n", pf.Segments))
			writer.WriteString(fmt.Sprintf("  Process Time: %s\n\n", pf.ProcessTime.String()))
		}
	}

	// Write failed files.
	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			writer.WriteString(fmt.Sprintf("  File:  %s\n", ff.InputFile))
			writer.WriteString(fmt.Sprintf("  Type:  %s\n", ff.ErrorType))
			writer.WriteString(fmt.Sprintf("  Error: %s\n\n", ff.ErrorMessage))
		}
	}

	// Write footer.
	footer := "================================================================================\n" +
		"End of Summary\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldArchives removes archive files older than the specified duration.
//
// PARAMETERS:
//   - archiveDir: The archive directory to clean.
//   - maxAge: The maximum age of files to keep.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(archiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}
