package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "inbox"),
		filepath.Join(root, "outbox"),
		filepath.Join(root, "archive"),
		filepath.Join(root, "error"),
	)
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t)
	writeFile(t, filepath.Join(fm.InboxDir, "b.XML"), "<a/>")
	writeFile(t, filepath.Join(fm.InboxDir, "a.xml"), "<a/>")
	writeFile(t, filepath.Join(fm.InboxDir, "notes.txt"), "skip")
	require.NoError(t, os.Mkdir(filepath.Join(fm.InboxDir, "dir.xml"), 0755))

	files, err := fm.DiscoverInputFiles("")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(fm.InboxDir, "a.xml"),
		filepath.Join(fm.InboxDir, "b.XML"),
	}, files)

	files, err = fm.DiscoverInputFiles("*.XML")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(fm.InboxDir, "b.XML")}, files)

	_, err = fm.DiscoverInputFiles("[")
	require.Error(t, err)
}

func TestDiscoverInputFiles_EmptyInbox(t *testing.T) {
	fm := newTestManager(t)

	files, err := fm.DiscoverInputFiles("")
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestWriteOutputFile(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteOutputFile("PO1.edi", "UNA:+.? '")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(fm.OutboxDir, "PO1.edi"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "UNA:+.? '", string(data))
	require.False(t, FileExists(path+".tmp"))
}

func TestWriteOutputFile_RejectsPaths(t *testing.T) {
	fm := newTestManager(t)

	for _, name := range []string{"", ".", "..", "../escaped.edi", "sub/x.edi", filepath.Join("..", "x.edi")} {
		_, err := fm.WriteOutputFile(name, "UNA:+.? '")
		require.Error(t, err, name)
	}
	require.False(t, FileExists(filepath.Join(filepath.Dir(fm.OutboxDir), "escaped.edi")))
}

func TestArchiveInputFile(t *testing.T) {
	fm := newTestManager(t)
	src := filepath.Join(fm.InboxDir, "PO1.XML")
	writeFile(t, src, "<PurchaseOrder/>")

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(fm.ArchiveDir, "PO1.XML"), archived)
	require.False(t, FileExists(src))

	data, err := os.ReadFile(archived)
	require.NoError(t, err)
	require.Equal(t, "<PurchaseOrder/>", string(data))
}

func TestArchiveInputFile_TimestampSubdirs(t *testing.T) {
	fm := newTestManager(t)
	fm.UseTimestampSubdirs = true
	src := filepath.Join(fm.InboxDir, "PO1.XML")
	writeFile(t, src, "<PurchaseOrder/>")

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	now := time.Now()
	rel, err := filepath.Rel(fm.ArchiveDir, archived)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, filepath.Join(now.Format("2006"), now.Format("01"))), rel)
	assert.Equal(t, "PO1.XML", filepath.Base(archived))
}

func TestQuarantineInputFile(t *testing.T) {
	fm := newTestManager(t)
	src := filepath.Join(fm.InboxDir, "broken.XML")
	writeFile(t, src, "<PurchaseOrder>")

	quarantined, err := fm.QuarantineInputFile(src)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(fm.ErrorDir, "broken.XML"), quarantined)
	require.False(t, FileExists(src))

	data, err := os.ReadFile(quarantined)
	require.NoError(t, err)
	require.Equal(t, "<PurchaseOrder>", string(data))
}

func TestQuarantineInputFile_MissingSource(t *testing.T) {
	fm := newTestManager(t)

	_, err := fm.QuarantineInputFile(filepath.Join(fm.InboxDir, "gone.XML"))
	require.Error(t, err)
}

func TestOriginalName(t *testing.T) {
	assert.Equal(t, "PO_0042", OriginalName("/in/PO_0042.XML"))
	assert.Equal(t, "order.v2", OriginalName("order.v2.xml"))
	assert.Equal(t, "README", OriginalName("README"))
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{original}.edi", map[string]string{"original": "PO_0042"})
	assert.Equal(t, "PO_0042.edi", name)

	name = GenerateOutputFileName("{original}_{order}_{ref}", map[string]string{
		"original": "PO",
		"order":    "PO-0042",
		"ref":      "4711001",
	})
	assert.Equal(t, "PO_PO-0042_4711001.edi", name)

	name = GenerateOutputFileName("{original}.EDI", map[string]string{"original": "x"})
	assert.Equal(t, "x.EDI", name)

	name = GenerateOutputFileName("{order}", map[string]string{"order": "../escaped"})
	assert.Equal(t, ".._escaped.edi", name)
	assert.Equal(t, name, filepath.Base(name))

	name = GenerateOutputFileName("{order}", map[string]string{"order": `..\a/b`})
	assert.Equal(t, ".._a_b.edi", name)

	name = GenerateOutputFileName("{order}", map[string]string{"order": ".."})
	assert.Equal(t, "_.edi", name)

	name = GenerateOutputFileName("{date}_{uuid}", nil)
	assert.Regexp(t, `^\d{8}_[0-9a-f-]{36}\.edi$`, name)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	require.NoError(t, err)
	require.Empty(t, path)

	path, err = WriteErrorLog([]ErrorLogEntry{
		{
			Timestamp:    time.Now(),
			FileName:     "PO2.XML",
			ErrorType:    "InvalidFieldValue",
			ErrorMessage: "line 1: bad quantity",
			LineNumber:   1,
			FieldName:    "ItemOrderedQuantity",
			FieldValue:   "abc",
		},
		{
			Timestamp:    time.Now(),
			FileName:     "PO3.XML",
			ErrorType:    "MalformedDocument",
			ErrorMessage: "malformed document: unexpected EOF",
		},
	}, dir)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), "error_log_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Total Errors: 2")
	assert.Contains(t, content, "File:           PO2.XML")
	assert.Contains(t, content, "Order Line:     1")
	assert.Contains(t, content, "Value:          abc")
	assert.Contains(t, content, "Error Type:     MalformedDocument")
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Now()

	path, err := WriteSummaryLog(ProcessingSummary{
		StartTime:       start,
		EndTime:         start.Add(time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalLines:      3,
		TotalSegments:   25,
		ProcessedFiles: []ProcessedFileInfo{{
			InputFile:      "PO1.XML",
			OutputFile:     "PO1.edi",
			OrderNumber:    "PO-0042",
			InterchangeRef: 4711001,
			Lines:          3,
			Segments:       25,
		}},
		FailedFilesList: []FailedFileInfo{{
			InputFile:    "PO2.XML",
			ErrorType:    "MalformedDocument",
			ErrorMessage: "malformed document",
		}},
	}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Successful:         1")
	assert.Contains(t, content, "Total Segments:     25")
	assert.Contains(t, content, "Order Number: PO-0042")
	assert.Contains(t, content, "Reference:    4711001")
	assert.Contains(t, content, "Type:  MalformedDocument")
}

func TestCleanOldArchives(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2023", "old.XML")
	fresh := filepath.Join(dir, "fresh.XML")
	require.NoError(t, os.MkdirAll(filepath.Dir(old), 0755))
	writeFile(t, old, "old")
	writeFile(t, fresh, "fresh")

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	removed, err := CleanOldArchives(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, FileExists(old))
	assert.True(t, FileExists(fresh))
}
