package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/ingest"
	"slidegen/internal/registry"
)

func newUploadFixture(t *testing.T) (UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewUploadService(ingest.New(), registry.New(dir), dir)
	return svc, dir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestUploadRejectsUnsupportedTypeWithoutPersisting(t *testing.T) {
	svc, dir := newUploadFixture(t)

	_, err := svc.Upload(context.Background(), "report.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ingest.ErrInvalidFileType)

	assert.Empty(t, dirEntries(t, dir), "a rejected upload must leave no file behind")
	assert.Empty(t, svc.List(context.Background()))
}

func TestUploadParseFailureCleansUpFile(t *testing.T) {
	svc, dir := newUploadFixture(t)

	_, err := svc.Upload(context.Background(), "broken.xlsx",
		ingest.ContentTypeXLSX, []byte("definitely not a workbook"))
	assert.ErrorIs(t, err, ingest.ErrParseFailure)

	assert.Empty(t, dirEntries(t, dir), "an unparseable upload must be removed from disk")
	assert.Empty(t, svc.List(context.Background()))
}

func TestUploadCSVRegistersMetadata(t *testing.T) {
	svc, dir := newUploadFixture(t)

	meta, err := svc.Upload(context.Background(), "data.csv", ingest.ContentTypeCSV, []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, "data.csv", meta.FileName)
	assert.Equal(t, []string{ingest.CSVSheetName}, meta.Sheets)
	assert.Len(t, dirEntries(t, dir), 1)
}

func TestSheetDataRoundTrip(t *testing.T) {
	svc, _ := newUploadFixture(t)

	meta, err := svc.Upload(context.Background(), "data.csv", ingest.ContentTypeCSV, []byte("a,b\n1,\n"))
	require.NoError(t, err)

	got, grids, err := svc.SheetData(context.Background(), meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, got.ID)
	require.Contains(t, grids, ingest.CSVSheetName)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", ""}}, grids[ingest.CSVSheetName])
}

func TestSheetDataUnknownID(t *testing.T) {
	svc, _ := newUploadFixture(t)

	_, _, err := svc.SheetData(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteRemovesFileAndEntry(t *testing.T) {
	svc, dir := newUploadFixture(t)

	meta, err := svc.Upload(context.Background(), "data.csv", ingest.ContentTypeCSV, []byte("a\n"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), meta.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), meta.ID), ErrFileNotFound)
	assert.Empty(t, dirEntries(t, dir))
}

func TestClearAllEmptiesRegistryAndDisk(t *testing.T) {
	svc, dir := newUploadFixture(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "one.csv", ingest.ContentTypeCSV, []byte("a\n"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "two.csv", ingest.ContentTypeCSV, []byte("b\n"))
	require.NoError(t, err)

	result := svc.ClearAll(ctx)

	assert.Len(t, result.DeletedFiles, 2)
	assert.Empty(t, result.Errors)
	assert.Empty(t, svc.List(ctx))
	assert.Empty(t, dirEntries(t, dir))
}
