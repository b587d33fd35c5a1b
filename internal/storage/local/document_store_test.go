package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nc_data", "raw_pdfs")
	store, err := New(Config{BaseDir: dir})
	require.NoError(t, err)
	require.NotNil(t, store)
	require.DirExists(t, dir)
}

func TestNewRejectsEmptyBaseDir(t *testing.T) {
	_, err := New(Config{BaseDir: "  "})
	require.Error(t, err)
}

func TestNewRejectsFileAsBaseDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := New(Config{BaseDir: file})
	require.Error(t, err)
}

func TestSaveDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	path, err := store.SaveDocument(context.Background(), "Bid_Tab.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Bid_Tab.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))
}

func TestSaveDocumentRejectsSeparators(t *testing.T) {
	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.SaveDocument(context.Background(), "../escape.pdf", []byte("x"))
	require.Error(t, err)
}

func TestSaveDocumentOverwrites(t *testing.T) {
	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.SaveDocument(context.Background(), "doc.pdf", []byte("first"))
	require.NoError(t, err)
	path, err := store.SaveDocument(context.Background(), "doc.pdf", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}
