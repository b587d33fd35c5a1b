package gcs

import (
	"context"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(nil, Config{Bucket: "artifacts"})
	require.Error(t, err, "a client is required")

	_, err = New(&storage.Client{}, Config{})
	require.Error(t, err, "a bucket is required")

	m, err := New(&storage.Client{}, Config{Bucket: "artifacts", Prefix: "/runs/"})
	require.NoError(t, err)
	require.Equal(t, "runs", m.prefix, "the prefix is stored without surrounding slashes")
}

func TestPutObjectRequiresPath(t *testing.T) {
	m, err := New(&storage.Client{}, Config{Bucket: "artifacts"})
	require.NoError(t, err)

	_, err = m.PutObject(context.Background(), "  ", "text/csv", nil)
	require.Error(t, err)
}
