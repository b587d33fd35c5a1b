package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMirrorStoresCopies(t *testing.T) {
	t.Parallel()

	m := NewMirror()
	data := []byte("%PDF-1.4 bid tabulation")

	uri, err := m.PutObject(context.Background(), "raw_pdfs/NCDOT_Letting.pdf", "application/pdf", data)
	require.NoError(t, err)
	require.Equal(t, "memory://raw_pdfs/NCDOT_Letting.pdf", uri)

	data[0] = 'X'

	obj, ok := m.Object("raw_pdfs/NCDOT_Letting.pdf")
	require.True(t, ok)
	require.Equal(t, "application/pdf", obj.ContentType)
	require.Equal(t, byte('%'), obj.Data[0], "stored data must not alias the caller's slice")
	require.Equal(t, 1, m.Len())
}

func TestMirrorRequiresPath(t *testing.T) {
	t.Parallel()

	m := NewMirror()
	_, err := m.PutObject(context.Background(), "", "text/csv", []byte("a,b"))
	require.Error(t, err)
}
