package inmemory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobStoreLifecycle(t *testing.T) {
	store := NewBlobStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "documents/grp-1/a.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))

	data, contentType, ok := store.Get("documents/grp-1/a.pdf")
	require.True(t, ok)
	require.Equal(t, "%PDF", string(data))
	require.Equal(t, "application/pdf", contentType)

	url, err := store.URL(ctx, "documents/grp-1/a.pdf")
	require.NoError(t, err)
	require.Equal(t, "memory://documents/grp-1/a.pdf", url)

	require.NoError(t, store.Delete(ctx, "documents/grp-1/a.pdf"))
	require.NoError(t, store.Delete(ctx, "documents/grp-1/a.pdf"))
	require.Zero(t, store.Len())

	_, err = store.URL(ctx, "documents/grp-1/a.pdf")
	require.Error(t, err)
}

func TestBlobStoreRejectsShortBody(t *testing.T) {
	store := NewBlobStore()

	err := store.Put(context.Background(), "k", strings.NewReader("abc"), 10, "text/plain")
	require.Error(t, err)
	require.Zero(t, store.Len())
}
