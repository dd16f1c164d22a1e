package filestorage

import (
	"context"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"
)

func TestNotConfigured(t *testing.T) {
	storage := impl{cache: cache.New(cacheTTL, cacheTTL)}
	ctx := context.Background()

	require.False(t, storage.IsConfigured())
	_, err := storage.UploadAvatar(ctx, "u1", []byte("png"), "image/png")
	require.ErrorIs(t, err, ErrNotConfigured)
	_, _, err = storage.GetFile(ctx, "avatars/u1/x")
	require.ErrorIs(t, err, ErrNotConfigured)
	require.ErrorIs(t, storage.DeleteFile(ctx, "avatars/u1/x"), ErrNotConfigured)
}
