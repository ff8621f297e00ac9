package kvstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/kvstore"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := kvstore.NewFileStore(path)
	require.NoError(t, err)

	_, err = fs.Get("missing")
	require.ErrorIs(t, err, kvstore.NotFoundErr)

	require.NoError(t, fs.Set("token", "abc123"))
	v, err := fs.Get("token")
	require.NoError(t, err)
	require.Equal(t, "abc123", v)

	require.NoError(t, fs.Delete("token"))
	_, err = fs.Get("token")
	require.ErrorIs(t, err, kvstore.NotFoundErr)

	// Deleting an absent key is a no-op.
	require.NoError(t, fs.Delete("token"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	fs, err := kvstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set("access", "tok-1"))
	require.NoError(t, fs.Set("refresh", "tok-2"))

	reopened, err := kvstore.NewFileStore(path)
	require.NoError(t, err)

	v, err := reopened.Get("access")
	require.NoError(t, err)
	require.Equal(t, "tok-1", v)
	v, err = reopened.Get("refresh")
	require.NoError(t, err)
	require.Equal(t, "tok-2", v)
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")

	fs, err := kvstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, fs.Set("k", "v"))

	reopened, err := kvstore.NewFileStore(path)
	require.NoError(t, err)
	v, err := reopened.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
