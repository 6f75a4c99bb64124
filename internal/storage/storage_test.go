package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStoreAt(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get("layouts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("layouts", `[{"name":"Gallery 1"}]`))

	v, ok, err := s.Get("layouts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Gallery 1"}]`, v)

	// Overwrite replaces the whole blob.
	require.NoError(t, s.Set("layouts", "[]"))
	v, _, err = s.Get("layouts")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestFileStoreKeySanitized(t *testing.T) {
	s, err := NewFileStoreAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("../escape", "x"))
	v, ok, err := s.Get("../escape")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestMemStoreFailWrites(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Set("k", "v"))

	s.FailWrites = true
	err := s.Set("k", "v2")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// The previous value survives a failed write.
	v, ok, _ := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
