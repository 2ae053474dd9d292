package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ConnectsAndReportsHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, Init(mr.Addr(), "", 0))
	t.Cleanup(func() { _ = Close() })

	assert.True(t, IsHealthy())
	SetCached(context.Background(), "k", []byte("v"), time.Minute)
	got, ok := GetCached(context.Background(), "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
}

func TestInit_UnreachableLeavesCacheDisabled(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Error(t, Init(addr, "", 0))
	assert.Nil(t, GetClient())
	assert.False(t, IsHealthy())

	_, ok := GetCached(context.Background(), "k")
	assert.False(t, ok)
	SetCached(context.Background(), "k", []byte("v"), time.Minute)
	InvalidatePattern(context.Background(), "*")
	assert.NoError(t, Close())
}

func TestGetCached_MissingKey(t *testing.T) {
	setupMiniredis(t)
	_, ok := GetCached(context.Background(), "absent")
	assert.False(t, ok)
}
