package memory_test

import (
	"context"
	"testing"

	"github.com/bnema/careshell/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "tabs:b", "2"))
	require.NoError(t, s.Set(ctx, "tabs:a", "1"))
	require.NoError(t, s.Set(ctx, "other", "x"))

	v, found, err := s.Get(ctx, "tabs:a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", v)

	keys, err := s.Keys(ctx, "tabs:")
	require.NoError(t, err)
	assert.Equal(t, []string{"tabs:a", "tabs:b"}, keys)

	require.NoError(t, s.Delete(ctx, "tabs:a"))
	require.NoError(t, s.Delete(ctx, "missing"))
	_, found, err = s.Get(ctx, "tabs:a")
	require.NoError(t, err)
	assert.False(t, found)
}
