package usecase_test

import (
	"errors"
	"testing"

	"github.com/bnema/careshell/internal/application/port/mocks"
	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredWorkspaces_List(t *testing.T) {
	ctx := testContext()
	store := memory.NewStore()

	usecase.NewTabSnapshotStore(store, usecase.SnapshotKey("", "b"), nil).Save(ctx, tabSet("/meals", "/meals", "/bathing"))
	usecase.NewTabSnapshotStore(store, usecase.SnapshotKey("", "a"), nil).Save(ctx, tabSet("", "/care-plan"))
	require.NoError(t, store.Set(ctx, usecase.SnapshotKey("", "c"), "{broken"))
	require.NoError(t, store.Set(ctx, "careshell.tabsextra:z", `{"tabs":[]}`))
	require.NoError(t, store.Set(ctx, "other:x", `{"tabs":[]}`))

	uc := usecase.NewStoredWorkspacesUseCase(store, "")
	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "a", list[0].ClientID)
	assert.Equal(t, 1, list[0].Tabs.Count())
	assert.Nil(t, list[0].Tabs.ActiveID)

	assert.Equal(t, "b", list[1].ClientID)
	assert.Equal(t, "careshell.tabs:b", list[1].Key)
	assert.Equal(t, 2, list[1].Tabs.Count())

	assert.Equal(t, "c", list[2].ClientID)
	assert.False(t, list[2].Readable())
}

func TestStoredWorkspaces_GetAndClear(t *testing.T) {
	ctx := testContext()
	store := memory.NewStore()
	usecase.NewTabSnapshotStore(store, usecase.SnapshotKey("ward", "a"), nil).Save(ctx, tabSet("/meals", "/meals"))

	uc := usecase.NewStoredWorkspacesUseCase(store, "ward")

	ws, err := uc.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ws.Readable())

	_, err = uc.Get(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)

	require.NoError(t, uc.Clear(ctx, "a"))
	assert.ErrorIs(t, uc.Clear(ctx, "a"), usecase.ErrWorkspaceNotFound)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoredWorkspaces_StoreErrors(t *testing.T) {
	ctx := testContext()
	store := mocks.NewMockKeyValueStore(t)
	store.EXPECT().Keys(ctx, "careshell.tabs:").Return(nil, errors.New("disk gone"))
	store.EXPECT().Get(ctx, "careshell.tabs:a").Return("", false, errors.New("disk gone"))

	uc := usecase.NewStoredWorkspacesUseCase(store, "")

	_, err := uc.List(ctx)
	assert.ErrorContains(t, err, "disk gone")

	err = uc.Clear(ctx, "a")
	assert.ErrorContains(t, err, "disk gone")
}
