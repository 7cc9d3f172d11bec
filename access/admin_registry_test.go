package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligarx-org/audiov1/model"
)

const megaAdminID = int64(1000)

func TestAdminRegistryLoadsExistingAdmins(t *testing.T) {
	registry, err := NewAdminRegistry(&fakeAdminService{ids: []int64{5, 6}}, megaAdminID)
	require.NoError(t, err)

	assert.True(t, registry.IsAdmin(5))
	assert.True(t, registry.IsAdmin(6))
	assert.False(t, registry.IsAdmin(7))
}

func TestAdminRegistryMegaAdminIsAlwaysAdmin(t *testing.T) {
	registry, err := NewAdminRegistry(&fakeAdminService{}, megaAdminID)
	require.NoError(t, err)

	assert.True(t, registry.IsAdmin(megaAdminID))
	assert.True(t, registry.IsMegaAdmin(megaAdminID))
	assert.False(t, registry.IsMegaAdmin(5))
}

func TestAdminRegistryLoadFailure(t *testing.T) {
	_, err := NewAdminRegistry(&fakeAdminService{loadErr: errors.New("connection lost")}, megaAdminID)
	assert.Error(t, err)
}

func TestAdminRegistryAddRequiresAdminActor(t *testing.T) {
	adminService := &fakeAdminService{}
	registry, err := NewAdminRegistry(adminService, megaAdminID)
	require.NoError(t, err)

	err = registry.Add(5, 6)
	assert.ErrorIs(t, err, model.ErrNotAnAdmin)
	assert.Equal(t, 0, adminService.addCalls)
}

func TestAdminRegistryAddGrantsAndIsIdempotent(t *testing.T) {
	adminService := &fakeAdminService{}
	registry, err := NewAdminRegistry(adminService, megaAdminID)
	require.NoError(t, err)

	require.NoError(t, registry.Add(megaAdminID, 5))
	assert.True(t, registry.IsAdmin(5))

	// Granting again succeeds without duplicating the entry.
	require.NoError(t, registry.Add(megaAdminID, 5))
	assert.Len(t, adminService.ids, 1)

	// A freshly granted admin can grant others.
	require.NoError(t, registry.Add(5, 6))
	assert.True(t, registry.IsAdmin(6))
}

func TestAdminRegistryAddMegaAdminIsNoop(t *testing.T) {
	adminService := &fakeAdminService{}
	registry, err := NewAdminRegistry(adminService, megaAdminID)
	require.NoError(t, err)

	require.NoError(t, registry.Add(megaAdminID, megaAdminID))
	assert.Equal(t, 0, adminService.addCalls)
}

func TestAdminRegistryRemoveProtectsMegaAdmin(t *testing.T) {
	registry, err := NewAdminRegistry(&fakeAdminService{ids: []int64{5}}, megaAdminID)
	require.NoError(t, err)

	err = registry.Remove(5, megaAdminID)
	assert.ErrorIs(t, err, model.ErrProtected)
	assert.True(t, registry.IsAdmin(megaAdminID))
}

func TestAdminRegistryRemoveRequiresAdminActor(t *testing.T) {
	registry, err := NewAdminRegistry(&fakeAdminService{ids: []int64{5}}, megaAdminID)
	require.NoError(t, err)

	err = registry.Remove(7, 5)
	assert.ErrorIs(t, err, model.ErrNotAnAdmin)
	assert.True(t, registry.IsAdmin(5))
}

func TestAdminRegistryRemoveRevokesAndIsIdempotent(t *testing.T) {
	registry, err := NewAdminRegistry(&fakeAdminService{ids: []int64{5}}, megaAdminID)
	require.NoError(t, err)

	require.NoError(t, registry.Remove(megaAdminID, 5))
	assert.False(t, registry.IsAdmin(5))

	require.NoError(t, registry.Remove(megaAdminID, 5))
	assert.False(t, registry.IsAdmin(5))
}
