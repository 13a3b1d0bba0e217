package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamba-se/torch-discord-sync/internal/domain"
)

func newSyncFixture(t *testing.T) (*FactionSyncService, *fakeDirectory, FactionRepo) {
	t.Helper()
	db := newTestStore(t)
	dir := newFakeDirectory()
	events := NewEventLogService(db, dir, EventChannels{}, false)
	return NewFactionSyncService(db, dir, events), dir, db
}

func snapABC() domain.FactionSnapshot {
	return domain.FactionSnapshot{
		FactionID: 1,
		Tag:       "ABC",
		Name:      "Alpha Bravo Charlie",
		Players: []domain.FactionMember{
			{PlayerID: 10, SteamID: 76561198000000001, OriginalNick: "Bob"},
		},
	}
}

func TestSyncCreatesBindingsAndNicks(t *testing.T) {
	svc, dir, db := newSyncFixture(t)

	n := svc.Sync(context.Background(), []domain.FactionSnapshot{snapABC()})
	assert.Equal(t, 1, n)

	f, err := db.GetFaction(1)
	require.NoError(t, err)
	assert.NotZero(t, f.DiscordRoleID)
	assert.NotZero(t, f.DiscordChannelID)
	assert.Equal(t, []string{"ABC"}, dir.rolesCreated)
	assert.Equal(t, []string{"alpha bravo charlie"}, dir.channelsCreated)

	require.Len(t, f.Players, 1)
	assert.Equal(t, "[ABC] Bob", f.Players[0].SyncedNick)
	assert.Equal(t, "Bob", f.Players[0].OriginalNick)
}

func TestSyncIsIdempotent(t *testing.T) {
	svc, dir, db := newSyncFixture(t)
	snap := snapABC()

	svc.Sync(context.Background(), []domain.FactionSnapshot{snap})
	first, err := db.GetFaction(1)
	require.NoError(t, err)

	svc.Sync(context.Background(), []domain.FactionSnapshot{snap})
	second, err := db.GetFaction(1)
	require.NoError(t, err)

	// Segunda pasada: cero creaciones nuevas, mismos bindings.
	assert.Len(t, dir.rolesCreated, 1)
	assert.Len(t, dir.channelsCreated, 1)
	assert.Equal(t, first.DiscordRoleID, second.DiscordRoleID)
	assert.Equal(t, first.DiscordChannelID, second.DiscordChannelID)
}

func TestSyncBindingsAreSticky(t *testing.T) {
	svc, _, db := newSyncFixture(t)
	snap := snapABC()

	svc.Sync(context.Background(), []domain.FactionSnapshot{snap})
	before, err := db.GetFaction(1)
	require.NoError(t, err)

	// La facción se renombra en el juego; los bindings no se tocan.
	snap.Tag = "XYZ"
	snap.Name = "Xylophone"
	svc.Sync(context.Background(), []domain.FactionSnapshot{snap})

	after, err := db.GetFaction(1)
	require.NoError(t, err)
	assert.Equal(t, "XYZ", after.Tag)
	assert.Equal(t, before.DiscordRoleID, after.DiscordRoleID)
	assert.Equal(t, before.DiscordChannelID, after.DiscordChannelID)
}

func TestSyncSkipsNonPlayerFactions(t *testing.T) {
	svc, dir, db := newSyncFixture(t)

	n := svc.Sync(context.Background(), []domain.FactionSnapshot{
		{FactionID: 2, Tag: "SPRT", Name: "NPC Trade"},
		{FactionID: 3, Tag: "AI", Name: "Drones"},
	})

	assert.Zero(t, n)
	assert.Empty(t, dir.rolesCreated)
	assert.Empty(t, db.GetAllFactions())
}

func TestSyncRetriesUnboundAfterDiscordFailure(t *testing.T) {
	svc, dir, db := newSyncFixture(t)
	snap := snapABC()

	dir.failCreates = true
	svc.Sync(context.Background(), []domain.FactionSnapshot{snap})

	// La facción queda persistida igual, con bindings en 0.
	f, err := db.GetFaction(1)
	require.NoError(t, err)
	assert.Zero(t, f.DiscordRoleID)
	assert.Zero(t, f.DiscordChannelID)

	// Discord vuelve: el próximo pase rebindea lo que quedó en 0.
	dir.failCreates = false
	svc.Sync(context.Background(), []domain.FactionSnapshot{snap})

	f, err = db.GetFaction(1)
	require.NoError(t, err)
	assert.NotZero(t, f.DiscordRoleID)
	assert.NotZero(t, f.DiscordChannelID)
}

func TestSyncMixedSnapshot(t *testing.T) {
	svc, _, db := newSyncFixture(t)

	// Facciones NPC mezcladas en el snapshot no frenan a las de jugadores.
	n := svc.Sync(context.Background(), []domain.FactionSnapshot{
		{FactionID: 9, Tag: "TOOLONG", Name: "ignored"},
		snapABC(),
		{FactionID: 2, Tag: "DEF", Name: "Delta"},
	})
	assert.Equal(t, 2, n)

	_, err := db.GetFaction(1)
	assert.NoError(t, err)
	_, err = db.GetFaction(2)
	assert.NoError(t, err)
}

func TestResetDiscordDeletesEverything(t *testing.T) {
	svc, dir, db := newSyncFixture(t)

	svc.Sync(context.Background(), []domain.FactionSnapshot{
		snapABC(),
		{FactionID: 2, Tag: "DEF", Name: "Delta"},
	})
	require.Len(t, db.GetAllFactions(), 2)

	require.NoError(t, svc.ResetDiscord(context.Background()))

	assert.Len(t, dir.rolesDeleted, 2)
	assert.Len(t, dir.channelsDeleted, 2)
	assert.Empty(t, db.GetAllFactions())
}
