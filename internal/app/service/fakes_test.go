package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

// fakeDirectory registra cada llamada; los tests cuentan creaciones para
// verificar que un re-sync no duplica objetos en Discord.
type fakeDirectory struct {
	mu sync.Mutex

	nextID      uint64
	failCreates bool

	rolesCreated    []string
	channelsCreated []string
	rolesDeleted    []uint64
	channelsDeleted []uint64
	sent            map[uint64][]string
	dms             map[uint64][]string
	usersByName     map[string]uint64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		nextID:      100,
		sent:        make(map[uint64][]string),
		dms:         make(map[uint64][]string),
		usersByName: make(map[string]uint64),
	}
}

func (d *fakeDirectory) CreateRole(_ context.Context, name string) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failCreates {
		return 0, errors.New("discord down")
	}
	d.nextID++
	d.rolesCreated = append(d.rolesCreated, name)
	return d.nextID, nil
}

func (d *fakeDirectory) CreateChannel(_ context.Context, name string) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failCreates {
		return 0, errors.New("discord down")
	}
	d.nextID++
	d.channelsCreated = append(d.channelsCreated, name)
	return d.nextID, nil
}

func (d *fakeDirectory) DeleteRole(_ context.Context, id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rolesDeleted = append(d.rolesDeleted, id)
	return nil
}

func (d *fakeDirectory) DeleteChannel(_ context.Context, id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channelsDeleted = append(d.channelsDeleted, id)
	return nil
}

func (d *fakeDirectory) SendMessage(_ context.Context, channelID uint64, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[channelID] = append(d.sent[channelID], text)
	return nil
}

func (d *fakeDirectory) ResolveUserByName(_ context.Context, name string) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.usersByName[name]; ok {
		return id, nil
	}
	return 0, errors.New("user not found")
}

func (d *fakeDirectory) SendDirectMessage(_ context.Context, userID uint64, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dms[userID] = append(d.dms[userID], text)
	return nil
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	return s
}
