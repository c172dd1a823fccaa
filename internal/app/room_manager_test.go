package app

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func join(t *testing.T, room core.RoomService, sid core.SessionID, name string, role domain.Role) {
	t.Helper()
	_, err := room.Join(sid, nopConn{}, core.JoinRequest{Nickname: name, Role: string(role)})
	require.NoError(t, err)
}

func TestRoomManagerGetOrCreate(t *testing.T) {
	m := NewRoomManager(core.RoomOptions{Clock: clockwork.NewFakeClock()})

	_, ok := m.Get("T1")
	assert.False(t, ok)

	a := m.GetOrCreate("T1")
	b := m.GetOrCreate("T1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, m.GetOrCreate("t1"), "room names are case sensitive")

	got, ok := m.Get("T1")
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestRoomManagerReplacesClosedRoom(t *testing.T) {
	m := NewRoomManager(core.RoomOptions{Clock: clockwork.NewFakeClock()})
	old := m.GetOrCreate("T1")
	join(t, old, "s1", "Alice", domain.RoleScrumMaster)
	_, err := old.Terminate("s1")
	require.NoError(t, err)

	_, ok := m.Get("T1")
	assert.False(t, ok, "closed room is not served")

	fresh := m.GetOrCreate("T1")
	assert.NotSame(t, old, fresh)
	assert.False(t, fresh.Closed())

	// Stopping after replacement keeps the live instance.
	m.StopRoom("T1")
	got, ok := m.Get("T1")
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestRoomManagerList(t *testing.T) {
	m := NewRoomManager(core.RoomOptions{Clock: clockwork.NewFakeClock()})
	b := m.GetOrCreate("beta")
	m.GetOrCreate("alpha")
	join(t, b, "s1", "Bob", domain.RoleDeveloper)

	infos := m.List()
	require.Len(t, infos, 2)
	assert.Equal(t, domain.RoomName("alpha"), infos[0].Name)
	assert.Equal(t, domain.RoomName("beta"), infos[1].Name)
	assert.Equal(t, 1, infos[1].Connected)
	assert.Equal(t, domain.PhaseIdle, infos[1].Phase)
}

func TestRoomManagerReap(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewRoomManager(core.RoomOptions{Clock: clock})
	ttl := 30 * time.Minute

	busy := m.GetOrCreate("busy")
	join(t, busy, "s1", "Alice", domain.RoleScrumMaster)
	m.GetOrCreate("empty")
	left := m.GetOrCreate("left")
	join(t, left, "s2", "Bob", domain.RoleDeveloper)

	clock.Advance(10 * time.Minute)
	left.Disconnect("s2")

	assert.Empty(t, m.Reap(ttl))

	clock.Advance(20 * time.Minute)
	assert.Equal(t, []domain.RoomName{"empty"}, m.Reap(ttl))

	clock.Advance(10 * time.Minute)
	assert.Equal(t, []domain.RoomName{"left"}, m.Reap(ttl))

	_, ok := m.Get("busy")
	assert.True(t, ok)
	assert.Len(t, m.List(), 1)
}
