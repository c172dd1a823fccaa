package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

func TestRegistryBinding(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.BindSignal("s1", "client-1", nopConn{}, cancel)
	r.BindSignal("s2", "client-2", nopConn{}, nil)
	assert.Equal(t, 2, r.Count())

	_, _, ok := r.RoomOf("s1")
	assert.False(t, ok, "bound but not joined")

	require.True(t, r.UpdateRoom("s1", "T1", "Alice"))
	require.True(t, r.UpdateRoom("s2", "T1", "Bob"))
	assert.False(t, r.UpdateRoom("nope", "T1", "X"))

	room, name, ok := r.RoomOf("s1")
	require.True(t, ok)
	assert.Equal(t, domain.RoomName("T1"), room)
	assert.Equal(t, "Alice", name)
	assert.Len(t, r.MembersOfRoom("T1"), 2)

	r.RemoveRoom("s2")
	members := r.MembersOfRoom("T1")
	require.Len(t, members, 1)
	assert.Equal(t, core.SessionID("s1"), members[0].SID)
	assert.Equal(t, "Alice", members[0].Nickname)
	assert.Equal(t, "client-1", members[0].Client)
	_, ok = r.GetSignal("s2")
	assert.True(t, ok, "removing the room keeps the connection bound")

	assert.True(t, r.Cancel("s1"))
	assert.Error(t, ctx.Err())
	assert.True(t, r.Cancel("s2"), "nil cancel is tolerated")
	assert.False(t, r.Cancel("nope"))

	r.Unbind("s1")
	_, ok = r.GetSignal("s1")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count())
}

func TestSimplePolicyKicks(t *testing.T) {
	var p Policy = SimplePolicy{}
	assert.Equal(t, KickMember, p.OnBackPressure("T1", core.SessionID("s1")))
	assert.Equal(t, "kick", KickMember.String())
	assert.Equal(t, "none", NoAction.String())
}
