package orch

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/app"
	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

// ErrUnknownSession means the connection was never bound or is already gone.
var ErrUnknownSession = errors.New("unknown session")

// Orchestrator binds connections to rooms and runs the flows that touch both
// the registry and a room.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
}

// Room resolves the room sid is joined to.
func (o *Orchestrator) Room(sid core.SessionID) (core.RoomService, error) {
	roomName, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return nil, domain.ErrNotJoined
	}
	room, ok := o.Rooms.Get(roomName)
	if !ok {
		o.Registry.RemoveRoom(sid)
		return nil, domain.ErrNotJoined
	}
	return room, nil
}

// OnBackpressure is the room drop callback. It runs under the room lock.
func (o *Orchestrator) OnBackpressure(room domain.RoomName, sid core.SessionID) {
	if o.Policy == nil {
		return
	}
	action := o.Policy.OnBackPressure(room, sid)
	log.Warn().Str("module", "orch").Str("room", string(room)).Str("sid", string(sid)).Stringer("action", action).Msg("slow consumer")
	if action == app.KickMember {
		o.Registry.Cancel(sid)
	}
}

func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	if roomName, _, ok := o.Registry.RoomOf(sid); ok {
		if room, ok := o.Rooms.Get(roomName); ok {
			room.Disconnect(sid)
		}
	}
	o.Registry.Unbind(sid)
}
