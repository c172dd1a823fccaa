package orch

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

// Join puts sid into roomName. A connection already in another room is
// detached from it only after the new join succeeded.
func (o *Orchestrator) Join(sid core.SessionID, roomName domain.RoomName, req core.JoinRequest) (core.RoomService, string, error) {
	conn, ok := o.Registry.GetSignal(sid)
	if !ok {
		return nil, "", ErrUnknownSession
	}
	prev, _, bound := o.Registry.RoomOf(sid)

	room := o.Rooms.GetOrCreate(roomName)
	name, err := room.Join(sid, conn, req)
	if errors.Is(err, domain.ErrRoomClosed) {
		room = o.Rooms.GetOrCreate(roomName)
		name, err = room.Join(sid, conn, req)
	}
	if err != nil {
		return nil, "", err
	}

	if bound && prev != roomName {
		if old, ok := o.Rooms.Get(prev); ok {
			old.Disconnect(sid)
		}
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev)).Msg("moved out of room")
	}
	o.Registry.UpdateRoom(sid, roomName, name)
	return room, name, nil
}

// Logout removes the caller's participant entirely.
func (o *Orchestrator) Logout(sid core.SessionID) error {
	room, err := o.Room(sid)
	if err != nil {
		return err
	}
	sids, err := room.Leave(sid)
	if err != nil {
		return err
	}
	o.unbindRoom(sids)
	return nil
}

func (o *Orchestrator) ForceRemove(sid core.SessionID, target string) error {
	room, err := o.Room(sid)
	if err != nil {
		return err
	}
	sids, err := room.Remove(sid, target)
	if err != nil {
		return err
	}
	o.unbindRoom(sids)
	return nil
}

// EndPointingSession closes the caller's room for everyone.
func (o *Orchestrator) EndPointingSession(sid core.SessionID) error {
	room, err := o.Room(sid)
	if err != nil {
		return err
	}
	name := room.Room().Name
	sids, err := room.Terminate(sid)
	if err != nil {
		return err
	}
	o.unbindRoom(sids)
	// Terminate only knows the connections it holds; a join still in
	// flight may have bound the registry already. Once a fresh instance
	// took the name, remaining bindings belong to it.
	if live, ok := o.Rooms.Get(name); !ok || live == room {
		for _, m := range o.Registry.MembersOfRoom(name) {
			o.Registry.RemoveRoom(m.SID)
			log.Debug().Str("module", "orch").Str("room", string(name)).Str("sid", string(m.SID)).Str("client", m.Client).Str("name", m.Nickname).Msg("unbound from terminated room")
		}
	}
	o.Rooms.StopRoom(name)
	return nil
}

func (o *Orchestrator) unbindRoom(sids []core.SessionID) {
	for _, s := range sids {
		o.Registry.RemoveRoom(s)
	}
}
