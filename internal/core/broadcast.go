package core

import (
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/domain"
)

// fanout delivers room events to every subscribed connection. It is owned by
// a room and only used under the room lock, which keeps per-room ordering.
type fanout struct {
	room      domain.RoomName
	subs      map[SessionID]SignalConnection
	onDropped func(domain.RoomName, SessionID)
}

func newFanout(room domain.RoomName, onDropped func(domain.RoomName, SessionID)) *fanout {
	return &fanout{
		room:      room,
		subs:      make(map[SessionID]SignalConnection),
		onDropped: onDropped,
	}
}

func (f *fanout) subscribe(sid SessionID, conn SignalConnection) { f.subs[sid] = conn }

func (f *fanout) unsubscribe(sid SessionID) { delete(f.subs, sid) }

func (f *fanout) count() int { return len(f.subs) }

// Encode marshals an event into a frame.
func Encode(ev Event) (Frame, error) {
	return json.Marshal(ev)
}

// publish encodes once and pushes to all subscribers without blocking.
func (f *fanout) publish(ev Event) PublishResult {
	res := PublishResult{}
	if len(f.subs) == 0 {
		return res
	}
	frame, err := Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "core.broadcast").Str("type", ev.Type).Msg("encode event")
		return res
	}
	for sid, conn := range f.subs {
		if err := conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	log.Debug().
		Str("module", "core.broadcast").
		Str("room", string(f.room)).
		Str("type", ev.Type).
		Int("sent_to", res.SendTo).
		Int("dropped", len(res.Dropped)).
		Msg("broadcast result")
	f.report(res.Dropped)
	return res
}

// send delivers an event to the given subscribers only.
func (f *fanout) send(ev Event, sids ...SessionID) {
	frame, err := Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "core.broadcast").Str("type", ev.Type).Msg("encode event")
		return
	}
	var dropped []SessionID
	for _, sid := range sids {
		conn, ok := f.subs[sid]
		if !ok {
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			dropped = append(dropped, sid)
		}
	}
	f.report(dropped)
}

func (f *fanout) report(dropped []SessionID) {
	if f.onDropped == nil {
		return
	}
	for _, sid := range dropped {
		f.onDropped(f.room, sid)
	}
}
