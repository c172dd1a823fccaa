package signal

import (
	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type whoamiPayload struct {
	Room     domain.RoomName `json:"room,omitempty"`
	Nickname string          `json:"nickname,omitempty"`
	Role     domain.Role     `json:"role,omitempty"`
}

func (ctl *SignalWSController) handleWhoAmI(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	var resp whoamiPayload
	if room, err := ctl.Orch.Room(sid); err == nil {
		_, name, _ := ctl.Orch.Registry.RoomOf(sid)
		resp.Room = room.Room().Name
		resp.Nickname = name
		resp.Role = room.Snapshot().Participants.Roles[name]
	}
	ctl.sendEvent(conn, "whoami", resp)
}
