package signal

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type joinPayload struct {
	Nickname string `json:"nickname" validate:"required"`
	Room     string `json:"room" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Avatar   string `json:"avatar"`
	Mood     string `json:"mood"`
	Device   string `json:"device"`
}

func (ctl *SignalWSController) handleJoin(sid core.SessionID, raw json.RawMessage) error {
	var p joinPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	roomName, err := domain.ParseRoomName(p.Room)
	if err != nil {
		return err
	}
	_, name, err := ctl.Orch.Join(sid, roomName, core.JoinRequest{
		Nickname: p.Nickname,
		Role:     p.Role,
		Avatar:   p.Avatar,
		Mood:     p.Mood,
		Device:   p.Device,
	})
	if err != nil {
		return err
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(roomName)).Str("name", name).Msg("join")
	return nil
}

// handleLogout leaves the room for good; the connection stays open.
func (ctl *SignalWSController) handleLogout(sid core.SessionID, conn *WsSignalConn) error {
	if err := ctl.Orch.Logout(sid); err != nil {
		return err
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("logout")
	ctl.sendEvent(conn, "left", struct{}{})
	return nil
}

func (ctl *SignalWSController) handleEndPointingSession(sid core.SessionID) error {
	return ctl.Orch.EndPointingSession(sid)
}

type removePayload struct {
	Name string `json:"name" validate:"required"`
}

// handleForceRemove accepts either a bare name string or {name}.
func (ctl *SignalWSController) handleForceRemove(sid core.SessionID, raw json.RawMessage) error {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		raw, _ = json.Marshal(removePayload{Name: strings.TrimSpace(name)})
	}
	var p removePayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	return ctl.Orch.ForceRemove(sid, p.Name)
}

func (ctl *SignalWSController) handleOfflineDevelopers(sid core.SessionID, conn *WsSignalConn) error {
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	names, err := room.OfflineDevelopers(sid)
	if err != nil {
		return err
	}
	ctl.sendEvent(conn, core.EventOfflineDevelopers, core.NamesPayload{Names: names})
	return nil
}
