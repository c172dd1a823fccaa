package signal

import (
	json "github.com/goccy/go-json"

	"github.com/dkeye/Pointing/internal/core"
)

type moodPayload struct {
	Nickname string `json:"nickname"`
	Emoji    string `json:"emoji"`
}

func (ctl *SignalWSController) handleMood(sid core.SessionID, raw json.RawMessage) error {
	var p moodPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.UpdateMood(sid, p.Nickname, p.Emoji)
}

type reactionPayload struct {
	Sender string `json:"sender"`
	Emoji  string `json:"emoji" validate:"required"`
}

func (ctl *SignalWSController) handleReaction(sid core.SessionID, raw json.RawMessage) error {
	var p reactionPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.React(sid, p.Sender, p.Emoji)
}

type chatPayload struct {
	Sender  string `json:"sender"`
	Text    string `json:"text" validate:"required_without=Summary"`
	Type    string `json:"type" validate:"omitempty,oneof=voteSummary"`
	Summary any    `json:"summary"`
}

func (ctl *SignalWSController) handleChat(sid core.SessionID, raw json.RawMessage) error {
	var p chatPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.Chat(sid, core.ChatMessage{
		Sender:  p.Sender,
		Text:    p.Text,
		Kind:    p.Type,
		Summary: p.Summary,
	})
}

func (ctl *SignalWSController) handleTyping(sid core.SessionID) error {
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.Typing(sid)
}
