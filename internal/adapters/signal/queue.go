package signal

import (
	json "github.com/goccy/go-json"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type queuePayload struct {
	Queue []string `json:"queue" validate:"max=100"`
}

func (ctl *SignalWSController) handleUpdateQueue(sid core.SessionID, raw json.RawMessage) error {
	var p queuePayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.SetQueue(sid, p.Queue)
}

type addStoryPayload struct {
	Title string `json:"title" validate:"required"`
}

func (ctl *SignalWSController) handleAddStory(sid core.SessionID, raw json.RawMessage) error {
	var p addStoryPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.AddStory(sid, p.Title)
}

type removeStoryPayload struct {
	Index *int `json:"index" validate:"required"`
}

func (ctl *SignalWSController) handleRemoveStory(sid core.SessionID, raw json.RawMessage) error {
	var p removeStoryPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	if *p.Index < 0 {
		return domain.ErrQueueIndex
	}
	return room.RemoveStory(sid, *p.Index)
}
