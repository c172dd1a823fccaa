package signal

import (
	"errors"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/dkeye/Pointing/internal/core"
)

// cardValue accepts a card as a JSON string or a JSON number. Numbers are
// kept in plain decimal form.
type cardValue string

func (v *cardValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = cardValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("point must be a string or a number")
	}
	f, err := n.Float64()
	if err != nil {
		return errors.New("point is out of range")
	}
	*v = cardValue(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type votePayload struct {
	Nickname string    `json:"nickname"`
	Point    cardValue `json:"point" validate:"required"`
}

func (ctl *SignalWSController) handleVote(sid core.SessionID, raw json.RawMessage) error {
	var p votePayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.CastVote(sid, p.Nickname, string(p.Point))
}

// The room field is accepted for older clients; the bound room is used.
type startPayload struct {
	Title      string `json:"title" validate:"required_without=QueueIndex"`
	Room       string `json:"room"`
	QueueIndex *int   `json:"queueIndex" validate:"omitempty,min=0"`
}

func (ctl *SignalWSController) handleStartSession(sid core.SessionID, raw json.RawMessage) error {
	var p startPayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.StartRound(sid, p.Title, p.QueueIndex)
}

type revotePayload struct {
	Title string `json:"title"`
}

func (ctl *SignalWSController) handleRevote(sid core.SessionID, raw json.RawMessage) error {
	var p revotePayload
	if err := ctl.decode(raw, &p); err != nil {
		return err
	}
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.Revote(sid, p.Title)
}

func (ctl *SignalWSController) handleReveal(sid core.SessionID) error {
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.Reveal(sid)
}

func (ctl *SignalWSController) handleEndSession(sid core.SessionID) error {
	room, err := ctl.Orch.Room(sid)
	if err != nil {
		return err
	}
	return room.EndRound(sid)
}
