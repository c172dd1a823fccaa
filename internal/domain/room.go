package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxRoomNameLen = 64
	MaxTitleLen    = 200
	MaxPointLen    = 8
	MaxQueueLen    = 100
	MaxChatLen     = 2000
)

type RoomName string

// Phase is the round lifecycle of a room.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseVoting   Phase = "voting"
	PhaseRevealed Phase = "revealed"
)

// Active is the sessionActive flag: true between round start and round end.
func (p Phase) Active() bool { return p == PhaseVoting || p == PhaseRevealed }

type Room struct {
	Name      RoomName  `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParseRoomName trims the name; matching stays case-sensitive.
func ParseRoomName(s string) (RoomName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrRoomNameEmpty
	}
	if utf8.RuneCountInString(s) > MaxRoomNameLen {
		return "", ErrRoomNameTooLong
	}
	return RoomName(s), nil
}

func NormalizeTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(s) > MaxTitleLen {
		return "", ErrTitleTooLong
	}
	return s, nil
}

func NormalizePoint(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyVote
	}
	if utf8.RuneCountInString(s) > MaxPointLen {
		return "", ErrVoteTooLong
	}
	return s, nil
}
