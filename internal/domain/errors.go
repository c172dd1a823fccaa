package domain

import "errors"

var (
	ErrNameEmpty       = errors.New("nickname empty")
	ErrNameTooLong     = errors.New("nickname too long")
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")
	ErrEmptyTitle      = errors.New("story title empty")
	ErrTitleTooLong    = errors.New("story title too long")
	ErrEmptyVote       = errors.New("vote empty")
	ErrVoteTooLong     = errors.New("vote too long")
	ErrEmptyMessage    = errors.New("message empty")
	ErrMessageTooLong  = errors.New("message too long")
	ErrQueueFull       = errors.New("story queue full")
	ErrUnknownChatKind = errors.New("unknown chat message type")

	ErrNotJoined          = errors.New("not joined to a room")
	ErrForbidden          = errors.New("action not allowed for your role")
	ErrImpersonation      = errors.New("cannot act on behalf of another participant")
	ErrScrumMasterTaken   = errors.New("There is already a Scrum Master in this room")
	ErrNoActiveRound      = errors.New("no active round")
	ErrRoundRevealed      = errors.New("votes already revealed")
	ErrRoomClosed         = errors.New("room closed")
	ErrUnknownParticipant = errors.New("no such participant")
	ErrQueueIndex         = errors.New("story queue index out of range")
	ErrSelfRemoval        = errors.New("cannot remove yourself, use logout")
)
