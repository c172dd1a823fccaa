package core

import (
	"time"

	"github.com/dkeye/Pointing/internal/domain"
)

// Frame is an encoded outbound message.
type Frame []byte

// SessionID identifies one live transport connection.
type SessionID string

// SignalConnection abstracts the messaging transport of one connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

// JoinRequest is the join command as seen by a room.
type JoinRequest struct {
	Nickname string
	Role     string
	Avatar   string
	Mood     string
	Device   string
}

// ChatMessage is a teamChat payload. Kind is empty for plain text or
// "voteSummary" for a summary card.
type ChatMessage struct {
	Sender  string
	Text    string
	Kind    string
	Summary any
}

// RoomService is the core-facing API of a room: the state machine plus its
// subscribers. It never closes transport resources.
type RoomService interface {
	Room() *domain.Room
	Info() RoomInfo
	Snapshot() RoomSnapshot
	Closed() bool
	// CloseIfIdle closes the room when nobody has been connected for ttl.
	CloseIfIdle(ttl time.Duration) bool

	Join(sid SessionID, conn SignalConnection, req JoinRequest) (string, error)
	Disconnect(sid SessionID)
	Leave(sid SessionID) ([]SessionID, error)
	Remove(sid SessionID, target string) ([]SessionID, error)
	Terminate(sid SessionID) ([]SessionID, error)

	CastVote(sid SessionID, nickname, point string) error
	StartRound(sid SessionID, title string, queueIndex *int) error
	Revote(sid SessionID, title string) error
	Reveal(sid SessionID) error
	EndRound(sid SessionID) error
	OfflineDevelopers(sid SessionID) ([]string, error)

	SetQueue(sid SessionID, titles []string) error
	AddStory(sid SessionID, title string) error
	RemoveStory(sid SessionID, index int) error

	UpdateMood(sid SessionID, nickname, mood string) error
	React(sid SessionID, sender, emoji string) error
	Chat(sid SessionID, msg ChatMessage) error
	Typing(sid SessionID) error
}

type RoomInfo struct {
	Name         domain.RoomName `json:"name"`
	Participants int             `json:"participants"`
	Connected    int             `json:"connected"`
	Phase        domain.Phase    `json:"phase"`
	StoryTitle   string          `json:"storyTitle,omitempty"`
	QueueLength  int             `json:"queueLength"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type RoomManager interface {
	GetOrCreate(name domain.RoomName) RoomService
	Get(name domain.RoomName) (RoomService, bool)
	List() []RoomInfo
	StopRoom(name domain.RoomName)
	Reap(ttl time.Duration) []domain.RoomName
}
