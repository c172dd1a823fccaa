package core

import (
	"time"

	"github.com/dkeye/Pointing/internal/domain"
)

// Outbound notification types.
const (
	EventParticipantsUpdate = "participantsUpdate"
	EventUpdateVotes        = "updateVotes"
	EventUpdateStoryQueue   = "updateStoryQueue"
	EventStartSession       = "startSession"
	EventRevealVotes        = "revealVotes"
	EventSessionEnded       = "sessionEnded"
	EventSessionTerminated  = "sessionTerminated"
	EventUserJoined         = "userJoined"
	EventUserLeft           = "userLeft"
	EventTeamChat           = "teamChat"
	EventTypingUpdate       = "typingUpdate"
	EventEmojiReaction      = "emojiReaction"
	EventRoomState          = "roomState"
	EventOfflineDevelopers  = "offlineDevelopers"
	EventRemoved            = "removed"
)

// Event is the wire envelope shared by commands and notifications.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type empty struct{}

type ParticipantsPayload struct {
	Names     []string               `json:"names"`
	Roles     map[string]domain.Role `json:"roles"`
	Avatars   map[string]string      `json:"avatars"`
	Moods     map[string]string      `json:"moods"`
	Connected []string               `json:"connected"`
	Devices   map[string]string      `json:"devices"`
}

type VotesPayload struct {
	Votes map[string]string `json:"votes"`
}

type QueuePayload struct {
	Queue []string `json:"queue"`
}

type StartSessionPayload struct {
	Title     string    `json:"title"`
	StartedAt time.Time `json:"startedAt"`
}

type RevealPayload struct {
	Votes           map[string]string `json:"votes"`
	Consensus       []float64         `json:"consensus"`
	DurationSeconds int64             `json:"durationSeconds"`
}

type ByPayload struct {
	By string `json:"by"`
}

type NamePayload struct {
	Name string `json:"name"`
}

type NamesPayload struct {
	Names []string `json:"names"`
}

type ReactionPayload struct {
	Sender string `json:"sender"`
	Emoji  string `json:"emoji"`
}

type ChatEntry struct {
	Sender  string    `json:"sender"`
	Text    string    `json:"text,omitempty"`
	Kind    string    `json:"type,omitempty"`
	Summary any       `json:"summary,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}

type ChatPayload struct {
	Message ChatEntry `json:"message"`
}

// RoomSnapshot is the full view sent to a client right after it joins.
type RoomSnapshot struct {
	Room           domain.RoomName     `json:"room"`
	Phase          domain.Phase        `json:"phase"`
	SessionActive  bool                `json:"sessionActive"`
	StoryTitle     string              `json:"storyTitle"`
	RoundStartedAt *time.Time          `json:"roundStartedAt,omitempty"`
	Votes          map[string]string   `json:"votes"`
	Consensus      []float64           `json:"consensus,omitempty"`
	Queue          []string            `json:"queue"`
	Participants   ParticipantsPayload `json:"participants"`
}
