package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLen     = 36
	MaxCosmeticLen = 64
)

// Participant is a room member's profile. The name is the only identity key
// inside a room; there is no separate user id.
type Participant struct {
	Name     string    `json:"name"`
	Role     Role      `json:"role"`
	Avatar   string    `json:"avatar,omitempty"`
	Mood     string    `json:"mood,omitempty"`
	Device   string    `json:"device,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NormalizeName trims surrounding whitespace and checks length limits.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}

// NewParticipant avoids ad-hoc struct literals in the room code.
func NewParticipant(name string, role Role, joinedAt time.Time) (*Participant, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrUnknownRole
	}
	return &Participant{Name: n, Role: role, JoinedAt: joinedAt}, nil
}

// SetProfile overwrites the cosmetic fields. Over-long values are cut.
func (p *Participant) SetProfile(avatar, mood, device string) {
	p.Avatar = clip(avatar)
	p.Mood = clip(mood)
	p.Device = clip(device)
}

func (p *Participant) SetMood(mood string) { p.Mood = clip(mood) }

func clip(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxCosmeticLen {
		return s
	}
	return string([]rune(s)[:MaxCosmeticLen])
}
