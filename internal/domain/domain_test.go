package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role    string
		vote    bool
		control bool
	}{
		{"Developer", true, false},
		{"Observer", false, false},
		{"Product Owner", false, false},
		{"Scrum Master", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			r, err := ParseRole(tc.role)
			require.NoError(t, err)
			assert.Equal(t, tc.vote, r.CanVote())
			assert.Equal(t, tc.control, r.CanControlSession())
		})
	}

	for _, bad := range []string{"", "developer", "Admin", "ScrumMaster"} {
		_, err := ParseRole(bad)
		assert.ErrorIs(t, err, ErrUnknownRole, bad)
	}
	assert.False(t, Role("").CanVote())
}

func TestNormalizeName(t *testing.T) {
	n, err := NormalizeName("  Bob ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", n)

	_, err = NormalizeName(" \t")
	assert.ErrorIs(t, err, ErrNameEmpty)

	_, err = NormalizeName(strings.Repeat("ж", MaxNameLen))
	assert.NoError(t, err)
	_, err = NormalizeName(strings.Repeat("ж", MaxNameLen+1))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestParticipantProfile(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p, err := NewParticipant(" Ann ", RoleObserver, now)
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, now, p.JoinedAt)

	p.SetProfile(" 🦊 ", strings.Repeat("x", MaxCosmeticLen+10), "mobile")
	assert.Equal(t, "🦊", p.Avatar)
	assert.Len(t, p.Mood, MaxCosmeticLen)
	assert.Equal(t, "mobile", p.Device)

	_, err = NewParticipant("Ann", Role("Boss"), now)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRoomNamesAndTitles(t *testing.T) {
	name, err := ParseRoomName(" T1 ")
	require.NoError(t, err)
	assert.Equal(t, RoomName("T1"), name)
	assert.NotEqual(t, RoomName("t1"), name)

	_, err = ParseRoomName("")
	assert.ErrorIs(t, err, ErrRoomNameEmpty)
	_, err = ParseRoomName(strings.Repeat("r", MaxRoomNameLen+1))
	assert.ErrorIs(t, err, ErrRoomNameTooLong)

	_, err = NormalizeTitle("   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = NormalizeTitle(strings.Repeat("t", MaxTitleLen+1))
	assert.ErrorIs(t, err, ErrTitleTooLong)

	p, err := NormalizePoint(" ☕ ")
	require.NoError(t, err)
	assert.Equal(t, "☕", p)
}

func TestPhaseActive(t *testing.T) {
	assert.False(t, PhaseIdle.Active())
	assert.True(t, PhaseVoting.Active())
	assert.True(t, PhaseRevealed.Active())
}
