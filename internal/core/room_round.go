package core

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/domain"
)

func (r *roomImpl) CastVote(sid SessionID, nickname, point string) error {
	point, err := domain.NormalizePoint(point)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.actorLocked(sid, nickname)
	if err != nil {
		return err
	}
	if !p.Role.CanVote() {
		return fmt.Errorf("%w: %s cannot vote", domain.ErrForbidden, p.Role)
	}
	switch r.phase {
	case domain.PhaseIdle:
		return domain.ErrNoActiveRound
	case domain.PhaseRevealed:
		return domain.ErrRoundRevealed
	}
	r.votes[p.Name] = point
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Str("name", p.Name).Msg("vote cast")
	r.publishVotesLocked()
	return nil
}

// StartRound opens a voting round. With queueIndex set, that queue entry is
// removed and used as the title unless an explicit title is given.
func (r *roomImpl) StartRound(sid SessionID, title string, queueIndex *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	if queueIndex != nil {
		i := *queueIndex
		if i < 0 || i >= len(r.queue) {
			return fmt.Errorf("%w: %d", domain.ErrQueueIndex, i)
		}
		if title == "" {
			title = r.queue[i]
		}
	}
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return err
	}
	if queueIndex != nil {
		i := *queueIndex
		r.queue = append(r.queue[:i], r.queue[i+1:]...)
		r.publishQueueLocked()
	}
	r.startLocked(title)
	return nil
}

// Revote restarts the active round, keeping the current title when none is given.
func (r *roomImpl) Revote(sid SessionID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	if !r.phase.Active() {
		return domain.ErrNoActiveRound
	}
	if title == "" {
		title = r.title
	}
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return err
	}
	r.startLocked(title)
	return nil
}

func (r *roomImpl) startLocked(title string) {
	r.votes = make(map[string]string)
	r.title = title
	r.phase = domain.PhaseVoting
	r.startedAt = r.clock.Now()
	r.revealedAt = r.startedAt
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("title", title).Msg("round started")
	r.fanout.publish(Event{Type: EventStartSession, Payload: StartSessionPayload{Title: title, StartedAt: r.startedAt}})
	r.publishVotesLocked()
}

// Reveal freezes the votes. Revealing again re-sends the same result.
func (r *roomImpl) Reveal(sid SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	switch r.phase {
	case domain.PhaseIdle:
		return domain.ErrNoActiveRound
	case domain.PhaseVoting:
		r.phase = domain.PhaseRevealed
		r.revealedAt = r.clock.Now()
	}
	consensus := Consensus(r.votes, r.rolesLocked())
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Int("votes", len(r.votes)).Floats64("consensus", consensus).Msg("votes revealed")
	r.fanout.publish(Event{Type: EventRevealVotes, Payload: RevealPayload{
		Votes:           r.votesLocked(),
		Consensus:       consensus,
		DurationSeconds: int64(r.revealedAt.Sub(r.startedAt).Seconds()),
	}})
	return nil
}

func (r *roomImpl) EndRound(sid SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	if !r.phase.Active() {
		return domain.ErrNoActiveRound
	}
	r.phase = domain.PhaseIdle
	r.title = ""
	r.votes = make(map[string]string)
	r.startedAt = time.Time{}
	r.revealedAt = time.Time{}
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Msg("round ended")
	r.fanout.publish(Event{Type: EventSessionEnded, Payload: empty{}})
	r.publishVotesLocked()
	return nil
}

// OfflineDevelopers lists Developers that hold a seat but have no live
// connection, in join order.
func (r *roomImpl) OfflineDevelopers(sid SessionID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.actorLocked(sid, ""); err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, name := range r.order {
		if r.participants[name].Role == domain.RoleDeveloper && !r.presence.connected(name) {
			out = append(out, name)
		}
	}
	return out, nil
}
