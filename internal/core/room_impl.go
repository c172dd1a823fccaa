package core

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/domain"
)

// RoomOptions carries the collaborators a room needs from the app layer.
type RoomOptions struct {
	Clock clockwork.Clock
	// OnDropped is called under the room lock for every subscriber whose
	// queue was full. It must not call back into the room.
	OnDropped func(domain.RoomName, SessionID)
}

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  *domain.Room
	clock clockwork.Clock
	mu    sync.Mutex

	participants map[string]*domain.Participant
	order        []string
	votes        map[string]string
	phase        domain.Phase
	title        string
	queue        []string
	startedAt    time.Time
	revealedAt   time.Time
	typing       map[string]time.Time

	presence  *presence
	fanout    *fanout
	closed    bool
	idleSince time.Time
}

func NewRoomService(room *domain.Room, opts RoomOptions) RoomService {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &roomImpl{
		room:         room,
		clock:        clock,
		participants: make(map[string]*domain.Participant),
		votes:        make(map[string]string),
		phase:        domain.PhaseIdle,
		typing:       make(map[string]time.Time),
		presence:     newPresence(),
		fanout:       newFanout(room.Name, opts.OnDropped),
		idleSince:    clock.Now(),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		Name:         r.room.Name,
		Participants: len(r.participants),
		Connected:    r.presence.count(),
		Phase:        r.phase,
		StoryTitle:   r.title,
		QueueLength:  len(r.queue),
		CreatedAt:    r.room.CreatedAt,
	}
}

func (r *roomImpl) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *roomImpl) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *roomImpl) CloseIfIdle(ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return true
	}
	if r.presence.count() > 0 || r.clock.Since(r.idleSince) < ttl {
		return false
	}
	r.resetLocked()
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Dur("idle", ttl).Msg("room closed as idle")
	return true
}

func (r *roomImpl) Join(sid SessionID, conn SignalConnection, req JoinRequest) (string, error) {
	name, err := domain.NormalizeName(req.Nickname)
	if err != nil {
		return "", err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", domain.ErrRoomClosed
	}

	// A holder reachable only through sid is this connection renaming itself.
	var replaced string
	if role == domain.RoleScrumMaster {
		if holder := r.scrumMasterLocked(); holder != "" && holder != name {
			if r.heldElsewhereLocked(holder, sid) {
				return "", domain.ErrScrumMasterTaken
			}
			r.evictLocked(holder, nil)
			replaced = holder
			log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("name", holder).Msg("scrum master replaced")
		}
	}

	var wentOffline string
	if prev, ok := r.presence.nameOf(sid); ok && prev != name {
		if _, last, _ := r.presence.detach(sid); last {
			wentOffline = prev
			delete(r.typing, prev)
		}
	}

	p, ok := r.participants[name]
	if !ok {
		p, err = domain.NewParticipant(name, role, r.clock.Now())
		if err != nil {
			return "", err
		}
		r.participants[name] = p
		r.order = append(r.order, name)
	}
	if !role.CanVote() {
		delete(r.votes, name)
	}
	p.Role = role
	p.SetProfile(req.Avatar, req.Mood, req.Device)

	cameOnline := r.presence.attach(sid, name)
	r.fanout.subscribe(sid, conn)
	r.idleSince = time.Time{}

	log.Info().
		Str("module", "core.room").
		Str("room", string(r.room.Name)).
		Str("sid", string(sid)).
		Str("name", name).
		Str("role", string(role)).
		Msg("participant joined")

	r.fanout.send(Event{Type: EventRoomState, Payload: r.snapshotLocked()}, sid)
	r.publishParticipantsLocked()
	for _, gone := range []string{replaced, wentOffline} {
		if gone != "" {
			r.fanout.publish(Event{Type: EventUserLeft, Payload: NamePayload{Name: gone}})
		}
	}
	if cameOnline {
		r.fanout.publish(Event{Type: EventUserJoined, Payload: NamePayload{Name: name}})
	}
	return name, nil
}

func (r *roomImpl) Disconnect(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fanout.unsubscribe(sid)
	name, last, ok := r.presence.detach(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(sid)).Str("name", name).Bool("last", last).Msg("connection detached")
	r.markIdleLocked()
	if !last {
		return
	}
	_, wasTyping := r.typing[name]
	delete(r.typing, name)
	r.publishParticipantsLocked()
	r.fanout.publish(Event{Type: EventUserLeft, Payload: NamePayload{Name: name}})
	if wasTyping {
		r.publishTypingLocked()
	}
}

func (r *roomImpl) Leave(sid SessionID) ([]SessionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.actorLocked(sid, "")
	if err != nil {
		return nil, err
	}
	sids := r.evictLocked(p.Name, nil)
	r.publishDepartureLocked(p.Name)
	return sids, nil
}

func (r *roomImpl) Remove(sid SessionID, target string) ([]SessionID, error) {
	target, err := domain.NormalizeName(target)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.controllerLocked(sid)
	if err != nil {
		return nil, err
	}
	if target == p.Name {
		return nil, domain.ErrSelfRemoval
	}
	if _, ok := r.participants[target]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownParticipant, target)
	}
	notice := &Event{Type: EventRemoved, Payload: ByPayload{By: p.Name}}
	sids := r.evictLocked(target, notice)
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("name", target).Str("by", p.Name).Msg("participant removed")
	r.publishDepartureLocked(target)
	return sids, nil
}

func (r *roomImpl) Terminate(sid SessionID) ([]SessionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.controllerLocked(sid)
	if err != nil {
		return nil, err
	}
	r.fanout.publish(Event{Type: EventSessionTerminated, Payload: ByPayload{By: p.Name}})
	sids := r.presence.all()
	r.resetLocked()
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("by", p.Name).Int("connections", len(sids)).Msg("room terminated")
	return sids, nil
}

// resetLocked drops every piece of room state and marks the room closed.
func (r *roomImpl) resetLocked() {
	for _, sid := range r.presence.all() {
		r.fanout.unsubscribe(sid)
	}
	r.participants = make(map[string]*domain.Participant)
	r.order = nil
	r.votes = make(map[string]string)
	r.phase = domain.PhaseIdle
	r.title = ""
	r.queue = nil
	r.startedAt = time.Time{}
	r.revealedAt = time.Time{}
	r.typing = make(map[string]time.Time)
	r.presence = newPresence()
	r.closed = true
}

// evictLocked removes name and everything keyed by it. notice, when set, is
// delivered to the evicted connections before they are unsubscribed.
func (r *roomImpl) evictLocked(name string, notice *Event) []SessionID {
	sids := r.presence.sessions(name)
	if notice != nil && len(sids) > 0 {
		r.fanout.send(*notice, sids...)
	}
	for _, sid := range sids {
		r.fanout.unsubscribe(sid)
	}
	r.presence.dropName(name)
	delete(r.participants, name)
	delete(r.votes, name)
	delete(r.typing, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.markIdleLocked()
	return sids
}

// heldElsewhereLocked reports whether name is online through a connection
// other than sid.
func (r *roomImpl) heldElsewhereLocked(name string, sid SessionID) bool {
	for _, s := range r.presence.sessions(name) {
		if s != sid {
			return true
		}
	}
	return false
}

func (r *roomImpl) markIdleLocked() {
	if r.presence.count() == 0 && r.idleSince.IsZero() {
		r.idleSince = r.clock.Now()
	}
}

func (r *roomImpl) publishDepartureLocked(name string) {
	r.publishParticipantsLocked()
	r.publishVotesLocked()
	r.fanout.publish(Event{Type: EventUserLeft, Payload: NamePayload{Name: name}})
}

func (r *roomImpl) scrumMasterLocked() string {
	for _, name := range r.order {
		if r.participants[name].Role == domain.RoleScrumMaster {
			return name
		}
	}
	return ""
}

// actorLocked resolves the participant bound to sid. A non-empty claimed
// name must match the bound one.
func (r *roomImpl) actorLocked(sid SessionID, claimed string) (*domain.Participant, error) {
	if r.closed {
		return nil, domain.ErrRoomClosed
	}
	name, ok := r.presence.nameOf(sid)
	if !ok {
		return nil, domain.ErrNotJoined
	}
	if claimed = strings.TrimSpace(claimed); claimed != "" && claimed != name {
		return nil, fmt.Errorf("%w: bound as %q, claimed %q", domain.ErrImpersonation, name, claimed)
	}
	p, ok := r.participants[name]
	if !ok {
		return nil, domain.ErrNotJoined
	}
	return p, nil
}

func (r *roomImpl) controllerLocked(sid SessionID) (*domain.Participant, error) {
	p, err := r.actorLocked(sid, "")
	if err != nil {
		return nil, err
	}
	if !p.Role.CanControlSession() {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, p.Role)
	}
	return p, nil
}

func (r *roomImpl) participantsLocked() ParticipantsPayload {
	out := ParticipantsPayload{
		Names:     make([]string, 0, len(r.order)),
		Roles:     make(map[string]domain.Role, len(r.order)),
		Avatars:   make(map[string]string, len(r.order)),
		Moods:     make(map[string]string, len(r.order)),
		Connected: make([]string, 0, len(r.order)),
		Devices:   make(map[string]string, len(r.order)),
	}
	for _, name := range r.order {
		p := r.participants[name]
		out.Names = append(out.Names, name)
		out.Roles[name] = p.Role
		out.Avatars[name] = p.Avatar
		out.Moods[name] = p.Mood
		out.Devices[name] = p.Device
		if r.presence.connected(name) {
			out.Connected = append(out.Connected, name)
		}
	}
	return out
}

func (r *roomImpl) votesLocked() map[string]string {
	out := make(map[string]string, len(r.votes))
	for k, v := range r.votes {
		out[k] = v
	}
	return out
}

func (r *roomImpl) rolesLocked() map[string]domain.Role {
	out := make(map[string]domain.Role, len(r.participants))
	for name, p := range r.participants {
		out[name] = p.Role
	}
	return out
}

func (r *roomImpl) snapshotLocked() RoomSnapshot {
	s := RoomSnapshot{
		Room:          r.room.Name,
		Phase:         r.phase,
		SessionActive: r.phase.Active(),
		StoryTitle:    r.title,
		Votes:         r.votesLocked(),
		Queue:         append([]string{}, r.queue...),
		Participants:  r.participantsLocked(),
	}
	if r.phase.Active() {
		started := r.startedAt
		s.RoundStartedAt = &started
	}
	if r.phase == domain.PhaseRevealed {
		s.Consensus = Consensus(r.votes, r.rolesLocked())
	}
	return s
}

func (r *roomImpl) publishParticipantsLocked() {
	r.fanout.publish(Event{Type: EventParticipantsUpdate, Payload: r.participantsLocked()})
}

func (r *roomImpl) publishVotesLocked() {
	r.fanout.publish(Event{Type: EventUpdateVotes, Payload: VotesPayload{Votes: r.votesLocked()}})
}
