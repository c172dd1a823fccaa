package core

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dkeye/Pointing/internal/domain"
)

// TypingTTL is how long a typing signal keeps a name in typingUpdate.
const TypingTTL = 4 * time.Second

const ChatKindVoteSummary = "voteSummary"

func (r *roomImpl) UpdateMood(sid SessionID, nickname, mood string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.actorLocked(sid, nickname)
	if err != nil {
		return err
	}
	p.SetMood(mood)
	r.publishParticipantsLocked()
	return nil
}

func (r *roomImpl) React(sid SessionID, sender, emoji string) error {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(emoji) > domain.MaxCosmeticLen {
		return domain.ErrMessageTooLong
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.actorLocked(sid, sender)
	if err != nil {
		return err
	}
	r.fanout.publish(Event{Type: EventEmojiReaction, Payload: ReactionPayload{Sender: p.Name, Emoji: emoji}})
	return nil
}

// Chat fans a message out to the room. Nothing is kept.
func (r *roomImpl) Chat(sid SessionID, msg ChatMessage) error {
	entry := ChatEntry{Text: strings.TrimSpace(msg.Text), Kind: msg.Kind}
	switch msg.Kind {
	case "":
		if entry.Text == "" {
			return domain.ErrEmptyMessage
		}
		if utf8.RuneCountInString(entry.Text) > domain.MaxChatLen {
			return domain.ErrMessageTooLong
		}
	case ChatKindVoteSummary:
		if msg.Summary == nil {
			return domain.ErrEmptyMessage
		}
		entry.Summary = msg.Summary
	default:
		return domain.ErrUnknownChatKind
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.actorLocked(sid, msg.Sender)
	if err != nil {
		return err
	}
	entry.Sender = p.Name
	entry.SentAt = r.clock.Now()
	if _, ok := r.typing[p.Name]; ok {
		delete(r.typing, p.Name)
		r.publishTypingLocked()
	}
	r.fanout.publish(Event{Type: EventTeamChat, Payload: ChatPayload{Message: entry}})
	return nil
}

func (r *roomImpl) Typing(sid SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.actorLocked(sid, "")
	if err != nil {
		return err
	}
	r.typing[p.Name] = r.clock.Now()
	r.publishTypingLocked()
	return nil
}

// publishTypingLocked prunes expired typing entries and broadcasts the rest.
func (r *roomImpl) publishTypingLocked() {
	now := r.clock.Now()
	names := make([]string, 0, len(r.typing))
	for name, at := range r.typing {
		if now.Sub(at) > TypingTTL {
			delete(r.typing, name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	r.fanout.publish(Event{Type: EventTypingUpdate, Payload: NamesPayload{Names: names}})
}
