package signal

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
)

var (
	errBadPayload     = errors.New("bad payload")
	errUnknownCommand = errors.New("unknown command")
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (ctl *SignalWSController) writePump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Config.PingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		// Unblocks the read pump.
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Config.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.Config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("failed to send ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
	}()

	c.conn.SetReadLimit(ctl.Config.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Config.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Config.PongWait))
		ctl.handleSignal(sid, c, data)
	}
}

func (ctl *SignalWSController) handleSignal(sid core.SessionID, c *WsSignalConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.sendError(c, "", fmt.Errorf("%w: %v", errBadPayload, err))
		return
	}

	var err error
	switch env.Type {
	case "join":
		err = ctl.handleJoin(sid, env.Payload)
	case "vote":
		err = ctl.handleVote(sid, env.Payload)
	case "startSession":
		err = ctl.handleStartSession(sid, env.Payload)
	case "revote":
		err = ctl.handleRevote(sid, env.Payload)
	case "revealVotes":
		err = ctl.handleReveal(sid)
	case "endSession":
		err = ctl.handleEndSession(sid)
	case "endPointingSession":
		err = ctl.handleEndPointingSession(sid)
	case "updateStoryQueue":
		err = ctl.handleUpdateQueue(sid, env.Payload)
	case "addStory":
		err = ctl.handleAddStory(sid, env.Payload)
	case "removeStory":
		err = ctl.handleRemoveStory(sid, env.Payload)
	case "offlineDevelopers":
		err = ctl.handleOfflineDevelopers(sid, c)
	case "updateMood":
		err = ctl.handleMood(sid, env.Payload)
	case "emojiReaction":
		err = ctl.handleReaction(sid, env.Payload)
	case "teamChat":
		err = ctl.handleChat(sid, env.Payload)
	case "userTyping":
		err = ctl.handleTyping(sid)
	case "forceRemoveUser":
		err = ctl.handleForceRemove(sid, env.Payload)
	case "logout":
		err = ctl.handleLogout(sid, c)
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(sid, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		err = fmt.Errorf("%w: %q", errUnknownCommand, env.Type)
	}
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Msg("command rejected")
		ctl.sendError(c, env.Type, err)
	}
}

// decode unmarshals a command payload and runs its validate tags.
func (ctl *SignalWSController) decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	if err := ctl.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func (ctl *SignalWSController) sendEvent(c *WsSignalConn, typ string, payload any) {
	b, err := core.Encode(core.Event{Type: typ, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendEvent marshal")
		return
	}
	_ = c.TrySend(b)
}

type errorPayload struct {
	Command string `json:"command,omitempty"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, command string, err error) {
	ctl.sendEvent(c, "error", errorPayload{Command: command, Code: errorCode(err), Error: err.Error()})
}
