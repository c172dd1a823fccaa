package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/Pointing/internal/app/orch"
	"github.com/dkeye/Pointing/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// ClientTokenKey is the session and gin context key of the browser token.
const ClientTokenKey = "client_token"

// ConnConfig holds per-connection transport limits.
type ConnConfig struct {
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	ReadLimit  int64
	SendBuffer int
}

func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		PingPeriod: 54 * time.Second,
		PongWait:   60 * time.Second,
		WriteWait:  10 * time.Second,
		ReadLimit:  32768,
		SendBuffer: 64,
	}
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Config   ConnConfig
	upgrader websocket.Upgrader
	validate *validator.Validate
}

// NewSignalWSController builds the controller. checkOrigin may be nil to
// accept every origin.
func NewSignalWSController(o *orch.Orchestrator, cfg ConnConfig, checkOrigin func(*http.Request) bool) *SignalWSController {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &SignalWSController{
		Orch:     o,
		Config:   cfg,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and serves the connection until it ends.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	client := c.GetString(ClientTokenKey)
	if _, hasSession := c.Get(sessions.DefaultKey); client == "" && hasSession {
		if v, ok := sessions.Default(c).Get(ClientTokenKey).(string); ok {
			client = v
		}
	}
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", client).Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Config.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctl.Orch.Registry.BindSignal(sid, client, conn, cancel)

	var wg conc.WaitGroup
	wg.Go(func() { ctl.writePump(ctx, cancel, sid, conn) })
	wg.Go(func() { ctl.readPump(ctx, cancel, sid, conn) })
	if r := wg.WaitAndRecover(); r != nil {
		log.Error().Str("module", "signal").Str("sid", string(sid)).Str("panic", r.String()).Msg("connection panicked")
	}

	ctl.Orch.OnDisconnect(sid)
	conn.Close()
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("WS connection closed")
}
