package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
)

// Reaper periodically drops rooms nobody has been connected to for TTL.
type Reaper struct {
	Rooms    core.RoomManager
	Clock    clockwork.Clock
	TTL      time.Duration
	Interval time.Duration
}

func (r *Reaper) Run(ctx context.Context) error {
	ticker := r.Clock.NewTicker(r.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.reaper").Dur("ttl", r.TTL).Dur("interval", r.Interval).Msg("reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.reaper").Msg("reaper stopped")
			return nil
		case <-ticker.Chan():
			r.Sweep()
		}
	}
}

func (r *Reaper) Sweep() int {
	reaped := r.Rooms.Reap(r.TTL)
	for _, name := range reaped {
		log.Info().Str("module", "app.reaper").Str("room", string(name)).Msg("idle room reaped")
	}
	return len(reaped)
}
