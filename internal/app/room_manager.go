package app

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]core.RoomService
	opts  core.RoomOptions
}

func NewRoomManager(opts core.RoomOptions) *RoomManagerImpl {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &RoomManagerImpl{
		rooms: make(map[domain.RoomName]core.RoomService),
		opts:  opts,
	}
}

// GetOrCreate returns the live room, replacing one that was closed.
func (f *RoomManagerImpl) GetOrCreate(name domain.RoomName) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[name]
	f.mu.RUnlock()
	if ok && !room.Closed() {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[name]; ok && !room.Closed() {
		return room
	}
	room = core.NewRoomService(&domain.Room{Name: name, CreatedAt: f.opts.Clock.Now()}, f.opts)
	f.rooms[name] = room
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Get(name domain.RoomName) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[name]
	if !ok || room.Closed() {
		return nil, false
	}
	return room, true
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	rooms := make([]core.RoomService, 0, len(f.rooms))
	for _, r := range f.rooms {
		rooms = append(rooms, r)
	}
	f.mu.RUnlock()

	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		if r.Closed() {
			continue
		}
		out = append(out, r.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StopRoom forgets a closed room. A live instance under the same name is kept.
func (f *RoomManagerImpl) StopRoom(name domain.RoomName) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[name]; ok && room.Closed() {
		delete(f.rooms, name)
		log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room stopped")
	}
}

// Reap closes and forgets rooms that have had no connection for ttl.
func (f *RoomManagerImpl) Reap(ttl time.Duration) []domain.RoomName {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reaped []domain.RoomName
	for name, room := range f.rooms {
		if room.CloseIfIdle(ttl) {
			delete(f.rooms, name)
			reaped = append(reaped, name)
		}
	}
	sort.Slice(reaped, func(i, j int) bool { return reaped[i] < reaped[j] })
	return reaped
}
