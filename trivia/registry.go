/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry maps room ids to live rooms. Its lock only guards the map; when
// both are needed it is always taken before a room's.
type Registry struct {
	bank   *Bank
	notify Notifier
	cfg    Config
	logger *zap.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry(bank *Bank, notify Notifier, cfg Config, logger *zap.Logger) *Registry {
	return &Registry{
		bank:   bank,
		notify: notify,
		cfg:    cfg,
		logger: logger,
		rooms:  make(map[string]*Room),
	}
}

// Join adds connID to roomID as name, creating the room on first use. The
// player-facing rejection, if any, has already been sent when an error is
// returned.
func (g *Registry) Join(roomID, connID, name string) error {
	name = strings.TrimSpace(name)
	roomID = strings.TrimSpace(roomID)

	if name == "" || roomID == "" || connID == "" {
		return ErrInvalidJoin
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		room = newRoom(roomID, g.bank, g.notify, g.cfg, g.logger)
	}

	err := room.join(connID, name)
	switch {
	case err != nil && !ok:
		room.Close()
		return err
	case err != nil:
		g.logger.Debug("join rejected",
			zap.String("room", roomID),
			zap.String("player", name),
			zap.Error(err))
		return err
	}

	if !ok {
		g.rooms[roomID] = room
		roomsActive.Set(float64(len(g.rooms)))

		g.logger.Info("room created", zap.String("room", roomID))
	}

	return nil
}

// Answer routes a submission to the connection's room. Unknown rooms are
// ignored.
func (g *Registry) Answer(roomID, connID, answer string) {
	g.mu.Lock()
	room, ok := g.rooms[roomID]
	g.mu.Unlock()

	if !ok {
		return
	}

	room.submitAnswer(connID, answer)
}

// Leave removes connID from roomID and destroys the room once it is empty.
func (g *Registry) Leave(roomID, connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return
	}

	if !room.leave(connID) {
		return
	}

	delete(g.rooms, roomID)
	roomsActive.Set(float64(len(g.rooms)))

	g.logger.Info("room destroyed", zap.String("room", roomID))
}

func (g *Registry) Lookup(roomID string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	return room, ok
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.rooms)
}

// Rooms summarizes every live room, sorted by id.
func (g *Registry) Rooms() []RoomSummary {
	g.mu.Lock()
	defer g.mu.Unlock()

	summaries := make([]RoomSummary, 0, len(g.rooms))
	for _, room := range g.rooms {
		summaries = append(summaries, room.Summary())
	}

	slices.SortFunc(summaries, func(a, b RoomSummary) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return summaries
}

// Close stops every room. Used on shutdown.
func (g *Registry) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id, room := range g.rooms {
		room.Close()
		delete(g.rooms, id)
	}

	roomsActive.Set(0)
}

// IsRejection reports whether err is an expected join rejection rather than a
// fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNameTaken) ||
		errors.Is(err, ErrInvalidJoin) ||
		errors.Is(err, ErrAlreadyJoined) ||
		errors.Is(err, ErrGameOver)
}
