/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type delivery struct {
	room string
	conn string
	n    Notification
}

// recorder is a Notifier that keeps everything it was asked to deliver.
type recorder struct {
	mu     sync.Mutex
	events []delivery

	// tags maps a connection to its room and the number of events recorded
	// before it was tagged.
	tags map[string]tag
}

type tag struct {
	room  string
	after int
}

func (r *recorder) Tag(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tags == nil {
		r.tags = make(map[string]tag)
	}
	r.tags[connID] = tag{room: roomID, after: len(r.events)}
}

func (r *recorder) tagOf(connID string) (tag, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tags[connID]
	return t, ok
}

func (r *recorder) Broadcast(roomID string, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, delivery{room: roomID, n: n})
}

func (r *recorder) Send(connID string, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, delivery{conn: connID, n: n})
}

func (r *recorder) all() []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]delivery, len(r.events))
	copy(out, r.events)
	return out
}

// broadcasts returns the notifications with the given event name sent to roomID.
func (r *recorder) broadcasts(roomID, event string) []Notification {
	var out []Notification
	for _, d := range r.all() {
		if d.room == roomID && d.n.Event() == event {
			out = append(out, d.n)
		}
	}
	return out
}

// sent returns the notifications with the given event name sent privately to connID.
func (r *recorder) sent(connID, event string) []Notification {
	var out []Notification
	for _, d := range r.all() {
		if d.conn == connID && d.n.Event() == event {
			out = append(out, d.n)
		}
	}
	return out
}

func (r *recorder) lastLeaderboard(roomID string) []Standing {
	updates := r.broadcasts(roomID, "leaderboardUpdate")
	if len(updates) == 0 {
		return nil
	}
	return updates[len(updates)-1].(LeaderboardUpdate).Entries
}

func (r *recorder) gameOver(roomID string) (GameOver, bool) {
	over := r.broadcasts(roomID, "gameOver")
	if len(over) == 0 {
		return GameOver{}, false
	}
	return over[0].(GameOver), true
}

// testConfig keeps rounds long enough that nothing times out unless a test
// shrinks TimeLimit, while every pause resolves in milliseconds.
func testConfig() Config {
	return Config{
		TimeLimit:     1000,
		Tick:          10 * time.Millisecond,
		ResolvePause:  5 * time.Millisecond,
		AnnouncePause: 5 * time.Millisecond,
		EndPause:      5 * time.Millisecond,
		StartingLives: 3,
		MinPlayers:    2,
		AnnounceCount: 3,
		Pick:          func(int) int { return 0 },
	}
}

func testBank(t *testing.T, n int) *Bank {
	t.Helper()

	questions := []Question{
		{Prompt: "What is the capital of France?", Answer: "Paris"},
		{Prompt: "What color is the sky?", Answer: "Blue"},
		{Prompt: "How many legs does a spider have?", Answer: "8"},
		{Prompt: "What is frozen water called?", Answer: "Ice"},
	}

	bank, err := NewBank(questions[:n])
	require.NoError(t, err)

	return bank
}

func newTestRegistry(t *testing.T, bank *Bank, cfg Config) (*Registry, *recorder) {
	t.Helper()

	rec := &recorder{}
	registry := NewRegistry(bank, rec, cfg, zaptest.NewLogger(t))
	t.Cleanup(registry.Close)

	return registry, rec
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

// requireLivesConsistent checks that a player is eliminated exactly when out
// of lives.
func requireLivesConsistent(t *testing.T, room *Room) {
	t.Helper()

	for _, p := range room.Players() {
		require.Equal(t, p.Lives <= 0, p.Eliminated, "player %s lives=%d eliminated=%v", p.Name, p.Lives, p.Eliminated)
	}
}
