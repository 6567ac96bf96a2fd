/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(name string, seq, score, lives int) *Player {
	return &Player{ID: name, Name: name, Score: score, Lives: lives, Eliminated: lives <= 0, seq: seq}
}

func TestResolve(t *testing.T) {
	flagged := player("stale", 1, 4, 1)
	flagged.Eliminated = true

	tests := []struct {
		name    string
		players []*Player
		winner  string
		reason  string
	}{
		{
			name:    "sole survivor beats higher eliminated score",
			players: []*Player{player("alice", 0, 5, 0), player("bob", 1, 1, 2)},
			winner:  "bob",
			reason:  ReasonSoleSurvivor,
		},
		{
			name:    "all eliminated with tied top score",
			players: []*Player{player("alice", 0, 2, 0), player("bob", 1, 2, 0), player("carol", 2, 1, 0)},
			reason:  ReasonEliminatedTie,
		},
		{
			name:    "all eliminated with a single top score",
			players: []*Player{player("alice", 0, 1, 0), player("bob", 1, 3, 0)},
			winner:  "bob",
			reason:  ReasonEliminatedTopScore,
		},
		{
			name:    "flagged eliminated but lives remain",
			players: []*Player{player("alice", 0, 4, 0), flagged},
			winner:  "alice",
			reason:  ReasonHighestFinalScore,
		},
		{
			name:    "survivors with a top scorer",
			players: []*Player{player("alice", 0, 1, 3), player("bob", 1, 3, 1), player("carol", 2, 9, 0)},
			winner:  "bob",
			reason:  ReasonSurvivorTopScore,
		},
		{
			name:    "survivors tied",
			players: []*Player{player("alice", 0, 2, 3), player("bob", 1, 2, 1)},
			reason:  ReasonSurvivorTie,
		},
		{
			name:   "no players",
			reason: ReasonNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Resolve(tt.players)

			assert.Equal(t, tt.reason, out.Reason)
			if tt.winner == "" {
				assert.Nil(t, out.Winner)
			} else {
				require.NotNil(t, out.Winner)
				assert.Equal(t, tt.winner, *out.Winner)
			}

			assert.Len(t, out.FinalLeaderboard, len(tt.players))
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	players := []*Player{
		player("carol", 2, 3, 0),
		player("alice", 0, 3, 0),
		player("bob", 1, 3, 0),
	}

	first := Resolve(players)
	for range 10 {
		assert.Equal(t, first, Resolve(players))
	}
}

func TestResolveFinalLeaderboardInJoinOrder(t *testing.T) {
	out := Resolve([]*Player{
		player("bob", 1, 5, 0),
		player("alice", 0, 1, 2),
	})

	assert.Equal(t, []FinalResult{
		{Username: "alice", Score: 1, FinalLives: 2},
		{Username: "bob", Score: 5, FinalLives: 0, Eliminated: true},
	}, out.FinalLeaderboard)
}
