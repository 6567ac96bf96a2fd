/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"math/rand/v2"
	"time"
)

const waitingText = "Waiting for more players..."

// Config holds the pacing and rules of every room. Durations are expressed in
// real time; TimeLimit is counted in ticks of Tick.
type Config struct {
	TimeLimit     int
	Tick          time.Duration
	ResolvePause  time.Duration // correct answer or timeout -> announcement
	AnnouncePause time.Duration // announcement -> next question
	EndPause      time.Duration // last elimination -> game over
	StartingLives int
	MinPlayers    int
	AnnounceCount int

	// Pick selects an index in [0, n). Defaults to a uniform random choice.
	Pick func(n int) int
}

func DefaultConfig() Config {
	return Config{
		TimeLimit:     30,
		Tick:          time.Second,
		ResolvePause:  time.Second,
		AnnouncePause: 2 * time.Second,
		EndPause:      time.Second,
		StartingLives: 3,
		MinPlayers:    2,
		AnnounceCount: 3,
	}
}

func (c Config) pick(n int) int {
	if c.Pick != nil {
		return c.Pick(n)
	}
	return rand.IntN(n)
}
