/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"strings"

	"golang.org/x/text/cases"
)

// Player is owned by exactly one room and never leaves it except on disconnect.
type Player struct {
	ID                string
	Name              string
	Score             int
	Lives             int
	Eliminated        bool
	AnsweredThisRound bool

	seq    int
	// struck is set once a wrong answer cost a life this round; the round's
	// timeout does not charge the player again.
	struck bool
}

// loseLife keeps Eliminated in step with Lives and reports whether this call
// eliminated the player.
func (p *Player) loseLife() bool {
	if p.Eliminated {
		return false
	}

	p.Lives--
	if p.Lives <= 0 {
		p.Eliminated = true
		return true
	}

	return false
}

// fold is used for display names and answers. A Caser is stateful, so one is
// built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func answerMatches(submitted, expected string) bool {
	return fold(strings.TrimSpace(submitted)) == fold(expected)
}
