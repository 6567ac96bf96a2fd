/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"cmp"
	"slices"
)

// Standing is one row of a live leaderboard.
type Standing struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	IsCorrect  bool   `json:"isCorrect"`
	Lives      int    `json:"lives"`
	Eliminated bool   `json:"isEliminated"`
}

// Leaderboard ranks players by score, highest first. Equal scores keep join
// order.
func Leaderboard(players []*Player, correctAnswerer string) []Standing {
	ranked := byJoinOrder(players)
	slices.SortStableFunc(ranked, func(a, b *Player) int {
		return cmp.Compare(b.Score, a.Score)
	})

	standings := make([]Standing, 0, len(ranked))
	for _, p := range ranked {
		standings = append(standings, Standing{
			Username:   p.Name,
			Score:      p.Score,
			IsCorrect:  correctAnswerer != "" && p.ID == correctAnswerer,
			Lives:      p.Lives,
			Eliminated: p.Eliminated,
		})
	}

	return standings
}

func byJoinOrder(players []*Player) []*Player {
	ordered := slices.Clone(players)
	slices.SortFunc(ordered, func(a, b *Player) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return ordered
}
