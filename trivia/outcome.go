/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

const (
	ReasonSoleSurvivor       = "sole survivor"
	ReasonEliminatedTie      = "tie among eliminated players at top score"
	ReasonEliminatedTopScore = "highest score among eliminated"
	ReasonHighestFinalScore  = "highest final score"
	ReasonSurvivorTopScore   = "highest score among survivors"
	ReasonSurvivorTie        = "tie among survivors"
	ReasonNoParticipants     = "no participants"
)

const (
	CauseQuestionsExhausted = "no more questions"
	CauseElimination        = "elimination"
)

type FinalResult struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	FinalLives int    `json:"finalLives"`
	Eliminated bool   `json:"isEliminated"`
}

type Outcome struct {
	Winner           *string
	FinalLeaderboard []FinalResult
	Reason           string
}

// Resolve decides the winner of a finished game. The branches are checked in
// a fixed order and must stay that way; callers rely on the reasons.
func Resolve(players []*Player) Outcome {
	all := byJoinOrder(players)

	var survivors []*Player
	allEliminated := true
	for _, p := range all {
		if p.Lives > 0 {
			allEliminated = false
		}
		if !p.Eliminated {
			survivors = append(survivors, p)
		}
	}

	out := Outcome{FinalLeaderboard: finalResults(all)}

	switch {
	case len(survivors) == 1:
		out.Winner = nameOf(survivors[0])
		out.Reason = ReasonSoleSurvivor

	case len(survivors) == 0 && allEliminated:
		top := topScorers(all)
		switch {
		case len(top) > 1:
			out.Reason = ReasonEliminatedTie
		case len(top) == 1:
			out.Winner = nameOf(top[0])
			out.Reason = ReasonEliminatedTopScore
		default:
			out.Reason = ReasonNoParticipants
		}

	case len(survivors) == 0 && len(all) > 0:
		// Only reachable when an eliminated flag disagrees with lives.
		out.Winner = nameOf(topScorers(all)[0])
		out.Reason = ReasonHighestFinalScore

	case len(survivors) > 1:
		top := topScorers(survivors)
		if len(top) == 1 {
			out.Winner = nameOf(top[0])
			out.Reason = ReasonSurvivorTopScore
		} else {
			out.Reason = ReasonSurvivorTie
		}

	default:
		out.Reason = ReasonNoParticipants
	}

	return out
}

// topScorers returns every player sharing the maximum score, in the order given.
func topScorers(players []*Player) []*Player {
	var top []*Player
	for _, p := range players {
		switch {
		case len(top) == 0 || p.Score > top[0].Score:
			top = []*Player{p}
		case p.Score == top[0].Score:
			top = append(top, p)
		}
	}
	return top
}

func finalResults(players []*Player) []FinalResult {
	results := make([]FinalResult, 0, len(players))
	for _, p := range players {
		results = append(results, FinalResult{
			Username:   p.Name,
			Score:      p.Score,
			FinalLives: p.Lives,
			Eliminated: p.Eliminated,
		})
	}
	return results
}

func nameOf(p *Player) *string {
	name := p.Name
	return &name
}
