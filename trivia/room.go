/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNameTaken     = errors.New("display name already taken in room")
	ErrInvalidJoin   = errors.New("join requires a display name and a room")
	ErrAlreadyJoined = errors.New("connection already joined this room")
	ErrGameOver      = errors.New("game in room has already ended")

	errRoomClosed = errors.New("room closed")
)

const timeUpText = "Time's up!"

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseQuestion
	PhaseIntermission
	PhaseEnding
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseQuestion:
		return "question"
	case PhaseIntermission:
		return "intermission"
	case PhaseEnding:
		return "ending"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Room runs one game. Every exported method and every scheduled callback
// takes mu, so a room behaves as a single logical actor.
type Room struct {
	id     string
	cfg    Config
	bank   *Bank
	notify Notifier
	logger *zap.Logger

	mu              sync.Mutex
	players         map[string]*Player
	nextSeq         int
	phase           Phase
	round           int
	current         *Question
	questionStart   time.Time
	correctAnswerer string
	used            map[string]struct{}
	ticks           int
	countdown       *time.Timer
	pending         map[*time.Timer]struct{}
	closed          bool
}

func newRoom(id string, bank *Bank, notify Notifier, cfg Config, logger *zap.Logger) *Room {
	return &Room{
		id:      id,
		cfg:     cfg,
		bank:    bank,
		notify:  notify,
		logger:  logger.With(zap.String("room", id)),
		players: make(map[string]*Player),
		used:    make(map[string]struct{}),
		pending: make(map[*time.Timer]struct{}),
	}
}

func (r *Room) ID() string {
	return r.id
}

// after runs fn under the room lock once d has elapsed, unless the room was
// closed or moved on to another round in the meantime.
func (r *Room) after(d time.Duration, round int, fn func()) *time.Timer {
	var t *time.Timer

	t = time.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		delete(r.pending, t)

		if r.closed || r.round != round {
			return
		}

		fn()
	})

	r.pending[t] = struct{}{}

	return t
}

func (r *Room) stopCountdown() {
	if r.countdown == nil {
		return
	}

	r.countdown.Stop()
	delete(r.pending, r.countdown)
	r.countdown = nil
}

func (r *Room) alive() int {
	n := 0
	for _, p := range r.players {
		if !p.Eliminated {
			n++
		}
	}
	return n
}

func (r *Room) playerList() []*Player {
	list := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, p)
	}
	return byJoinOrder(list)
}

func (r *Room) refreshLeaderboard() {
	r.notify.Broadcast(r.id, LeaderboardUpdate{
		Entries: Leaderboard(r.playerList(), r.correctAnswerer),
	})
}

func (r *Room) join(connID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomClosed
	}

	if _, ok := r.players[connID]; ok {
		return ErrAlreadyJoined
	}

	folded := fold(name)
	for _, p := range r.players {
		if fold(p.Name) == folded {
			r.notify.Send(connID, UsernameTaken{})
			return ErrNameTaken
		}
	}

	if r.phase == PhaseEnding || r.phase == PhaseOver {
		r.notify.Send(connID, Message{Text: "This game has already ended."})
		return ErrGameOver
	}

	r.players[connID] = &Player{
		ID:    connID,
		Name:  name,
		Lives: r.cfg.StartingLives,
		seq:   r.nextSeq,
	}
	r.nextSeq++

	if t, ok := r.notify.(Tagger); ok {
		t.Tag(connID, r.id)
	}

	r.logger.Info("player joined",
		zap.String("player", name),
		zap.Int("players", len(r.players)))

	r.notify.Broadcast(r.id, PlayerJoined{Username: name})
	r.refreshLeaderboard()
	r.notify.Send(connID, JoinSucceeded{Username: name, Room: r.id})

	switch r.phase {
	case PhaseLobby:
		r.startGame()
	case PhaseQuestion:
		r.notify.Send(connID, NewQuestion{Question: r.current.Prompt, TimeLimit: r.cfg.TimeLimit})
		r.notify.Send(connID, TimerUpdate{SecondsLeft: r.cfg.TimeLimit - r.ticks})
	}

	return nil
}

func (r *Room) startGame() {
	if r.alive() < r.cfg.MinPlayers {
		r.notify.Broadcast(r.id, Message{Text: waitingText})
		return
	}

	r.correctAnswerer = ""

	gamesStarted.Inc()
	r.logger.Info("game started", zap.Int("players", len(r.players)))

	r.advanceQuestion()
}

func (r *Room) advanceQuestion() {
	unused := r.bank.Unused(r.used)
	if len(unused) == 0 {
		r.endGame(CauseQuestionsExhausted)
		return
	}

	q := unused[r.cfg.pick(len(unused))]

	r.round++
	r.current = &q
	r.used[q.Prompt] = struct{}{}
	r.correctAnswerer = ""
	r.questionStart = time.Now()
	for _, p := range r.players {
		p.AnsweredThisRound = false
		p.struck = false
	}
	r.phase = PhaseQuestion

	r.notify.Broadcast(r.id, NewQuestion{Question: q.Prompt, TimeLimit: r.cfg.TimeLimit})

	r.stopCountdown()
	r.ticks = 0
	r.scheduleTick()
}

func (r *Room) scheduleTick() {
	r.countdown = r.after(r.cfg.Tick, r.round, r.tick)
}

func (r *Room) tick() {
	r.countdown = nil

	if r.phase != PhaseQuestion {
		return
	}

	r.ticks++
	remaining := r.cfg.TimeLimit - r.ticks

	r.notify.Broadcast(r.id, TimerUpdate{SecondsLeft: max(remaining, 0)})

	if remaining <= 0 {
		r.timeout()
		return
	}

	r.scheduleTick()
}

// timeout resolves a round nobody answered in time. A correct answer that got
// the lock first has already closed the round. Players already charged a life
// for a wrong answer this round are not charged again.
func (r *Room) timeout() {
	if r.correctAnswerer != "" || r.phase != PhaseQuestion {
		return
	}

	r.phase = PhaseIntermission
	roundTimeouts.Inc()

	r.notify.Broadcast(r.id, Message{Text: timeUpText})

	for _, p := range r.playerList() {
		if p.AnsweredThisRound || p.Eliminated || p.struck {
			continue
		}

		eliminated := p.loseLife()
		r.notify.Send(p.ID, TimeOut{})

		if eliminated {
			r.eliminate(p)
		}
	}

	r.refreshLeaderboard()

	if r.phase == PhaseIntermission {
		r.after(r.cfg.ResolvePause, r.round, r.announceNext)
	}
}

func (r *Room) submitAnswer(connID, raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.phase != PhaseQuestion || r.correctAnswerer != "" {
		return
	}

	p, ok := r.players[connID]
	if !ok || p.AnsweredThisRound || p.Eliminated {
		return
	}

	if answerMatches(raw, r.current.Answer) {
		answersTotal.WithLabelValues("correct").Inc()

		p.Score++
		p.AnsweredThisRound = true
		r.correctAnswerer = connID
		r.phase = PhaseIntermission

		r.notify.Send(connID, CorrectAnswer{Answer: r.current.Answer})
		r.stopCountdown()
		r.refreshLeaderboard()

		r.after(r.cfg.ResolvePause, r.round, r.announceNext)

		return
	}

	answersTotal.WithLabelValues("incorrect").Inc()

	r.notify.Send(connID, IncorrectAnswer{})

	p.struck = true
	if p.loseLife() {
		r.eliminate(p)
		return
	}

	r.notify.Send(connID, AllowRetry{})
	r.refreshLeaderboard()
}

// eliminate runs after p has lost its last life. Once at most one player is
// left standing, game end is scheduled and the current round is closed.
func (r *Room) eliminate(p *Player) {
	eliminations.Inc()
	r.logger.Info("player eliminated", zap.String("player", p.Name))

	r.notify.Send(p.ID, YouAreEliminated{})
	r.notify.Broadcast(r.id, PlayerEliminated{Username: p.Name})
	r.refreshLeaderboard()

	if r.alive() > 1 || r.phase == PhaseEnding || r.phase == PhaseOver {
		return
	}

	r.phase = PhaseEnding
	r.stopCountdown()

	r.after(r.cfg.EndPause, r.round, func() {
		r.endGame(CauseElimination)
	})
}

func (r *Room) announceNext() {
	if r.phase != PhaseIntermission {
		return
	}

	r.notify.Broadcast(r.id, NextQuestionAnnouncement{Count: r.cfg.AnnounceCount})

	r.after(r.cfg.AnnouncePause, r.round, func() {
		if r.phase != PhaseIntermission {
			return
		}
		r.advanceQuestion()
	})
}

func (r *Room) endGame(cause string) {
	if r.phase == PhaseOver {
		return
	}

	r.stopCountdown()
	r.phase = PhaseOver

	outcome := Resolve(r.playerList())

	winner := ""
	if outcome.Winner != nil {
		winner = *outcome.Winner
	}

	gamesFinished.WithLabelValues(cause).Inc()
	r.logger.Info("game over",
		zap.String("cause", cause),
		zap.String("reason", outcome.Reason),
		zap.String("winner", winner))

	r.notify.Broadcast(r.id, GameOver{
		Winner:                  outcome.Winner,
		FinalLeaderboard:        outcome.FinalLeaderboard,
		Reason:                  outcome.Reason,
		Cause:                   cause,
		LastEliminatedUsernames: []string{},
	})
}

// leave removes a connection and reports whether the room is now empty, in
// which case it has also been closed.
func (r *Room) leave(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[connID]
	if !ok {
		return len(r.players) == 0
	}

	delete(r.players, connID)

	r.logger.Info("player left",
		zap.String("player", p.Name),
		zap.Int("players", len(r.players)))

	if len(r.players) == 0 {
		r.closeLocked()
		return true
	}

	r.notify.Broadcast(r.id, PlayerLeft{Username: p.Name})
	r.refreshLeaderboard()

	if !p.Eliminated {
		r.checkExhausted()
	}

	return false
}

// checkExhausted ends a running game between rounds when the bank has nothing
// left to serve.
func (r *Room) checkExhausted() {
	if r.phase != PhaseIntermission {
		return
	}

	if len(r.bank.Unused(r.used)) > 0 {
		return
	}

	r.endGame(CauseQuestionsExhausted)
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}

	r.closed = true
	r.countdown = nil

	for t := range r.pending {
		t.Stop()
	}
	clear(r.pending)

	r.logger.Debug("room closed")
}

// Close stops every pending timer. Later calls into the room are no-ops.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked()
}

// RoomSummary is a point-in-time view of a room.
type RoomSummary struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Alive   int    `json:"alive"`
	Phase   string `json:"phase"`
	Round   int    `json:"round"`
	OpenFor string `json:"openFor,omitempty"`
}

func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := RoomSummary{
		ID:      r.id,
		Players: len(r.players),
		Alive:   r.alive(),
		Phase:   r.phase.String(),
		Round:   r.round,
	}

	if r.phase == PhaseQuestion {
		summary.OpenFor = time.Since(r.questionStart).Round(time.Second).String()
	}

	return summary
}

// Players returns copies of the room's players in join order.
func (r *Room) Players() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.playerList()
	out := make([]Player, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	return out
}

func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.phase
}

func (r *Room) CorrectAnswerer() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.correctAnswerer
}

// UsedPrompts returns the prompts served so far, in no particular order.
func (r *Room) UsedPrompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.used))
	for prompt := range r.used {
		out = append(out, prompt)
	}
	return out
}
