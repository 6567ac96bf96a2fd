/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

// Notification is the closed set of events a room emits. Event returns the
// wire name clients listen for.
type Notification interface {
	Event() string
	isNotification()
}

// Notifier delivers notifications to every connection tagged with a room, or
// to a single connection. Implementations must not block: rooms call them
// while holding their lock.
type Notifier interface {
	Broadcast(roomID string, n Notification)
	Send(connID string, n Notification)
}

// Tagger is implemented by notifiers that route broadcasts by a per-connection
// room tag. A room calls Tag under its lock once a join is admitted, before
// any notification about that join.
type Tagger interface {
	Tag(connID, roomID string)
}

type PlayerJoined struct {
	Username string `json:"username"`
}

type PlayerLeft struct {
	Username string `json:"username"`
}

type UsernameTaken struct{}

type JoinSucceeded struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type NewQuestion struct {
	Question  string `json:"question"`
	TimeLimit int    `json:"timeLimit"`
}

type TimerUpdate struct {
	SecondsLeft int `json:"secondsLeft"`
}

type CorrectAnswer struct {
	Answer string `json:"answer"`
}

type IncorrectAnswer struct{}

type AllowRetry struct{}

type TimeOut struct{}

type YouAreEliminated struct{}

type PlayerEliminated struct {
	Username string `json:"username"`
}

type LeaderboardUpdate struct {
	Entries []Standing `json:"leaderboard"`
}

type NextQuestionAnnouncement struct {
	Count int `json:"count"`
}

// GameOver closes a game. SimultaneousElimination and LastEliminatedUsernames
// are reserved for clients that already read them; they are never populated.
type GameOver struct {
	Winner                  *string       `json:"winner"`
	FinalLeaderboard        []FinalResult `json:"finalLeaderboard"`
	Reason                  string        `json:"reason"`
	Cause                   string        `json:"cause"`
	SimultaneousElimination bool          `json:"simultaneousElimination"`
	LastEliminatedUsernames []string      `json:"lastEliminatedUsernames"`
}

type Message struct {
	Text string `json:"text"`
}

func (PlayerJoined) Event() string             { return "playerJoined" }
func (PlayerLeft) Event() string               { return "playerLeft" }
func (UsernameTaken) Event() string            { return "usernameTaken" }
func (JoinSucceeded) Event() string            { return "joinGameSuccess" }
func (NewQuestion) Event() string              { return "newQuestion" }
func (TimerUpdate) Event() string              { return "timerUpdate" }
func (CorrectAnswer) Event() string            { return "correctAnswer" }
func (IncorrectAnswer) Event() string          { return "incorrectAnswer" }
func (AllowRetry) Event() string               { return "allowRetry" }
func (TimeOut) Event() string                  { return "timeOut" }
func (YouAreEliminated) Event() string         { return "youAreEliminated" }
func (PlayerEliminated) Event() string         { return "playerEliminated" }
func (LeaderboardUpdate) Event() string        { return "leaderboardUpdate" }
func (NextQuestionAnnouncement) Event() string { return "nextQuestionAnnouncement" }
func (GameOver) Event() string                 { return "gameOver" }
func (Message) Event() string                  { return "message" }

func (PlayerJoined) isNotification()             {}
func (PlayerLeft) isNotification()               {}
func (UsernameTaken) isNotification()            {}
func (JoinSucceeded) isNotification()            {}
func (NewQuestion) isNotification()              {}
func (TimerUpdate) isNotification()              {}
func (CorrectAnswer) isNotification()            {}
func (IncorrectAnswer) isNotification()          {}
func (AllowRetry) isNotification()               {}
func (TimeOut) isNotification()                  {}
func (YouAreEliminated) isNotification()         {}
func (PlayerEliminated) isNotification()         {}
func (LeaderboardUpdate) isNotification()        {}
func (NextQuestionAnnouncement) isNotification() {}
func (GameOver) isNotification()                 {}
func (Message) isNotification()                  {}
