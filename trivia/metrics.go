/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quizbox",
		Name:      "rooms_active",
		Help:      "Rooms currently holding at least one player.",
	})

	gamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizbox",
		Name:      "games_started_total",
		Help:      "Games that served their first question.",
	})

	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizbox",
		Name:      "games_finished_total",
		Help:      "Games that reached a result, by what ended them.",
	}, []string{"cause"})

	answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizbox",
		Name:      "answers_total",
		Help:      "Accepted answer submissions, by result.",
	}, []string{"result"})

	roundTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizbox",
		Name:      "round_timeouts_total",
		Help:      "Rounds that ran out of time without a correct answer.",
	})

	eliminations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizbox",
		Name:      "eliminations_total",
		Help:      "Players eliminated after losing their last life.",
	})
)
