package game

import (
	"strings"

	"github.com/brianference/daisydog-sub000/internal/model/chat"
	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

// Fetch is the two-state ball game: ready <-> thrown.
type Fetch struct{}

func NewFetch() *Fetch { return &Fetch{} }

func (*Fetch) Kind() gamemodel.Kind { return gamemodel.KindFetch }

func (*Fetch) Start() (Response, gamemodel.State) {
	return Response{
		Message: "*bounces excitedly* Woof! Let's play fetch! Throw the ball and I'll catch it! 🎾",
		Emotion: chat.EmotionPlayfetch,
	}, gamemodel.FetchState{Ball: gamemodel.BallReady}
}

func (f *Fetch) Process(input string, st gamemodel.State) (Response, gamemodel.State) {
	state, ok := st.(gamemodel.FetchState)
	if !ok {
		return f.Start()
	}
	lowered := strings.ToLower(input)

	switch {
	case strings.Contains(lowered, "throw") || strings.Contains(lowered, "fetch"):
		state.Ball = gamemodel.BallThrown
		return Response{
			Message: "*runs after the ball excitedly* Woof woof! I got it! *brings ball back and drops it at your feet* 🎾",
			Emotion: chat.EmotionPlayfetch,
		}, state
	case strings.Contains(lowered, "good") || strings.Contains(lowered, "catch"):
		state.Ball = gamemodel.BallReady
		return Response{
			Message: "*wags tail proudly* Thanks! I love playing fetch! Want to throw it again? 🐕",
			Emotion: chat.EmotionHappy,
		}, state
	case strings.Contains(lowered, "stop") || strings.Contains(lowered, "done"):
		return f.End(state), state
	}

	return Response{
		Message: "*holds ball in mouth* Woof! Throw the ball and I'll fetch it! 🎾",
		Emotion: chat.EmotionPlayfetch,
	}, state
}

func (*Fetch) End(gamemodel.State) Response {
	return Response{
		Message: "*pants happily* That was fun! What should we do next? 🐾",
		Emotion: chat.EmotionPatient,
		Ended:   true,
	}
}

func (*Fetch) Actions(gamemodel.State) []Action {
	return []Action{
		{ID: "throw", Label: "🎾 Throw ball", Command: "Throw the ball"},
		{ID: "praise", Label: "👏 Good catch", Command: "Good catch!"},
		{ID: "stop", Label: "🛑 Stop", Command: "Stop playing"},
	}
}

func (*Fetch) Validate(st gamemodel.State) bool {
	state, ok := st.(gamemodel.FetchState)
	if !ok {
		return false
	}
	return state.Ball == gamemodel.BallReady || state.Ball == gamemodel.BallThrown
}
