package game

import (
	"strings"

	"github.com/brianference/daisydog-sub000/internal/model/chat"
	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

// TugOfWar accumulates pull strength; the player wins on reaching the
// threshold and Daisy wins on surrender. Strength never decreases
// within a game.
type TugOfWar struct{}

func NewTugOfWar() *TugOfWar { return &TugOfWar{} }

func (*TugOfWar) Kind() gamemodel.Kind { return gamemodel.KindTugOfWar }

func (*TugOfWar) Start() (Response, gamemodel.State) {
	return Response{
		Message: "*grabs rope in mouth* Grrr! Let's see who's stronger! Pull as hard as you can! 🪢",
		Emotion: chat.EmotionEager,
	}, gamemodel.TugOfWarState{Strength: 0}
}

var tugReplies = []string{
	"*pulls back with determination* Grrrr! *playful growl* I'm not giving up! Pull harder! 🪢",
	"*digs paws into ground* Woof! You're strong, but I'm not letting go! 💪",
	"*tugs with all might* Grrr! This is fun! Keep pulling! 🐕",
}

func (t *TugOfWar) Process(input string, st gamemodel.State) (Response, gamemodel.State) {
	state, ok := st.(gamemodel.TugOfWarState)
	if !ok {
		return t.Start()
	}
	lowered := strings.ToLower(input)

	switch {
	case strings.Contains(lowered, "pull") || strings.Contains(lowered, "tug") || strings.Contains(lowered, "harder"):
		if state.Strength < gamemodel.TugMaxStrength {
			state.Strength++
		}
		if state.Strength >= gamemodel.TugWinThreshold {
			return Response{
				Message: "*lets go of rope and wags tail* You win! You're really strong! That was awesome! 💪",
				Emotion: chat.EmotionExcited,
				Ended:   true,
			}, state
		}
		reply := tugReplies[min(state.Strength, len(tugReplies)-1)]
		return Response{Message: reply, Emotion: chat.EmotionEager}, state

	case strings.Contains(lowered, "give up") || strings.Contains(lowered, "surrender"):
		return Response{
			Message: "*wags tail proudly* I win! *does victory dance* That was a great game! Want to try again? 🏆",
			Emotion: chat.EmotionExcited,
			Ended:   true,
		}, state

	case strings.Contains(lowered, "stop") || strings.Contains(lowered, "done"):
		return t.End(state), state
	}

	return Response{
		Message: "*grabs rope* Grrr! *playful tug* Come on, pull! Let's see who's stronger! 🪢",
		Emotion: chat.EmotionEager,
	}, state
}

func (*TugOfWar) End(gamemodel.State) Response {
	return Response{
		Message: "*drops rope* Good game! What should we do next? 🐾",
		Emotion: chat.EmotionPatient,
		Ended:   true,
	}
}

func (*TugOfWar) Actions(gamemodel.State) []Action {
	return []Action{
		{ID: "pull", Label: "💪 Pull harder", Command: "Pull harder!"},
		{ID: "giveup", Label: "🏳️ Give up", Command: "I give up!"},
		{ID: "stop", Label: "🛑 Stop", Command: "Stop playing"},
	}
}

func (*TugOfWar) Validate(st gamemodel.State) bool {
	state, ok := st.(gamemodel.TugOfWarState)
	if !ok {
		return false
	}
	return state.Strength >= 0 && state.Strength <= gamemodel.TugMaxStrength
}
