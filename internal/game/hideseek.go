package game

import (
	"strings"

	"github.com/brianference/daisydog-sub000/internal/model/chat"
	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

// HideSeek counts seek progress toward the win threshold; the counter
// never exceeds the configured maximum.
type HideSeek struct{}

func NewHideSeek() *HideSeek { return &HideSeek{} }

func (*HideSeek) Kind() gamemodel.Kind { return gamemodel.KindHideAndSeek }

func (*HideSeek) Start() (Response, gamemodel.State) {
	return Response{
		Message: "*covers eyes with paws* Yay, hide and seek! I'll count to ten while you hide! Say 'ready' when I should come looking! 🙈",
		Emotion: chat.EmotionExcited,
	}, gamemodel.HideSeekState{Count: 0}
}

func (h *HideSeek) Process(input string, st gamemodel.State) (Response, gamemodel.State) {
	state, ok := st.(gamemodel.HideSeekState)
	if !ok {
		return h.Start()
	}
	lowered := strings.ToLower(input)

	if strings.Contains(lowered, "stop") || strings.Contains(lowered, "done") || strings.Contains(lowered, "quit") {
		return h.End(state), state
	}

	if strings.Contains(lowered, "ready") || strings.Contains(lowered, "found") || strings.Contains(lowered, "here") {
		state.Count++
		if state.Count > gamemodel.HideSeekMaxCount {
			state.Count = gamemodel.HideSeekMaxCount
		}
		if state.Count >= gamemodel.HideSeekWinThreshold {
			state.Count = 0
			return Response{
				Message: "*jumps out from behind the tree* Found you! That was so much fun! Want to play again? 🎉",
				Emotion: chat.EmotionExcited,
				Ended:   true,
			}, state
		}
		return Response{
			Message: "*sniffs the ground* Hmm, I'm getting closer... I can smell something! 👃🌳",
			Emotion: chat.EmotionLookingBehind,
		}, state
	}

	return Response{
		Message: "*searching around* Stay very quiet! Say 'ready' or 'here' and I'll come looking! 🔍",
		Emotion: chat.EmotionLookingBehind,
	}, state
}

func (*HideSeek) End(gamemodel.State) Response {
	return Response{
		Message: "*pants happily* That was a great game of hide and seek! What next? 🐾",
		Emotion: chat.EmotionPatient,
		Ended:   true,
	}
}

func (*HideSeek) Actions(gamemodel.State) []Action {
	return []Action{
		{ID: "ready", Label: "🙈 Ready!", Command: "Ready, come find me!"},
		{ID: "here", Label: "📣 I'm here", Command: "I'm over here!"},
		{ID: "stop", Label: "🛑 Stop", Command: "Stop playing"},
	}
}

func (*HideSeek) Validate(st gamemodel.State) bool {
	state, ok := st.(gamemodel.HideSeekState)
	if !ok {
		return false
	}
	return state.Count >= 0 && state.Count <= gamemodel.HideSeekMaxCount
}
