package game

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/brianference/daisydog-sub000/internal/model/chat"
	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

// Guessing draws a secret number in [GuessMinNumber, GuessMaxNumber]
// and answers higher/lower per guess. Hints describe the target
// (parity or half-range) without ever stating it.
type Guessing struct {
	rng *rand.Rand
}

func NewGuessing(rng *rand.Rand) *Guessing { return &Guessing{rng: rng} }

func (*Guessing) Kind() gamemodel.Kind { return gamemodel.KindGuessing }

func (g *Guessing) Start() (Response, gamemodel.State) {
	span := gamemodel.GuessMaxNumber - gamemodel.GuessMinNumber + 1
	target := gamemodel.GuessMinNumber + g.rng.Intn(span)
	return Response{
		Message: fmt.Sprintf("*thinks hard* Okay! I'm thinking of a number between %d and %d! Can you guess it? 🤔",
			gamemodel.GuessMinNumber, gamemodel.GuessMaxNumber),
		Emotion: chat.EmotionThinking,
	}, gamemodel.GuessingState{Target: target}
}

func (g *Guessing) Process(input string, st gamemodel.State) (Response, gamemodel.State) {
	state, ok := st.(gamemodel.GuessingState)
	if !ok {
		return g.Start()
	}
	lowered := strings.ToLower(input)

	if strings.Contains(lowered, "stop") || strings.Contains(lowered, "done") {
		return g.End(state), state
	}

	if strings.Contains(lowered, "hint") || strings.Contains(lowered, "help") {
		return Response{Message: g.hint(state.Target), Emotion: chat.EmotionThinking}, state
	}

	guess, ok := extractNumber(input)
	if !ok {
		return Response{
			Message: "*tilts head* I need a number between 1 and 10! Try again! 🔢",
			Emotion: chat.EmotionThinking,
		}, state
	}

	switch {
	case guess < gamemodel.GuessMinNumber || guess > gamemodel.GuessMaxNumber:
		return Response{
			Message: fmt.Sprintf("*shakes head* Pick a number between %d and %d! 🔢",
				gamemodel.GuessMinNumber, gamemodel.GuessMaxNumber),
			Emotion: chat.EmotionPatient,
		}, state
	case guess == state.Target:
		return Response{
			Message: fmt.Sprintf("*jumps up and down* YES! You got it! It was %d! You're so smart! 🎉", state.Target),
			Emotion: chat.EmotionExcited,
			Ended:   true,
		}, state
	case guess < state.Target:
		return Response{
			Message: "*wags tail* Higher! Try a bigger number! 📈",
			Emotion: chat.EmotionEager,
		}, state
	default:
		return Response{
			Message: "*shakes head* Lower! Try a smaller number! 📉",
			Emotion: chat.EmotionEager,
		}, state
	}
}

// hint derives a clue from the target without leaking its value.
func (g *Guessing) hint(target int) string {
	parity := "odd"
	if target%2 == 0 {
		parity = "even"
	}
	half := "in the second half"
	mid := (gamemodel.GuessMinNumber + gamemodel.GuessMaxNumber) / 2
	if target <= mid {
		half = "in the first half"
	}
	hints := []string{
		fmt.Sprintf("*whispers* It's %s! 🤫", parity),
		fmt.Sprintf("*gives puppy eyes* It's %s! 🐕", half),
	}
	return hints[g.rng.Intn(len(hints))]
}

func (*Guessing) End(st gamemodel.State) Response {
	msg := "*wags tail* That was fun! What should we do next? 🐾"
	if state, ok := st.(gamemodel.GuessingState); ok && state.Target != 0 {
		msg = fmt.Sprintf("*wags tail* The number was %d! Good try though! What should we do next? 🐾", state.Target)
	}
	return Response{Message: msg, Emotion: chat.EmotionPatient, Ended: true}
}

func (*Guessing) Actions(gamemodel.State) []Action {
	return []Action{
		{ID: "guess1", Label: "1️⃣", Command: "1"},
		{ID: "guess5", Label: "5️⃣", Command: "5"},
		{ID: "guess10", Label: "🔟", Command: "10"},
		{ID: "hint", Label: "💡 Hint", Command: "Give me a hint"},
		{ID: "stop", Label: "🛑 Stop", Command: "Stop playing"},
	}
}

func (*Guessing) Validate(st gamemodel.State) bool {
	state, ok := st.(gamemodel.GuessingState)
	if !ok {
		return false
	}
	return state.Target >= gamemodel.GuessMinNumber && state.Target <= gamemodel.GuessMaxNumber
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

var numberWords = []struct {
	word string
	n    int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
}

// extractNumber parses a numeral prefix or a spelled-out number word.
func extractNumber(input string) (int, bool) {
	trimmed := strings.TrimSpace(input)
	if digits := leadingInt.FindString(trimmed); digits != "" {
		n, err := strconv.Atoi(digits)
		if err == nil {
			return n, true
		}
	}
	lowered := strings.ToLower(trimmed)
	for _, nw := range numberWords {
		if strings.Contains(lowered, nw.word) {
			return nw.n, true
		}
	}
	return 0, false
}
