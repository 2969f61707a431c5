package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

func TestFetchThrowAndCatchCycle(t *testing.T) {
	f := NewFetch()
	_, st := f.Start()

	resp, st := f.Process("throw the ball", st)
	if st.(gamemodel.FetchState).Ball != gamemodel.BallThrown {
		t.Fatalf("expected thrown, got %s", st.(gamemodel.FetchState).Ball)
	}
	if resp.Ended {
		t.Fatal("throw should not end the game")
	}

	resp, st = f.Process("good catch!", st)
	if st.(gamemodel.FetchState).Ball != gamemodel.BallReady {
		t.Fatal("praise should return the ball to ready")
	}
	if resp.Emotion != "happy" {
		t.Fatalf("unexpected emotion: %s", resp.Emotion)
	}
}

func TestFetchUnrecognizedInputReprompts(t *testing.T) {
	f := NewFetch()
	_, st := f.Start()

	resp, next := f.Process("what is the weather", st)
	if resp.Ended {
		t.Fatal("unrecognized input must not end the game")
	}
	if next.(gamemodel.FetchState) != st.(gamemodel.FetchState) {
		t.Fatal("unrecognized input must not change state")
	}
}

func TestHideSeekWinsAtThreshold(t *testing.T) {
	h := NewHideSeek()
	_, st := h.Start()

	resp, st := h.Process("ready!", st)
	if resp.Ended {
		t.Fatal("first increment should not win")
	}
	if !strings.Contains(resp.Message, "closer") {
		t.Fatalf("expected getting-closer reply, got %q", resp.Message)
	}

	resp, _ = h.Process("found me yet?", st)
	if !resp.Ended {
		t.Fatal("second increment should reach the win threshold")
	}
	if !strings.Contains(strings.ToLower(resp.Message), "found you") {
		t.Fatalf("expected found-you message, got %q", resp.Message)
	}
}

func TestTugOfWarStrengthMonotonicAndWin(t *testing.T) {
	tug := NewTugOfWar()
	_, st := tug.Start()

	last := 0
	for i := 0; i < gamemodel.TugWinThreshold; i++ {
		var resp Response
		resp, st = tug.Process("pull harder", st)
		strength := st.(gamemodel.TugOfWarState).Strength
		if strength < last {
			t.Fatalf("strength decreased: %d -> %d", last, strength)
		}
		last = strength
		if i < gamemodel.TugWinThreshold-1 && resp.Ended {
			t.Fatal("game ended before the threshold")
		}
		if i == gamemodel.TugWinThreshold-1 && !resp.Ended {
			t.Fatal("game must end exactly when strength reaches the threshold")
		}
	}
}

func TestTugOfWarSurrenderIsDaisyWin(t *testing.T) {
	tug := NewTugOfWar()
	_, st := tug.Start()

	resp, _ := tug.Process("I give up!", st)
	if !resp.Ended {
		t.Fatal("surrender must end the game")
	}
	if !strings.Contains(resp.Message, "I win") {
		t.Fatalf("expected Daisy victory message, got %q", resp.Message)
	}
}

func TestGuessingTargetInRange(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := NewGuessing(rand.New(rand.NewSource(seed)))
		_, st := g.Start()
		target := st.(gamemodel.GuessingState).Target
		if target < gamemodel.GuessMinNumber || target > gamemodel.GuessMaxNumber {
			t.Fatalf("seed %d: target %d out of range", seed, target)
		}
	}
}

func TestGuessingHigherLowerWin(t *testing.T) {
	g := NewGuessing(rand.New(rand.NewSource(11)))
	_, st := g.Start()
	target := st.(gamemodel.GuessingState).Target

	for guess := gamemodel.GuessMinNumber; guess <= gamemodel.GuessMaxNumber; guess++ {
		resp, _ := g.Process(strconv.Itoa(guess), st)
		switch {
		case guess < target:
			if !strings.Contains(resp.Message, "Higher") {
				t.Fatalf("guess %d < target %d: want Higher, got %q", guess, target, resp.Message)
			}
		case guess > target:
			if !strings.Contains(resp.Message, "Lower") {
				t.Fatalf("guess %d > target %d: want Lower, got %q", guess, target, resp.Message)
			}
		default:
			if !resp.Ended || !strings.Contains(resp.Message, "You got it") {
				t.Fatalf("guess == target: want win, got %q", resp.Message)
			}
		}
	}
}

func TestGuessingHintNeverLeaksTarget(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := NewGuessing(rand.New(rand.NewSource(seed)))
		_, st := g.Start()
		target := st.(gamemodel.GuessingState).Target

		for i := 0; i < 6; i++ {
			resp, _ := g.Process("give me a hint", st)
			if resp.Ended {
				t.Fatal("hint must not end the game")
			}
			if strings.Contains(resp.Message, fmt.Sprintf("%d", target)) {
				t.Fatalf("hint leaked target %d: %q", target, resp.Message)
			}
		}
	}
}

func TestGuessingOutOfRangeReprompts(t *testing.T) {
	g := NewGuessing(rand.New(rand.NewSource(2)))
	_, st := g.Start()

	resp, _ := g.Process("42", st)
	if resp.Ended {
		t.Fatal("out-of-range guess must not end the game")
	}
	if !strings.Contains(resp.Message, "between") {
		t.Fatalf("expected range reprompt, got %q", resp.Message)
	}
}

func TestGuessingParsesSpelledNumbers(t *testing.T) {
	if n, ok := extractNumber("seven please"); !ok || n != 7 {
		t.Fatalf("spelled number: got %d/%v", n, ok)
	}
	if n, ok := extractNumber("  3 "); !ok || n != 3 {
		t.Fatalf("numeral: got %d/%v", n, ok)
	}
	if _, ok := extractNumber("no clue"); ok {
		t.Fatal("expected parse failure")
	}
}

func TestValidateRejectsForeignState(t *testing.T) {
	machines := []Machine{NewFetch(), NewHideSeek(), NewTugOfWar(), NewGuessing(rand.New(rand.NewSource(1)))}
	for _, m := range machines {
		if m.Validate(nil) {
			t.Fatalf("%s accepted nil state", m.Kind())
		}
	}
	if NewTugOfWar().Validate(gamemodel.TugOfWarState{Strength: gamemodel.TugMaxStrength + 1}) {
		t.Fatal("tug validate accepted out-of-range strength")
	}
	if NewGuessing(rand.New(rand.NewSource(1))).Validate(gamemodel.GuessingState{Target: 0}) {
		t.Fatal("guessing validate accepted zero target")
	}
}
