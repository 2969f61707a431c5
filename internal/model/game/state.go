// Package game defines the tagged game-state model shared by the four
// mini-game machines and the coordinator. Each kind owns its own state
// struct so invalid field combinations cannot be represented.
package game

// Kind identifies a mini-game.
type Kind string

const (
	KindNone        Kind = ""
	KindFetch       Kind = "fetch"
	KindHideAndSeek Kind = "hide_and_seek"
	KindTugOfWar    Kind = "tug_of_war"
	KindGuessing    Kind = "guessing_game"

	// KindSelection is a sentinel meaning "show the game menu"; it is
	// never a running game and has no state.
	KindSelection Kind = "game_selection"
)

// Tunables carried over from the product's game configuration.
const (
	HideSeekMaxCount     = 3
	HideSeekWinThreshold = 2
	TugMaxStrength       = 3
	TugWinThreshold      = 2
	GuessMinNumber       = 1
	GuessMaxNumber       = 10
)

// BallPosition is the fetch machine's two-state position.
type BallPosition string

const (
	BallReady  BallPosition = "ready"
	BallThrown BallPosition = "thrown"
)

// State is implemented by each per-game state struct.
type State interface {
	Kind() Kind
}

// FetchState tracks where the ball is.
type FetchState struct {
	Ball BallPosition `json:"ballPosition"`
}

func (FetchState) Kind() Kind { return KindFetch }

// HideSeekState counts how close the seeker is to being found.
type HideSeekState struct {
	Count int `json:"hideSeekCount"`
}

func (HideSeekState) Kind() Kind { return KindHideAndSeek }

// TugOfWarState tracks the player's accumulated pull strength.
type TugOfWarState struct {
	Strength int `json:"tugStrength"`
}

func (TugOfWarState) Kind() Kind { return KindTugOfWar }

// GuessingState holds the secret target. The target is never included
// in any reply except the winning one.
type GuessingState struct {
	Target int `json:"guessTarget"`
}

func (GuessingState) Kind() Kind { return KindGuessing }
