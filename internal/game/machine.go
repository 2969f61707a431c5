// Package game implements the four mini-game state machines and the
// coordinator that routes turns to whichever one is active.
package game

import (
	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

// Response is a machine's reply for one turn. Ended marks the game as
// finished; the coordinator clears the active kind when it sees it.
type Response struct {
	Message string `json:"message"`
	Emotion string `json:"emotion"`
	Ended   bool   `json:"-"`
}

// Action is a quick-reply button the presentation layer can offer. The
// command string is fed back through the resolver verbatim.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Command string `json:"command"`
}

// Machine is the common contract every mini-game satisfies. Process
// receives the machine's own state and returns the successor state;
// Validate guards against state that drifted out of the legal range.
type Machine interface {
	Kind() gamemodel.Kind
	Start() (Response, gamemodel.State)
	Process(input string, st gamemodel.State) (Response, gamemodel.State)
	End(st gamemodel.State) Response
	Actions(st gamemodel.State) []Action
	Validate(st gamemodel.State) bool
}
