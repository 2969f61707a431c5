package game

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"

	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
)

// Coordinator owns the single active game. At most one machine runs at
// a time; the selection sentinel marks "show the game menu" without a
// machine behind it.
type Coordinator struct {
	machines map[gamemodel.Kind]Machine
	active   gamemodel.Kind
	state    gamemodel.State
}

// NewCoordinator wires the four machines. rng feeds the guessing game.
func NewCoordinator(rng *rand.Rand) *Coordinator {
	machines := map[gamemodel.Kind]Machine{}
	for _, m := range []Machine{NewFetch(), NewHideSeek(), NewTugOfWar(), NewGuessing(rng)} {
		machines[m.Kind()] = m
	}
	return &Coordinator{machines: machines, active: gamemodel.KindNone}
}

// Active returns the running game kind, the selection sentinel, or
// KindNone.
func (c *Coordinator) Active() gamemodel.Kind { return c.active }

// InGame reports whether a concrete machine is running.
func (c *Coordinator) InGame() bool {
	_, ok := c.machines[c.active]
	return ok
}

// State exposes the active machine state for read models; nil when no
// game runs.
func (c *Coordinator) State() gamemodel.State { return c.state }

// StartGame activates a machine, resetting its state.
func (c *Coordinator) StartGame(kind gamemodel.Kind) (Response, error) {
	m, ok := c.machines[kind]
	if !ok {
		return Response{}, fmt.Errorf("unknown game kind %q", kind)
	}
	resp, st := m.Start()
	c.active = kind
	c.state = st
	return resp, nil
}

// ShowSelection raises the game menu sentinel.
func (c *Coordinator) ShowSelection() { c.active = gamemodel.KindSelection }

// ClearSelection drops the menu sentinel without touching a running
// game.
func (c *Coordinator) ClearSelection() {
	if c.active == gamemodel.KindSelection {
		c.active = gamemodel.KindNone
	}
}

// ProcessInput routes a turn to the active machine. Returns nil when
// no game is running. Corrupt state is recovered by restarting the
// machine rather than failing the turn.
func (c *Coordinator) ProcessInput(input string) *Response {
	m, ok := c.machines[c.active]
	if !ok {
		return nil
	}

	if !m.Validate(c.state) {
		log.Printf("[game] invalid %s state, resetting", c.active)
		resp, st := m.Start()
		c.state = st
		return &resp
	}

	resp, st := m.Process(input, c.state)
	c.state = st
	if resp.Ended {
		c.active = gamemodel.KindNone
		c.state = nil
	}
	return &resp
}

// EndCurrent stops the running game, if any.
func (c *Coordinator) EndCurrent() *Response {
	m, ok := c.machines[c.active]
	if !ok {
		return nil
	}
	resp := m.End(c.state)
	c.active = gamemodel.KindNone
	c.state = nil
	return &resp
}

// DetectGame maps free text to the game it asks for. An unqualified
// "play a game" yields the selection sentinel.
func (c *Coordinator) DetectGame(text string) (gamemodel.Kind, bool) {
	lowered := strings.ToLower(text)

	switch {
	case strings.Contains(lowered, "fetch") &&
		(strings.Contains(lowered, "play") || strings.Contains(lowered, "let")):
		return gamemodel.KindFetch, true
	case strings.Contains(lowered, "hide") && strings.Contains(lowered, "seek"):
		return gamemodel.KindHideAndSeek, true
	case strings.Contains(lowered, "tug") && strings.Contains(lowered, "war"):
		return gamemodel.KindTugOfWar, true
	case strings.Contains(lowered, "guess") && strings.Contains(lowered, "game"):
		return gamemodel.KindGuessing, true
	case (strings.Contains(lowered, "play") && strings.Contains(lowered, "game")) ||
		strings.Contains(lowered, "let's play") ||
		lowered == "play games":
		return gamemodel.KindSelection, true
	}
	return gamemodel.KindNone, false
}

// Actions returns the quick-reply buttons for the current state: the
// selection menu when the sentinel is raised, the active machine's
// actions while playing, nothing otherwise.
func (c *Coordinator) Actions() []Action {
	if c.active == gamemodel.KindSelection {
		return selectionActions()
	}
	if m, ok := c.machines[c.active]; ok {
		return m.Actions(c.state)
	}
	return nil
}

func selectionActions() []Action {
	return []Action{
		{ID: "fetch", Label: "🎾 Play Fetch", Command: "Let's play fetch!"},
		{ID: "hideseek", Label: "👁️ Hide & Seek", Command: "Let's play hide and seek!"},
		{ID: "tugwar", Label: "🪢 Tug of War", Command: "Let's play tug of war!"},
		{ID: "guessing", Label: "🔢 Guessing Game", Command: "Let's play a guessing game!"},
		{ID: "cancel", Label: "❌ Never mind", Command: "Actually, let's do something else"},
	}
}

// snapshot is the persisted form of the coordinator.
type snapshot struct {
	ActiveGameKind gamemodel.Kind  `json:"activeGameKind"`
	GameState      json.RawMessage `json:"gameState,omitempty"`
}

// Serialize captures the active kind and its state for persistence.
func (c *Coordinator) Serialize() ([]byte, error) {
	snap := snapshot{ActiveGameKind: c.active}
	if c.state != nil {
		raw, err := json.Marshal(c.state)
		if err != nil {
			return nil, fmt.Errorf("marshal game state: %w", err)
		}
		snap.GameState = raw
	}
	return json.Marshal(snap)
}

// Deserialize restores a serialized coordinator. Unknown kinds and
// undecodable state fail closed: no active game, no error surfaced to
// the session.
func (c *Coordinator) Deserialize(data []byte) error {
	c.active = gamemodel.KindNone
	c.state = nil
	if len(data) == 0 {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode game snapshot: %w", err)
	}

	if snap.ActiveGameKind == gamemodel.KindSelection {
		c.active = gamemodel.KindSelection
		return nil
	}

	m, ok := c.machines[snap.ActiveGameKind]
	if !ok {
		// Includes KindNone and any kind this build doesn't know.
		return nil
	}

	st, err := decodeState(snap.ActiveGameKind, snap.GameState)
	if err != nil || !m.Validate(st) {
		log.Printf("[game] dropping unusable %s snapshot", snap.ActiveGameKind)
		return nil
	}
	c.active = snap.ActiveGameKind
	c.state = st
	return nil
}

func decodeState(kind gamemodel.Kind, raw json.RawMessage) (gamemodel.State, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty state for %s", kind)
	}
	switch kind {
	case gamemodel.KindFetch:
		var st gamemodel.FetchState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return st, nil
	case gamemodel.KindHideAndSeek:
		var st gamemodel.HideSeekState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return st, nil
	case gamemodel.KindTugOfWar:
		var st gamemodel.TugOfWarState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return st, nil
	case gamemodel.KindGuessing:
		var st gamemodel.GuessingState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown kind %s", kind)
}
