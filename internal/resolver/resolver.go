// Package resolver turns one user input into one reply by consulting a
// fixed priority ladder of strategies. Earlier stages always win; later
// stages never see input an earlier stage claimed.
package resolver

import (
	"context"
	"math/rand"
	"strings"

	"github.com/brianference/daisydog-sub000/internal/game"
	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
	gamemodel "github.com/brianference/daisydog-sub000/internal/model/game"
	"github.com/brianference/daisydog-sub000/internal/namedetect"
	"github.com/brianference/daisydog-sub000/internal/safety"
	"github.com/brianference/daisydog-sub000/internal/topic"
)

// Turn carries everything a stage may consult for one input.
type Turn struct {
	Ctx     context.Context
	Input   string
	Session *chatmodel.Session
	Games   *game.Coordinator
}

// StateChanges is the patch a winning stage wants applied to the
// session. Nil pointers mean "leave as is". The caller applies the
// whole patch after the winner is chosen, never mid-ladder.
type StateChanges struct {
	UserName     *string
	AdvanceStory bool
	MarkGreeted  bool
}

// Apply writes the patch into the session.
func (c StateChanges) Apply(sess *chatmodel.Session) {
	if c.UserName != nil {
		sess.UserName = *c.UserName
	}
	if c.AdvanceStory {
		sess.StoryIndex++
	}
	if c.MarkGreeted {
		sess.HasGreeted = true
	}
}

// Response is a stage's claim on the turn.
type Response struct {
	Message string
	Emotion string
	MsgType string
	Source  string
	Changes StateChanges
}

// Stage is one rung of the priority ladder. TryResolve returns nil to
// pass the turn to the next stage.
type Stage interface {
	Name() string
	TryResolve(t *Turn) *Response
}

// Resolver runs the deterministic stages in priority order. The model
// fallback runs outside this type so callers control its locking and
// cancellation; FallbackReply is the terminal canned answer.
type Resolver struct {
	stages   []Stage
	fallback *fallbackStage
}

// New wires the ladder. safeTiers lists the topic tiers that outrank
// the safety gate.
func New(gate *safety.Gate, topics *topic.Matcher, names *namedetect.Detector, safeTiers []string, rng *rand.Rand) *Resolver {
	return &Resolver{
		stages: []Stage{
			&domainPriorityStage{topics: topics, tiers: safeTiers},
			&safetyStage{gate: gate},
			&activeGameStage{},
			&gameStartStage{},
			&topicsStage{topics: topics},
			&nameStage{names: names},
		},
		fallback: &fallbackStage{rng: rng},
	}
}

// ResolveImmediate runs every deterministic stage in order and returns
// the first claim, or nil when the turn should go to the model.
func (r *Resolver) ResolveImmediate(t *Turn) *Response {
	for _, stage := range r.stages {
		if resp := stage.TryResolve(t); resp != nil {
			resp.Source = stage.Name()
			return resp
		}
	}
	return nil
}

// FallbackReply is the terminal stage: a canned reply that always
// succeeds.
func (r *Resolver) FallbackReply(t *Turn) *Response {
	resp := r.fallback.TryResolve(t)
	resp.Source = r.fallback.Name()
	return resp
}

// domainPriorityStage answers trusted-tier topics before the safety
// gate can see the words. "Tell me about David and Goliath" should not
// be blocked for mentioning a battle.
type domainPriorityStage struct {
	topics *topic.Matcher
	tiers  []string
}

func (s *domainPriorityStage) Name() string { return "domain_priority" }

func (s *domainPriorityStage) TryResolve(t *Turn) *Response {
	match := s.topics.MatchTiers(t.Input, s.tiers)
	if match == nil {
		return nil
	}
	message, advance := s.topics.Respond(match, t.Session.StoryIndex)
	return &Response{
		Message: message,
		Emotion: match.Emotion,
		MsgType: chatmodel.TypeChat,
		Changes: StateChanges{AdvanceStory: advance},
	}
}

type safetyStage struct {
	gate *safety.Gate
}

func (s *safetyStage) Name() string { return "safety_gate" }

func (s *safetyStage) TryResolve(t *Turn) *Response {
	result := s.gate.Check(t.Input)
	if result.Allowed {
		return nil
	}
	return &Response{
		Message: result.Response,
		Emotion: chatmodel.EmotionNervous,
		MsgType: chatmodel.TypeChat,
	}
}

type activeGameStage struct{}

func (s *activeGameStage) Name() string { return "active_game" }

func (s *activeGameStage) TryResolve(t *Turn) *Response {
	if !t.Games.InGame() {
		return nil
	}
	resp := t.Games.ProcessInput(t.Input)
	if resp == nil {
		return nil
	}
	return &Response{
		Message: resp.Message,
		Emotion: resp.Emotion,
		MsgType: chatmodel.TypeGame,
	}
}

// gameStartStage starts games and runs the selection menu. While the
// menu is up every input is either a choice, a cancel, or a reprompt.
type gameStartStage struct{}

func (s *gameStartStage) Name() string { return "game_start" }

func (s *gameStartStage) TryResolve(t *Turn) *Response {
	if t.Games.Active() == gamemodel.KindSelection {
		return s.resolveSelection(t)
	}

	kind, ok := t.Games.DetectGame(t.Input)
	if !ok {
		return nil
	}
	if kind == gamemodel.KindSelection {
		t.Games.ShowSelection()
		return &Response{
			Message: "Yay, games! *bounces* Which one should we play? Pick one below!",
			Emotion: chatmodel.EmotionExcited,
			MsgType: chatmodel.TypeGame,
		}
	}
	return s.start(t, kind)
}

func (s *gameStartStage) resolveSelection(t *Turn) *Response {
	lowered := strings.ToLower(t.Input)
	for _, word := range []string{"cancel", "never mind", "nevermind", "something else", "no thanks"} {
		if strings.Contains(lowered, word) {
			t.Games.ClearSelection()
			return &Response{
				Message: "Okay! No games right now. What should we do instead? *wags tail*",
				Emotion: chatmodel.EmotionHappy,
				MsgType: chatmodel.TypeChat,
			}
		}
	}

	kind, ok := t.Games.DetectGame(t.Input)
	if ok && kind != gamemodel.KindSelection {
		t.Games.ClearSelection()
		return s.start(t, kind)
	}

	return &Response{
		Message: "Pick a game from the list, or say never mind!",
		Emotion: chatmodel.EmotionPatient,
		MsgType: chatmodel.TypeGame,
	}
}

func (s *gameStartStage) start(t *Turn, kind gamemodel.Kind) *Response {
	resp, err := t.Games.StartGame(kind)
	if err != nil {
		return nil
	}
	return &Response{
		Message: resp.Message,
		Emotion: resp.Emotion,
		MsgType: chatmodel.TypeGame,
	}
}

type topicsStage struct {
	topics *topic.Matcher
}

func (s *topicsStage) Name() string { return "topics" }

func (s *topicsStage) TryResolve(t *Turn) *Response {
	match := s.topics.Match(t.Input)
	if match == nil {
		return nil
	}
	message, advance := s.topics.Respond(match, t.Session.StoryIndex)
	return &Response{
		Message: message,
		Emotion: match.Emotion,
		MsgType: chatmodel.TypeChat,
		Changes: StateChanges{AdvanceStory: advance},
	}
}

// nameStage only runs until a name is known; after that the input goes
// to free chat.
type nameStage struct {
	names *namedetect.Detector
}

func (s *nameStage) Name() string { return "name_detect" }

func (s *nameStage) TryResolve(t *Turn) *Response {
	if t.Session.UserName != "" {
		return nil
	}
	result := s.names.Detect(t.Input)
	if result == nil {
		return nil
	}
	name := result.Name
	return &Response{
		Message: result.Message,
		Emotion: result.Emotion,
		MsgType: chatmodel.TypeChat,
		Changes: StateChanges{UserName: &name, MarkGreeted: true},
	}
}

type fallbackStage struct {
	rng *rand.Rand
}

func (s *fallbackStage) Name() string { return "fallback" }

var fallbackReplies = []string{
	"Woof! I'm not sure what that means, but it sounds fun! Want to play a game or hear a story?",
	"*tilts head* Hmm! Tell me more, or we could play fetch!",
	"Woof woof! Let's do something fun together. How about a joke?",
}

func (s *fallbackStage) TryResolve(t *Turn) *Response {
	return &Response{
		Message: fallbackReplies[s.rng.Intn(len(fallbackReplies))],
		Emotion: chatmodel.EmotionHappy,
		MsgType: chatmodel.TypeChat,
	}
}
