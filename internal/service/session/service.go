// Package session owns the live conversation: one session, one lock,
// one writer. Deterministic strategies run under the lock; the model
// call runs outside it and its reply is discarded if the conversation
// moved on in the meantime.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	analysis "github.com/brianference/daisydog-sub000/internal/analysis/emotion"
	"github.com/brianference/daisydog-sub000/internal/checkpoint"
	"github.com/brianference/daisydog-sub000/internal/config"
	"github.com/brianference/daisydog-sub000/internal/game"
	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
	"github.com/brianference/daisydog-sub000/internal/resolver"
)

// Generator produces a free-chat reply. The AI service satisfies this;
// tests substitute their own.
type Generator interface {
	Generate(ctx context.Context, sess *chatmodel.Session, userMessage string) (string, error)
}

const greeting = "*wags tail excitedly* Woof woof! Hi there! I'm Daisy! 🐕 What's your name?"

// Service is the single writer for one conversation.
type Service struct {
	mu     sync.Mutex
	sess   *chatmodel.Session
	games  *game.Coordinator
	res    *resolver.Resolver
	gen    Generator
	checkp *checkpoint.Manager
	cfg    config.SessionConfig

	// epoch counts mutations; a model reply born under an older epoch
	// is stale and gets dropped.
	epoch uint64

	autosave *time.Timer
	events   chan chatmodel.Message
	stop     chan struct{}
	done     sync.WaitGroup
	closed   bool
}

// New restores the session from the checkpoint (if any) and wires the
// timers. gen may be nil; free chat then uses canned replies only.
func New(res *resolver.Resolver, games *game.Coordinator, gen Generator, checkp *checkpoint.Manager, cfg config.SessionConfig) *Service {
	s := &Service{
		sess:   chatmodel.NewSession(),
		games:  games,
		res:    res,
		gen:    gen,
		checkp: checkp,
		cfg:    cfg,
		events: make(chan chatmodel.Message, 16),
		stop:   make(chan struct{}),
	}

	if snap := checkp.Load(); snap != nil {
		snap.Restore(s.sess)
		if err := games.Deserialize(snap.Game); err != nil {
			log.Printf("[session] ignoring unreadable game snapshot: %v", err)
		}
		log.Printf("[session] restored checkpoint from %s", snap.SavedAt)
	}

	return s
}

// Start launches the hunger timer. Call Close to stop it.
func (s *Service) Start() {
	s.done.Add(1)
	go s.hungerLoop()
}

// Events delivers messages Daisy sends on her own, like hunger whines.
func (s *Service) Events() <-chan chatmodel.Message { return s.events }

// Greet emits the first message of a fresh session, once.
func (s *Service) Greet() *chatmodel.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.HasGreeted {
		return nil
	}
	s.sess.HasGreeted = true
	msg := s.sess.Append(greeting, chatmodel.SenderDaisy, chatmodel.TypeChat, chatmodel.EmotionExcited)
	s.scheduleAutosaveLocked()
	return &msg
}

// ProcessTurn handles one user input and returns Daisy's reply. A nil
// reply with nil error means a stale model response was discarded.
func (s *Service) ProcessTurn(ctx context.Context, input string) (*chatmodel.Message, error) {
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.sess.Append(input, chatmodel.SenderUser, chatmodel.TypeChat, "")

	turn := &resolver.Turn{Ctx: ctx, Input: input, Session: s.sess, Games: s.games}
	if resp := s.res.ResolveImmediate(turn); resp != nil {
		msg := s.commitLocked(resp)
		s.mu.Unlock()
		return &msg, nil
	}
	s.mu.Unlock()

	// Free chat. The lock is released for the duration of the call so
	// timers and other turns are never blocked on the network.
	reply, err := s.generate(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		log.Printf("[session] dropping stale model reply (epoch %d != %d)", epoch, s.epoch)
		return nil, nil
	}

	if err != nil {
		if s.gen != nil {
			log.Printf("[session] model fallback failed: %v", err)
		}
		resp := s.res.FallbackReply(turn)
		msg := s.commitLocked(resp)
		return &msg, nil
	}

	emotion := analysis.Infer(reply, s.sess.HungerLevel)
	msg := s.commitLocked(&resolver.Response{
		Message: reply,
		Emotion: emotion,
		MsgType: chatmodel.TypeChat,
		Source:  "ai_fallback",
	})
	return &msg, nil
}

func (s *Service) generate(ctx context.Context, input string) (string, error) {
	if s.gen == nil {
		return "", fmt.Errorf("no model configured")
	}

	// The session is copied so the generator never reads shared state
	// outside the lock.
	s.mu.Lock()
	sessCopy := *s.sess
	s.mu.Unlock()

	return s.gen.Generate(ctx, &sessCopy, input)
}

// commitLocked applies a winning response: state patch, message log,
// autosave. Callers hold the lock.
func (s *Service) commitLocked(resp *resolver.Response) chatmodel.Message {
	resp.Changes.Apply(s.sess)
	msg := s.sess.Append(resp.Message, chatmodel.SenderDaisy, resp.MsgType, resp.Emotion)
	s.scheduleAutosaveLocked()
	return msg
}

// Feed tops up the hunger meter.
func (s *Service) Feed() chatmodel.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.sess.AdjustHunger(1)
	text := fmt.Sprintf("*munches happily* Mmm, thank you! *licks lips* That hit the spot! Hunger is at %d/%d now!",
		s.sess.HungerLevel, chatmodel.MaxHunger)
	msg := s.sess.Append(text, chatmodel.SenderDaisy, chatmodel.TypeChat, chatmodel.EmotionHappy)
	s.scheduleAutosaveLocked()
	return msg
}

// Reset wipes the conversation and its checkpoint and greets again.
func (s *Service) Reset() chatmodel.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.sess = chatmodel.NewSession()
	s.games.Deserialize(nil)
	s.checkp.Clear()

	s.sess.HasGreeted = true
	return s.sess.Append(greeting, chatmodel.SenderDaisy, chatmodel.TypeChat, chatmodel.EmotionExcited)
}

// ReloadFromCheckpoint replaces the live session with whatever the
// store currently holds. Used after a backup restore.
func (s *Service) ReloadFromCheckpoint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.checkp.Load()
	if snap == nil {
		return false
	}
	s.epoch++
	s.sess = chatmodel.NewSession()
	snap.Restore(s.sess)
	if err := s.games.Deserialize(snap.Game); err != nil {
		log.Printf("[session] ignoring unreadable game snapshot: %v", err)
	}
	return true
}

// State returns a copy of the session plus the current quick actions.
func (s *Service) State() (chatmodel.Session, []game.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessCopy := *s.sess
	sessCopy.Messages = append([]chatmodel.Message(nil), s.sess.Messages...)
	return sessCopy, s.games.Actions()
}

// Checkpoints exposes the backup operations.
func (s *Service) Checkpoints() *checkpoint.Manager { return s.checkp }

// SaveNow flushes state to the store immediately, skipping the
// debounce.
func (s *Service) SaveNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Service) saveLocked() bool {
	blob, err := s.games.Serialize()
	if err != nil {
		log.Printf("[session] serialize games failed: %v", err)
		blob = nil
	}
	return s.checkp.Save(s.sess, json.RawMessage(blob))
}

// scheduleAutosaveLocked arms the debounce timer; repeated mutations
// within the window collapse into one write.
func (s *Service) scheduleAutosaveLocked() {
	if s.autosave != nil || s.closed {
		return
	}
	s.autosave = time.AfterFunc(s.cfg.AutosaveDebounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.autosave = nil
		s.saveLocked()
	})
}

func (s *Service) hungerLoop() {
	defer s.done.Done()

	ticker := time.NewTicker(s.cfg.HungerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tickHunger()
		}
	}
}

func (s *Service) tickHunger() {
	s.mu.Lock()
	s.sess.AdjustHunger(-1)
	level := s.sess.HungerLevel

	var msg *chatmodel.Message
	if level == chatmodel.HungerWarnLevel {
		m := s.sess.Append("*stomach rumbles* Woof... I'm getting a little hungry! 🦴",
			chatmodel.SenderDaisy, chatmodel.TypeSystem, chatmodel.EmotionHungry)
		msg = &m
	}
	s.scheduleAutosaveLocked()
	s.mu.Unlock()

	if msg != nil {
		select {
		case s.events <- *msg:
		default:
			// A full buffer just means nobody is listening.
		}
	}
}

// Close stops the timers and flushes a final save.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.autosave != nil {
		s.autosave.Stop()
		s.autosave = nil
	}
	s.saveLocked()
	s.mu.Unlock()

	close(s.stop)
	s.done.Wait()
	close(s.events)
}
