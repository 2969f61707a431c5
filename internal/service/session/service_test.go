package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/brianference/daisydog-sub000/internal/checkpoint"
	"github.com/brianference/daisydog-sub000/internal/config"
	"github.com/brianference/daisydog-sub000/internal/game"
	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
	"github.com/brianference/daisydog-sub000/internal/namedetect"
	"github.com/brianference/daisydog-sub000/internal/resolver"
	"github.com/brianference/daisydog-sub000/internal/safety"
	"github.com/brianference/daisydog-sub000/internal/storage"
	"github.com/brianference/daisydog-sub000/internal/topic"
)

type stubGenerator struct {
	reply   string
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
}

func (g *stubGenerator) Generate(ctx context.Context, sess *chatmodel.Session, input string) (string, error) {
	g.calls++
	if g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		<-g.release
	}
	return g.reply, g.err
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		HungerInterval:   time.Hour,
		AutosaveDebounce: time.Millisecond,
		SafeTiers:        []string{"doctrine", "curriculum"},
	}
}

func newTestService(t *testing.T, gen Generator, store storage.KV) *Service {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	gate, err := safety.New(rng)
	if err != nil {
		t.Fatalf("safety gate: %v", err)
	}
	topics, err := topic.NewMatcher(rng)
	if err != nil {
		t.Fatalf("topic matcher: %v", err)
	}
	res := resolver.New(gate, topics, namedetect.New(rng), []string{"doctrine", "curriculum"}, rng)
	games := game.NewCoordinator(rng)
	return New(res, games, gen, checkpoint.NewManager(store), testConfig())
}

func TestGreetOnce(t *testing.T) {
	s := newTestService(t, nil, nil)
	defer s.Close()

	first := s.Greet()
	if first == nil || !strings.Contains(first.Text, "Daisy") {
		t.Fatalf("expected greeting, got %+v", first)
	}
	if s.Greet() != nil {
		t.Fatal("expected second greet to be suppressed")
	}
}

func TestFeedClampsAtMax(t *testing.T) {
	s := newTestService(t, nil, nil)
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Feed()
	}
	sess, _ := s.State()
	if sess.HungerLevel != chatmodel.MaxHunger {
		t.Fatalf("expected hunger clamped at %d, got %d", chatmodel.MaxHunger, sess.HungerLevel)
	}
}

func TestHungerDecayClampsAtFloor(t *testing.T) {
	s := newTestService(t, nil, nil)
	defer s.Close()

	for i := 0; i < chatmodel.MaxHunger+3; i++ {
		s.tickHunger()
		sess, _ := s.State()
		if sess.HungerLevel < chatmodel.MinHunger {
			t.Fatalf("hunger fell below floor: %d", sess.HungerLevel)
		}
	}

	sess, _ := s.State()
	if sess.HungerLevel != chatmodel.MinHunger {
		t.Fatalf("expected hunger at floor %d, got %d", chatmodel.MinHunger, sess.HungerLevel)
	}
}

func TestHungerWarningFiresOnce(t *testing.T) {
	s := newTestService(t, nil, nil)
	defer s.Close()

	for i := 0; i < chatmodel.MaxHunger+3; i++ {
		s.tickHunger()
	}

	sess, _ := s.State()
	warnings := 0
	for _, msg := range sess.Messages {
		if msg.Type == chatmodel.TypeSystem && strings.Contains(msg.Text, "hungry") {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected exactly one hunger warning, got %d", warnings)
	}

	select {
	case evt := <-s.Events():
		if evt.Emotion != chatmodel.EmotionHungry {
			t.Fatalf("expected hungry event, got %+v", evt)
		}
	default:
		t.Fatal("expected warning delivered on the event channel")
	}
}

func TestDeterministicTurnSkipsModel(t *testing.T) {
	gen := &stubGenerator{reply: "should not be used"}
	s := newTestService(t, gen, nil)
	defer s.Close()

	reply, err := s.ProcessTurn(context.Background(), "tell me a joke")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if reply == nil || reply.Sender != chatmodel.SenderDaisy {
		t.Fatalf("expected a reply, got %+v", reply)
	}
	if gen.calls != 0 {
		t.Fatal("expected model untouched for a topic turn")
	}
}

func TestModelReplyCommitted(t *testing.T) {
	gen := &stubGenerator{reply: "Woof! Zephyrs are windy, I'd chase one!"}
	s := newTestService(t, gen, nil)
	defer s.Close()

	// Register a name first so free text isn't mistaken for one.
	if _, err := s.ProcessTurn(context.Background(), "Timothy"); err != nil {
		t.Fatalf("name turn: %v", err)
	}

	reply, err := s.ProcessTurn(context.Background(), "zephyr quixotic umbrella")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if reply == nil || reply.Text != gen.reply {
		t.Fatalf("expected model reply, got %+v", reply)
	}
	if !chatmodel.ValidEmotion(reply.Emotion) {
		t.Fatalf("expected inferred emotion, got %q", reply.Emotion)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one model call, got %d", gen.calls)
	}
}

func TestModelErrorFallsBackToCanned(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("upstream down")}
	s := newTestService(t, gen, nil)
	defer s.Close()

	s.ProcessTurn(context.Background(), "Timothy")
	reply, err := s.ProcessTurn(context.Background(), "zephyr quixotic umbrella")
	if err != nil {
		t.Fatalf("expected graceful fallback, got error: %v", err)
	}
	if reply == nil || reply.Text == "" {
		t.Fatal("expected canned fallback reply")
	}
}

func TestStaleModelReplyDiscarded(t *testing.T) {
	gen := &stubGenerator{
		reply:   "this reply arrives too late",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestService(t, gen, nil)
	defer s.Close()

	s.ProcessTurn(context.Background(), "Timothy")

	type result struct {
		reply *chatmodel.Message
		err   error
	}
	got := make(chan result, 1)
	go func() {
		reply, err := s.ProcessTurn(context.Background(), "zephyr quixotic umbrella")
		got <- result{reply, err}
	}()

	<-gen.started
	s.Reset()
	close(gen.release)

	r := <-got
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	if r.reply != nil {
		t.Fatalf("expected stale reply dropped, got %+v", r.reply)
	}

	sess, _ := s.State()
	for _, msg := range sess.Messages {
		if msg.Text == gen.reply {
			t.Fatal("stale reply leaked into the transcript")
		}
	}
}

func TestSaveAndRestore(t *testing.T) {
	store := storage.NewMemoryStore()

	s := newTestService(t, nil, store)
	s.ProcessTurn(context.Background(), "Timothy")
	if !s.SaveNow() {
		t.Fatal("expected save to succeed")
	}
	s.Close()

	restored := newTestService(t, nil, store)
	defer restored.Close()
	sess, _ := restored.State()
	if sess.UserName != "Timothy" {
		t.Fatalf("expected restored name, got %q", sess.UserName)
	}
	if len(sess.Messages) == 0 {
		t.Fatal("expected restored transcript")
	}
}

func TestResetClearsCheckpoint(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestService(t, nil, store)
	defer s.Close()

	s.ProcessTurn(context.Background(), "Timothy")
	s.SaveNow()
	s.Reset()

	if s.Checkpoints().Load() != nil {
		t.Fatal("expected checkpoint cleared on reset")
	}
	sess, _ := s.State()
	if sess.UserName != "" {
		t.Fatal("expected fresh session after reset")
	}
}
