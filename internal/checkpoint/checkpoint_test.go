package checkpoint

import (
	"encoding/json"
	"testing"

	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
	"github.com/brianference/daisydog-sub000/internal/storage"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())

	sess := chatmodel.NewSession()
	sess.UserName = "Timothy"
	sess.HungerLevel = 2
	sess.HasGreeted = true
	sess.StoryIndex = 1
	sess.Append("hi Daisy", chatmodel.SenderUser, chatmodel.TypeChat, "")
	sess.Append("Woof! Hi!", chatmodel.SenderDaisy, chatmodel.TypeChat, chatmodel.EmotionExcited)

	game := json.RawMessage(`{"activeGame":"guessing_game","state":{"guessTarget":7}}`)
	if !m.Save(sess, game) {
		t.Fatal("expected save to succeed")
	}

	snap := m.Load()
	if snap == nil {
		t.Fatal("expected snapshot after save")
	}
	if snap.UserName != "Timothy" || snap.HungerLevel != 2 || !snap.HasGreeted {
		t.Fatalf("snapshot lost session fields: %+v", snap)
	}
	if len(snap.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(snap.Messages))
	}
	if string(snap.Game) != string(game) {
		t.Fatalf("game blob changed: %s", snap.Game)
	}
	if snap.SavedAt == "" {
		t.Fatal("expected savedAt timestamp")
	}

	restored := chatmodel.NewSession()
	snap.Restore(restored)
	if restored.UserName != "Timothy" || restored.StoryIndex != 1 {
		t.Fatalf("restore lost fields: %+v", restored)
	}
	if restored.CurrentEmotion != chatmodel.EmotionExcited {
		t.Fatalf("expected restored emotion excited, got %q", restored.CurrentEmotion)
	}
}

func TestRestoreClampsHunger(t *testing.T) {
	cases := []struct {
		stored int
		want   int
	}{
		{99, chatmodel.MaxHunger},
		{-3, chatmodel.MinHunger},
		{2, 2},
	}
	for _, tc := range cases {
		snap := &Snapshot{Version: snapshotVersion, HungerLevel: tc.stored}
		sess := chatmodel.NewSession()
		snap.Restore(sess)
		if sess.HungerLevel != tc.want {
			t.Fatalf("restore of hunger %d gave %d, want %d", tc.stored, sess.HungerLevel, tc.want)
		}
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())
	if snap := m.Load(); snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
}

func TestCorruptSnapshotCleared(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store)
	store.Set("daisy_state", []byte("{not json"))
	if snap := m.Load(); snap != nil {
		t.Fatal("expected corrupt snapshot to be rejected")
	}
	if _, err := store.Get("daisy_state"); err != storage.ErrNotFound {
		t.Fatal("expected corrupt snapshot to be removed")
	}
}

func TestClear(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())
	m.Save(chatmodel.NewSession(), nil)
	if !m.Clear() {
		t.Fatal("expected clear to succeed")
	}
	if m.Load() != nil {
		t.Fatal("expected no snapshot after clear")
	}
}

func TestBackups(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())

	sess := chatmodel.NewSession()
	sess.UserName = "Mary"
	m.Save(sess, nil)
	if !m.CreateBackup("before_reset") {
		t.Fatal("expected backup to succeed")
	}

	m.Clear()
	if m.Load() != nil {
		t.Fatal("expected main snapshot gone")
	}

	names := m.ListBackups()
	if len(names) != 1 || names[0] != "before_reset" {
		t.Fatalf("unexpected backup list: %v", names)
	}

	if !m.RestoreFromBackup("before_reset") {
		t.Fatal("expected restore to succeed")
	}
	snap := m.Load()
	if snap == nil || snap.UserName != "Mary" {
		t.Fatalf("restored snapshot wrong: %+v", snap)
	}

	if m.RestoreFromBackup("no_such_slot") {
		t.Fatal("expected restore of unknown slot to fail")
	}
}

func TestNilStoreNoOps(t *testing.T) {
	m := NewManager(nil)
	if m.Available() {
		t.Fatal("expected unavailable manager")
	}
	if m.Save(chatmodel.NewSession(), nil) {
		t.Fatal("expected save to report failure")
	}
	if m.Load() != nil {
		t.Fatal("expected nil load")
	}
	if m.Clear() || m.CreateBackup("x") || m.RestoreFromBackup("x") {
		t.Fatal("expected all mutations to report failure")
	}
	if m.ListBackups() != nil {
		t.Fatal("expected nil backup list")
	}
}
