// Package checkpoint persists and restores conversation state so a
// child can pick up where they left off. Every operation degrades to a
// harmless no-op when no store is available; persistence failures are
// reported as booleans, never as fatal errors.
package checkpoint

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
	"github.com/brianference/daisydog-sub000/internal/storage"
)

const (
	stateKey     = "daisy_state"
	backupPrefix = stateKey + "_backup_"
	// Version guards against loading snapshots written by an
	// incompatible build.
	snapshotVersion = 1
)

// Snapshot is the serialized form of a session plus whatever game was
// in progress. Timestamps are RFC 3339 strings so the payload stays
// readable in the store.
type Snapshot struct {
	Version        int                 `json:"version"`
	Messages       []chatmodel.Message `json:"messages"`
	CurrentEmotion string              `json:"currentEmotion"`
	HungerLevel    int                 `json:"hungerLevel"`
	HasGreeted     bool                `json:"hasGreeted"`
	UserName       string              `json:"userName"`
	StoryIndex     int                 `json:"storyIndex"`
	Game           json.RawMessage     `json:"game,omitempty"`
	SavedAt        string              `json:"savedAt"`
}

// Manager wraps a KV store with the checkpoint contract. A nil store
// produces a manager whose operations all succeed vacuously.
type Manager struct {
	store storage.KV
}

// NewManager probes the store once with a write/read/delete cycle and
// falls back to no-op mode if the probe fails.
func NewManager(store storage.KV) *Manager {
	if store == nil {
		return &Manager{}
	}
	probe := stateKey + "_probe"
	if err := store.Set(probe, []byte("ok")); err != nil {
		log.Printf("[checkpoint] store unavailable, running without persistence: %v", err)
		return &Manager{}
	}
	if _, err := store.Get(probe); err != nil {
		log.Printf("[checkpoint] store probe read failed, running without persistence: %v", err)
		return &Manager{}
	}
	store.Remove(probe)
	return &Manager{store: store}
}

// Available reports whether persistence is active.
func (m *Manager) Available() bool { return m.store != nil }

// Save writes the session and game state atomically under the main
// state key. Returns false when persistence is unavailable or the
// write failed.
func (m *Manager) Save(sess *chatmodel.Session, game json.RawMessage) bool {
	if m.store == nil || sess == nil {
		return false
	}
	snap := Snapshot{
		Version:        snapshotVersion,
		Messages:       sess.Messages,
		CurrentEmotion: sess.CurrentEmotion,
		HungerLevel:    sess.HungerLevel,
		HasGreeted:     sess.HasGreeted,
		UserName:       sess.UserName,
		StoryIndex:     sess.StoryIndex,
		Game:           game,
		SavedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[checkpoint] marshal failed: %v", err)
		return false
	}
	if err := m.store.Set(stateKey, raw); err != nil {
		log.Printf("[checkpoint] save failed: %v", err)
		return false
	}
	return true
}

// Load returns the saved snapshot, or nil when there is none or it
// cannot be decoded. A corrupt payload is cleared so the next launch
// starts clean.
func (m *Manager) Load() *Snapshot {
	if m.store == nil {
		return nil
	}
	raw, err := m.store.Get(stateKey)
	if err != nil {
		if err != storage.ErrNotFound {
			log.Printf("[checkpoint] load failed: %v", err)
		}
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("[checkpoint] discarding corrupt snapshot: %v", err)
		m.store.Remove(stateKey)
		return nil
	}
	if snap.Version != snapshotVersion {
		log.Printf("[checkpoint] discarding snapshot with version %d", snap.Version)
		m.store.Remove(stateKey)
		return nil
	}
	return &snap
}

// Restore copies a snapshot back into a session. Hunger is clamped in
// case the stored value predates the current bounds.
func (snap *Snapshot) Restore(sess *chatmodel.Session) {
	sess.Messages = snap.Messages
	if sess.Messages == nil {
		sess.Messages = []chatmodel.Message{}
	}
	if chatmodel.ValidEmotion(snap.CurrentEmotion) {
		sess.CurrentEmotion = snap.CurrentEmotion
	}
	sess.HungerLevel = chatmodel.ClampHunger(snap.HungerLevel)
	sess.HasGreeted = snap.HasGreeted
	sess.UserName = snap.UserName
	sess.StoryIndex = snap.StoryIndex
	if ts, err := time.Parse(time.RFC3339, snap.SavedAt); err == nil {
		sess.LastSaved = ts
	}
}

// Clear removes the main snapshot. Backups survive.
func (m *Manager) Clear() bool {
	if m.store == nil {
		return false
	}
	if err := m.store.Remove(stateKey); err != nil {
		log.Printf("[checkpoint] clear failed: %v", err)
		return false
	}
	return true
}

// CreateBackup copies the current snapshot into a named slot,
// overwriting any previous backup with that name.
func (m *Manager) CreateBackup(name string) bool {
	if m.store == nil || name == "" {
		return false
	}
	raw, err := m.store.Get(stateKey)
	if err != nil {
		return false
	}
	if err := m.store.Set(backupPrefix+name, raw); err != nil {
		log.Printf("[checkpoint] backup %q failed: %v", name, err)
		return false
	}
	return true
}

// RestoreFromBackup promotes a named backup to the main snapshot.
func (m *Manager) RestoreFromBackup(name string) bool {
	if m.store == nil || name == "" {
		return false
	}
	raw, err := m.store.Get(backupPrefix + name)
	if err != nil {
		return false
	}
	if err := m.store.Set(stateKey, raw); err != nil {
		log.Printf("[checkpoint] restore %q failed: %v", name, err)
		return false
	}
	return true
}

// ListBackups returns the names of all backup slots.
func (m *Manager) ListBackups() []string {
	if m.store == nil {
		return nil
	}
	keys, err := m.store.Keys(backupPrefix)
	if err != nil {
		log.Printf("[checkpoint] list backups failed: %v", err)
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, backupPrefix))
	}
	return names
}
