package storage

import (
	"path/filepath"
	"testing"
)

func testKV(t *testing.T, kv KV) {
	t.Helper()

	if _, err := kv.Get("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Set("daisy_state", []byte("main")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("daisy_state_backup_one", []byte("b1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("daisy_state_backup_two", []byte("b2")); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := kv.Get("daisy_state")
	if err != nil || string(got) != "main" {
		t.Fatalf("get = %q, %v", got, err)
	}

	keys, err := kv.Keys("daisy_state_backup_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 backup keys, got %v", keys)
	}

	if err := kv.Remove("daisy_state"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := kv.Get("daisy_state"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing a missing key is not an error.
	if err := kv.Remove("daisy_state"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testKV(t, NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	testKV(t, store)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set("daisy_state", []byte("payload")); err != nil {
		t.Fatalf("set: %v", err)
	}
	store.Close()

	reopened, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("daisy_state")
	if err != nil || string(got) != "payload" {
		t.Fatalf("get after reopen = %q, %v", got, err)
	}
}
