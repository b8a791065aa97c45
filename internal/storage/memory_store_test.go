package storage

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	raw, err := NewStore("memory", "", Options{ItemTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	store := raw.(*memoryStore)

	clock := time.Now()
	store.now = func() time.Time { return clock }

	if err := store.SetItem("token", "abc123"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if got, ok, err := store.GetItem("token"); err != nil || !ok || got != "abc123" {
		t.Fatalf("GetItem = %q ok=%v err=%v", got, ok, err)
	}

	clock = clock.Add(time.Minute)
	if _, ok, _ := store.GetItem("token"); ok {
		t.Fatalf("expected item to expire at its ttl")
	}
}

func TestMemoryStoreRemoveAndClose(t *testing.T) {
	store, err := NewStore("memory", "", Options{})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	_ = store.SetItem("token", "x")
	if err := store.RemoveItem("token"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok, _ := store.GetItem("token"); ok {
		t.Fatalf("expected token removed")
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.SetItem("token", "y"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}
