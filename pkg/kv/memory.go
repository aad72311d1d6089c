// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import "sync"

// Memory is an in-process [Store]. It is the storage used in tests and for
// ephemeral sessions that should not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (store *Memory) Get(key string) ([]byte, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, ok := store.values[key]
	if !ok {
		return nil, false
	}

	// Copy so callers cannot mutate the stored slice
	out := make([]byte, len(value))
	copy(out, value)
	return out, true
}

func (store *Memory) Set(key string, value []byte) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	store.values[key] = stored
}

func (store *Memory) Remove(key string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.values, key)
}
