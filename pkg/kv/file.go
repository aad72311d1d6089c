// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// File is a [Store] persisted as a single JSON document on disk. It is the
// local-storage analogue for the client SDK: small, synchronous, and durable
// across process restarts.
//
// Every mutation rewrites the whole document through a temp-file rename, so a
// crash mid-write never leaves a torn file. Concurrent processes sharing one
// path overwrite each other wholesale (last writer wins).
type File struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	values map[string]json.RawMessage
}

// NewFile opens (or creates) the store at path. An unreadable or corrupt
// existing file is treated as empty rather than failing the caller — the
// storage must never block application startup.
func NewFile(path string, logger *slog.Logger) *File {
	store := &File{
		path:   path,
		logger: logger,
		values: make(map[string]json.RawMessage),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger.Warn("kv_file_mkdir_failed", "path", path, "error", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("kv_file_read_failed", "path", path, "error", err)
		}
		return store
	}

	if err := json.Unmarshal(raw, &store.values); err != nil {
		logger.Warn("kv_file_corrupt_reset", "path", path, "error", err)
		store.values = make(map[string]json.RawMessage)
	}

	return store
}

func (store *File) Get(key string) ([]byte, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	value, ok := store.values[key]
	if !ok {
		return nil, false
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true
}

func (store *File) Set(key string, value []byte) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	store.values[key] = stored
	store.flush()
}

func (store *File) Remove(key string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.values[key]; !ok {
		return
	}
	delete(store.values, key)
	store.flush()
}

// flush rewrites the document atomically. Callers hold the mutex.
func (store *File) flush() {
	raw, err := json.MarshalIndent(store.values, "", "  ")
	if err != nil {
		store.logger.Error("kv_file_marshal_failed", "path", store.path, "error", err)
		return
	}

	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		store.logger.Error("kv_file_write_failed", "path", store.path, "error", err)
		return
	}

	if err := os.Rename(tmp, store.path); err != nil {
		store.logger.Error("kv_file_rename_failed", "path", store.path, "error", err)
	}
}

// DefaultPath returns a per-user location for the SDK's storage file.
func DefaultPath(appName string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appName, "storage.json")
}
