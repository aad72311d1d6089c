// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anngon/pkg/kv"
)

/*
TestMemory_RoundTrip verifies the basic set/get/remove semantics.
*/
func TestMemory_RoundTrip(t *testing.T) {
	store := kv.NewMemory()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Set("session:tokens", []byte(`{"access":"a"}`))

	value, ok := store.Get("session:tokens")
	require.True(t, ok)
	assert.Equal(t, `{"access":"a"}`, string(value))

	store.Set("session:tokens", []byte(`{"access":"b"}`))
	value, _ = store.Get("session:tokens")
	assert.Equal(t, `{"access":"b"}`, string(value))

	store.Remove("session:tokens")
	_, ok = store.Get("session:tokens")
	assert.False(t, ok)

	// Removing a missing key is a no-op
	store.Remove("session:tokens")
}

/*
TestMemory_CopiesValues ensures callers cannot mutate stored state through
returned or provided slices.
*/
func TestMemory_CopiesValues(t *testing.T) {
	store := kv.NewMemory()

	input := []byte("original")
	store.Set("key", input)
	input[0] = 'X'

	value, ok := store.Get("key")
	require.True(t, ok)
	assert.Equal(t, "original", string(value))

	value[0] = 'Y'
	again, _ := store.Get("key")
	assert.Equal(t, "original", string(again))
}

/*
TestFile_SurvivesReopen verifies that values persist across store instances,
which is the property session and cart state depend on.
*/
func TestFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	logger := slog.Default()

	first := kv.NewFile(path, logger)
	first.Set("cart:user-1", []byte(`{"total_items":3}`))
	first.Set("session:tokens", []byte(`{"access":"a"}`))
	first.Remove("session:tokens")

	reopened := kv.NewFile(path, logger)

	value, ok := reopened.Get("cart:user-1")
	require.True(t, ok)
	assert.JSONEq(t, `{"total_items":3}`, string(value))

	_, ok = reopened.Get("session:tokens")
	assert.False(t, ok)
}

/*
TestFile_CorruptFileResets ensures a damaged document is treated as empty
instead of failing startup.
*/
func TestFile_CorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	first := kv.NewFile(path, slog.Default())
	first.Set("key", []byte(`"value"`))

	// Damage the document on disk
	require.NoError(t, writeRaw(path, "{not json"))

	reopened := kv.NewFile(path, slog.Default())
	_, ok := reopened.Get("key")
	assert.False(t, ok)

	// The reset store remains writable
	reopened.Set("key", []byte(`"fresh"`))
	value, ok := reopened.Get("key")
	require.True(t, ok)
	assert.Equal(t, `"fresh"`, string(value))
}

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
