// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv provides the durable key-value storage used by the client SDK.

It plays the role browser local storage plays for a web storefront: a small,
synchronous, origin-scoped string store that survives restarts. Session
credentials and per-user carts are both persisted through this interface.

# Semantics

Operations are total: reading a missing key reports absence instead of
erroring, and removing a missing key is a no-op. When several processes share
one [File] store, the last writer wins — the storage carries no merge logic,
matching how two browser tabs share local storage.
*/
package kv

// Store is a synchronous string-keyed byte store.
type Store interface {

	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool)

	// Set stores the value under the key, replacing any previous value.
	Set(key string, value []byte)

	// Remove deletes the key. Removing a missing key is a no-op.
	Remove(key string)
}
