// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendsUnderTest(t *testing.T) map[string]Backend {
	t.Helper()

	file, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	sqlite, err := NewSQLiteBackend(filepath.Join(t.TempDir(), SQLiteFileName))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Backend{
		"file":   file,
		"sqlite": sqlite,
		"memory": NewMemoryBackend(),
	}
}

func TestBackends_GetSetRemove(t *testing.T) {
	for name, backend := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := backend.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, backend.Set("k", []byte("v1")))
			require.NoError(t, backend.Set("k", []byte("v2")))
			got, ok, err := backend.Get("k")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "v2", string(got))

			require.NoError(t, backend.Remove("k"))
			require.NoError(t, backend.Remove("k"))
			_, ok, err = backend.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBackends_RejectInvalidKeys(t *testing.T) {
	for name, backend := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../escape", `a\b`} {
				assert.ErrorIs(t, backend.Set(key, []byte("x")), ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestBackends_StoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{BackendFile, BackendSQLite} {
		t.Run(kind, func(t *testing.T) {
			backend, err := OpenBackend(kind, dir)
			require.NoError(t, err)
			store := NewConversationStore(backend)
			conv := store.CreateConversation()
			require.NoError(t, backend.Close())

			reopened, err := OpenBackend(kind, dir)
			require.NoError(t, err)
			defer reopened.Close()
			assert.Equal(t, conv.ID, NewConversationStore(reopened).Active().ID)
		})
	}
}

func TestFileBackend_Layout(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, backend.Set(ConversationsKey, []byte("[]")))

	info, err := os.Stat(filepath.Join(dir, ConversationsKey+".json"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := OpenBackend("redis", t.TempDir())
	assert.Error(t, err)
}
