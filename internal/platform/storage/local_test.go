// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatami-reader/tatami/internal/platform/storage"
)

/*
TestLocalStore_SaveAndURL verifies bytes land on disk and URLs use the base prefix.
*/
func TestLocalStore_SaveAndURL(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStore(root, "/uploads")

	url, err := store.Save(context.Background(), "solo-leveling/12/012__001.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/solo-leveling/12/012__001.png", url)

	written, err := os.ReadFile(filepath.Join(root, "solo-leveling", "12", "012__001.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), written)
}

/*
TestLocalStore_RejectsEscapingPaths ensures archive-controlled names cannot
write outside the upload root.
*/
func TestLocalStore_RejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStore(root, "/uploads")

	tests := []struct {
		name string
		path string
	}{
		{"parent_traversal", "../outside.png"},
		{"nested_traversal", "manga/../../outside.png"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), tt.path, []byte("x"))
			assert.Error(t, err)
		})
	}
}

/*
TestLocalStore_RemoveAll verifies wholesale chapter directory removal.
*/
func TestLocalStore_RemoveAll(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStore(root, "/uploads")
	ctx := context.Background()

	_, err := store.Save(ctx, "berserk/1/001__001.jpg", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "berserk/1/001__002.jpg", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveAll(ctx, "berserk/1"))

	_, statErr := os.Stat(filepath.Join(root, "berserk", "1"))
	assert.True(t, os.IsNotExist(statErr))

	// Removing an absent directory is a no-op.
	assert.NoError(t, store.RemoveAll(ctx, "berserk/1"))
}
