// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package storage provides blob persistence for ingested chapter page images.

Architecture:

  - PageStore: The domain-facing contract. Services depend on it, never on
    the filesystem directly, so tests can substitute an in-memory fake.
  - LocalStore: Filesystem-backed implementation writing under a configured
    upload root and mapping files to stable public URLs.

Page bytes are addressable after a write via the URL returned from Save;
the HTTP layer serves the upload root as static content under the same prefix.
*/
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PageStore is the persistence contract for raw page image bytes.
type PageStore interface {
	/*
		Save writes data under relPath (slash-separated, relative) and returns
		the public URL the bytes are reachable at.

		Parameters:
		  - context: context.Context
		  - relPath: string (e.g. "solo-leveling/12/012__001.png")
		  - data: []byte (Raw image bytes)

		Returns:
		  - string: Public URL of the stored object
		  - error: Write or path failures
	*/
	Save(context context.Context, relPath string, data []byte) (string, error)

	/*
		RemoveAll deletes every object stored under relDir.

		Used when a chapter's page set is replaced wholesale on re-ingestion.
		Removing a directory that does not exist is not an error.
	*/
	RemoveAll(context context.Context, relDir string) error
}

// LocalStore implements [PageStore] on the local filesystem.
type LocalStore struct {
	rootDir string
	baseURL string
}

// NewLocalStore constructs a [LocalStore] rooted at rootDir.
//
// # Parameters
//   - rootDir: Filesystem directory page files are written beneath.
//   - baseURL: Public URL prefix (e.g. "/uploads") for constructed URLs.
func NewLocalStore(rootDir, baseURL string) *LocalStore {
	return &LocalStore{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save writes data to rootDir/relPath, creating parent directories as needed.
func (store *LocalStore) Save(context context.Context, relPath string, data []byte) (string, error) {
	cleanPath, err := store.resolve(relPath)
	if err != nil {
		return "", err
	}

	// Parent directories are created lazily on first page of a chapter.
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create directory: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: failed to write %s: %w", relPath, err)
	}

	return store.baseURL + "/" + path.Clean(relPath), nil
}

// RemoveAll deletes the directory rootDir/relDir and everything beneath it.
func (store *LocalStore) RemoveAll(context context.Context, relDir string) error {
	cleanPath, err := store.resolve(relDir)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(cleanPath); err != nil {
		return fmt.Errorf("storage: failed to remove %s: %w", relDir, err)
	}

	return nil
}

// resolve maps a slash-separated relative path onto the store root.
//
// It rejects absolute paths and any path containing "..", since archive
// entry names are attacker-controlled input.
func (store *LocalStore) resolve(relPath string) (string, error) {
	if relPath == "" || strings.HasPrefix(relPath, "/") {
		return "", fmt.Errorf("storage: invalid path %q", relPath)
	}
	for _, segment := range strings.Split(relPath, "/") {
		if segment == ".." {
			return "", fmt.Errorf("storage: path escapes upload root: %s", relPath)
		}
	}

	clean := path.Clean("/" + relPath)
	if clean == "/" {
		return "", fmt.Errorf("storage: empty path")
	}

	resolved := filepath.Join(store.rootDir, filepath.FromSlash(clean))
	rootAbs, err := filepath.Abs(store.rootDir)
	if err != nil {
		return "", fmt.Errorf("storage: failed to resolve root: %w", err)
	}
	targetAbs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("storage: failed to resolve path: %w", err)
	}

	if targetAbs != rootAbs && !strings.HasPrefix(targetAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes upload root: %s", relPath)
	}

	return targetAbs, nil
}
