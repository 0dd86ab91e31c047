// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package history

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryRepository struct {
	seen map[string]bool // userID+chapterID
}

func newFakeHistoryRepository() *fakeHistoryRepository {
	return &fakeHistoryRepository{seen: make(map[string]bool)}
}

func (f *fakeHistoryRepository) Record(_ context.Context, userID, chapterID string) (bool, error) {
	key := userID + "/" + chapterID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeHistoryRepository) ListRecent(_ context.Context, _ string, _ int) ([]*Entry, error) {
	return nil, nil
}

type fakeCounterStore struct {
	chaptersRead int
	readingTime  int64
}

func (f *fakeCounterStore) IncrementChaptersRead(_ context.Context, _ string, delta int) error {
	f.chaptersRead += delta
	return nil
}

func (f *fakeCounterStore) AddReadingTime(_ context.Context, _ string, seconds int64) error {
	f.readingTime += seconds
	return nil
}

/*
TestRecordRead_FirstReadIncrementsCounter verifies the chapters-read counter
moves exactly once per distinct chapter, no matter how often it is re-read.
*/
func TestRecordRead_FirstReadIncrementsCounter(t *testing.T) {
	repo := newFakeHistoryRepository()
	counters := &fakeCounterStore{}
	service := NewService(repo, counters, slog.New(slog.NewTextHandler(io.Discard, nil)))

	created, err := service.RecordRead(context.Background(), "user-1", "chapter-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, counters.chaptersRead)

	// Re-reading the same chapter is a counter no-op.
	created, err = service.RecordRead(context.Background(), "user-1", "chapter-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, counters.chaptersRead)

	created, err = service.RecordRead(context.Background(), "user-1", "chapter-2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, counters.chaptersRead)
}

/*
TestAddReadingTime_Bounds verifies session length validation and the atomic
accumulation path.
*/
func TestAddReadingTime_Bounds(t *testing.T) {
	counters := &fakeCounterStore{}
	service := NewService(newFakeHistoryRepository(), counters, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, service.AddReadingTime(context.Background(), "user-1", 300))
	require.NoError(t, service.AddReadingTime(context.Background(), "user-1", 45))
	assert.Equal(t, int64(345), counters.readingTime)

	assert.Error(t, service.AddReadingTime(context.Background(), "user-1", 0))
	assert.Error(t, service.AddReadingTime(context.Background(), "user-1", -10))
	assert.Error(t, service.AddReadingTime(context.Background(), "user-1", MaxReadingSessionSeconds+1))
	assert.Equal(t, int64(345), counters.readingTime)
}
