// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package manga

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory [Repository] for service-level tests.
type fakeRepository struct {
	byID          map[string]*Manga
	featuredCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*Manga)}
}

func (f *fakeRepository) List(_ context.Context, _ Filter, _, _ int) ([]*Manga, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) Featured(_ context.Context, limit int) ([]*Manga, error) {
	f.featuredCalls++
	entries := make([]*Manga, 0, limit)
	for _, m := range f.byID {
		entries = append(entries, m)
	}
	return entries, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Manga, error) {
	return f.byID[id], nil
}

func (f *fakeRepository) FindBySlug(_ context.Context, slug string) (*Manga, error) {
	for _, m := range f.byID {
		if m.Slug == slug {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) Create(_ context.Context, m *Manga) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeRepository) Update(_ context.Context, m *Manga) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepository) IncrementViews(_ context.Context, id string) error {
	f.byID[id].Views++
	return nil
}

// fakeFeaturedCache remembers the last shelf it was handed.
type fakeFeaturedCache struct {
	entries []*Manga
	sets    int
}

func (f *fakeFeaturedCache) Get(_ context.Context) ([]*Manga, error) {
	return f.entries, nil
}

func (f *fakeFeaturedCache) Set(_ context.Context, entries []*Manga) error {
	f.entries = entries
	f.sets++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestNormalizeOrdering verifies the public ordering whitelist: valid keys pass
through with their direction, anything else falls back to newest-updated-first.
*/
func TestNormalizeOrdering(t *testing.T) {
	tests := []struct {
		name       string
		requested  string
		column     string
		descending bool
	}{
		{name: "default", requested: "", column: "updated_at", descending: true},
		{name: "title ascending", requested: "title", column: "title", descending: false},
		{name: "title descending", requested: "-title", column: "title", descending: true},
		{name: "views descending", requested: "-views", column: "views", descending: true},
		{name: "created ascending", requested: "created_at", column: "created_at", descending: false},
		{name: "unknown key falls back", requested: "points", column: "updated_at", descending: true},
		{name: "injection attempt falls back", requested: "title; DROP TABLE", column: "updated_at", descending: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			column, descending := NormalizeOrdering(tc.requested)
			assert.Equal(t, tc.column, column)
			assert.Equal(t, tc.descending, descending)
		})
	}
}

/*
TestCreateManga_SlugGeneration verifies slug derivation, including the
identifier-prefix fallback for titles that normalize to nothing.
*/
func TestCreateManga_SlugGeneration(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, testLogger())

	latin := &Manga{Title: "Solo Leveling"}
	require.NoError(t, service.CreateManga(context.Background(), latin))
	assert.Equal(t, "solo-leveling", latin.Slug)

	cjk := &Manga{Title: "葬送のフリーレン"}
	require.NoError(t, service.CreateManga(context.Background(), cjk))
	require.NotEmpty(t, cjk.ID)
	assert.Equal(t, cjk.ID[:8], cjk.Slug)
}

/*
TestCreateManga_Validation verifies input constraints surface as errors before
any persistence happens.
*/
func TestCreateManga_Validation(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, testLogger())

	err := service.CreateManga(context.Background(), &Manga{Title: ""})
	require.Error(t, err)
	assert.Empty(t, repo.byID)

	err = service.CreateManga(context.Background(), &Manga{Title: "Berserk", Status: "paused"})
	require.Error(t, err)
	assert.Empty(t, repo.byID)
}

/*
TestFeaturedManga_Cache verifies the shelf is served from the cache when warm
and written back on a miss.
*/
func TestFeaturedManga_Cache(t *testing.T) {
	repo := newFakeRepository()
	require.NoError(t, repo.Create(context.Background(), &Manga{ID: "m-1", Title: "Vagabond"}))

	cache := &fakeFeaturedCache{}
	service := NewService(repo, cache, testLogger())

	// Cold: repository hit plus cache write-back.
	entries, err := service.FeaturedManga(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, repo.featuredCalls)
	assert.Equal(t, 1, cache.sets)

	// Warm: served from cache, repository untouched.
	entries, err = service.FeaturedManga(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, repo.featuredCalls)
}
