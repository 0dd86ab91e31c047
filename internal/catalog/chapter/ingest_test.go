// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package chapter

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatami-reader/tatami/internal/catalog/manga"
	"github.com/tatami-reader/tatami/internal/platform/apperr"
)

// # Test Fixtures

// fakeResolver resolves manga identifiers from an in-memory map.
type fakeResolver struct {
	byID map[string]*manga.Manga
}

func (f *fakeResolver) FindByID(_ context.Context, id string) (*manga.Manga, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, apperr.NotFound("Manga")
}

// fakeChapterRepository records page replacements keyed on (manga, number).
type fakeChapterRepository struct {
	pages        map[string][]Page // chapterID -> current page set
	replaceCalls int
}

func newFakeChapterRepository() *fakeChapterRepository {
	return &fakeChapterRepository{pages: make(map[string][]Page)}
}

func (f *fakeChapterRepository) ListByManga(_ context.Context, _ string) ([]*Chapter, error) {
	return nil, nil
}

func (f *fakeChapterRepository) FindByID(_ context.Context, _ string) (*Chapter, error) {
	return nil, nil
}

func (f *fakeChapterRepository) Update(_ context.Context, _ *Chapter) error { return nil }
func (f *fakeChapterRepository) Delete(_ context.Context, _ string) error  { return nil }

func (f *fakeChapterRepository) ReplaceChapterPages(_ context.Context, mangaID string, number float64, _ string, pages []Page) (string, error) {
	f.replaceCalls++
	chapterID := "chapter-for-" + mangaID
	f.pages[chapterID] = pages
	return chapterID, nil
}

func (f *fakeChapterRepository) IncrementMangaViews(_ context.Context, _ string) error { return nil }

// fakePageStore captures blob writes without touching the filesystem.
type fakePageStore struct {
	saved map[string][]byte
}

func newFakePageStore() *fakePageStore {
	return &fakePageStore{saved: make(map[string][]byte)}
}

func (f *fakePageStore) Save(_ context.Context, relPath string, data []byte) (string, error) {
	f.saved[relPath] = data
	return "/uploads/" + relPath, nil
}

func (f *fakePageStore) RemoveAll(_ context.Context, _ string) error { return nil }

// buildArchive assembles an in-memory ZIP with the given entries.
func buildArchive(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	var buffer bytes.Buffer
	archiveWriter := zip.NewWriter(&buffer)
	for name, data := range entries {
		entry, err := archiveWriter.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, archiveWriter.Close())

	return buffer.Bytes()
}

func newTestIngester(repo *fakeChapterRepository, store *fakePageStore) *Ingester {
	resolver := &fakeResolver{byID: map[string]*manga.Manga{
		"0198a1b2-0000-7000-8000-3c2f1a9d4e11": {
			ID:    "0198a1b2-0000-7000-8000-3c2f1a9d4e11",
			Title: "Solo Leveling",
			Slug:  "solo-leveling",
		},
	}}

	return NewIngester(resolver, repo, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const knownMangaID = "0198a1b2-0000-7000-8000-3c2f1a9d4e11"

// # Tests

/*
TestIngest_LexicographicOrdering verifies that page numbers follow strict
lexicographic entry-name order and that non-image and junk entries are
skipped.
*/
func TestIngest_LexicographicOrdering(t *testing.T) {
	repo := newFakeChapterRepository()
	store := newFakePageStore()
	ingester := newTestIngester(repo, store)

	archive := buildArchive(t, map[string][]byte{
		"b.png":           []byte("page-b"),
		"a.png":           []byte("page-a"),
		"c.jpg":           []byte("page-c"),
		"notes.txt":       []byte("not an image"),
		"__MACOSX/x.png":  []byte("resource fork"),
		".hidden.png":     []byte("dotfile"),
		"artwork/":        nil,
	})

	result, err := ingester.Ingest(context.Background(), IngestInput{
		MangaID: knownMangaID,
		Number:  "1",
		Archive: archive,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.PageCount)

	pages := repo.pages[result.ChapterID]
	require.Len(t, pages, 3)

	assert.Equal(t, "a.png", pages[0].OriginalFilename)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, "/uploads/solo-leveling/1/001__001.png", pages[0].ImageURL)

	assert.Equal(t, "b.png", pages[1].OriginalFilename)
	assert.Equal(t, 2, pages[1].PageNumber)

	assert.Equal(t, "c.jpg", pages[2].OriginalFilename)
	assert.Equal(t, 3, pages[2].PageNumber)
	assert.Equal(t, "/uploads/solo-leveling/1/001__003.jpg", pages[2].ImageURL)

	// Bytes actually landed in the store under the constructed paths.
	assert.Equal(t, []byte("page-a"), store.saved["solo-leveling/1/001__001.png"])
}

/*
TestIngest_ReplacesPriorPages verifies full-replace semantics: a second
ingestion for the same (manga, number) leaves exactly the new archive's pages.
*/
func TestIngest_ReplacesPriorPages(t *testing.T) {
	repo := newFakeChapterRepository()
	ingester := newTestIngester(repo, newFakePageStore())

	first := buildArchive(t, map[string][]byte{
		"01.png": []byte("one"),
		"02.png": []byte("two"),
		"03.png": []byte("three"),
	})
	result, err := ingester.Ingest(context.Background(), IngestInput{MangaID: knownMangaID, Number: "2", Archive: first})
	require.NoError(t, err)
	require.Equal(t, 3, result.PageCount)

	second := buildArchive(t, map[string][]byte{
		"001.webp": []byte("new-one"),
		"002.webp": []byte("new-two"),
	})
	result, err = ingester.Ingest(context.Background(), IngestInput{MangaID: knownMangaID, Number: "2", Archive: second})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PageCount)

	pages := repo.pages[result.ChapterID]
	require.Len(t, pages, 2)
	assert.Equal(t, "001.webp", pages[0].OriginalFilename)
	assert.Equal(t, "002.webp", pages[1].OriginalFilename)
}

/*
TestIngest_FractionalNumber verifies folder and filename derivation for
fractional chapter numbers: the folder keeps only the integer part.
*/
func TestIngest_FractionalNumber(t *testing.T) {
	repo := newFakeChapterRepository()
	store := newFakePageStore()
	ingester := newTestIngester(repo, store)

	archive := buildArchive(t, map[string][]byte{"p1.jpg": []byte("extra")})

	result, err := ingester.Ingest(context.Background(), IngestInput{MangaID: knownMangaID, Number: "10.5", Archive: archive})
	require.NoError(t, err)

	pages := repo.pages[result.ChapterID]
	require.Len(t, pages, 1)
	assert.Equal(t, "/uploads/solo-leveling/10/010__001.jpg", pages[0].ImageURL)
}

/*
TestIngest_MalformedArchive verifies a blob that is not a readable archive is
rejected before any page or blob write.
*/
func TestIngest_MalformedArchive(t *testing.T) {
	repo := newFakeChapterRepository()
	store := newFakePageStore()
	ingester := newTestIngester(repo, store)

	_, err := ingester.Ingest(context.Background(), IngestInput{
		MangaID: knownMangaID,
		Number:  "1",
		Archive: []byte("definitely not a zip file"),
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "MALFORMED_ARCHIVE", appError.Code)

	assert.Zero(t, repo.replaceCalls)
	assert.Empty(t, store.saved)
}

/*
TestIngest_MissingManga verifies an unknown manga identifier yields a 404 and
no side effects.
*/
func TestIngest_MissingManga(t *testing.T) {
	repo := newFakeChapterRepository()
	store := newFakePageStore()
	ingester := newTestIngester(repo, store)

	archive := buildArchive(t, map[string][]byte{"01.png": []byte("one")})

	_, err := ingester.Ingest(context.Background(), IngestInput{
		MangaID: "0198a1b2-ffff-7000-8000-000000000000",
		Number:  "1",
		Archive: archive,
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)

	assert.Zero(t, repo.replaceCalls)
	assert.Empty(t, store.saved)
}

/*
TestIngest_MissingInput verifies each required field is enforced before any
work happens.
*/
func TestIngest_MissingInput(t *testing.T) {
	archive := buildArchive(t, map[string][]byte{"01.png": []byte("one")})

	tests := []struct {
		name  string
		input IngestInput
	}{
		{name: "missing manga", input: IngestInput{Number: "1", Archive: archive}},
		{name: "missing number", input: IngestInput{MangaID: knownMangaID, Archive: archive}},
		{name: "missing archive", input: IngestInput{MangaID: knownMangaID, Number: "1"}},
		{name: "unparseable number", input: IngestInput{MangaID: knownMangaID, Number: "one", Archive: archive}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeChapterRepository()
			store := newFakePageStore()
			ingester := newTestIngester(repo, store)

			_, err := ingester.Ingest(context.Background(), tc.input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 400, appError.HTTPStatus)

			assert.Zero(t, repo.replaceCalls)
			assert.Empty(t, store.saved)
		})
	}
}

/*
TestIngest_EmptyArchive verifies an archive with no accepted images is
rejected as a validation error.
*/
func TestIngest_EmptyArchive(t *testing.T) {
	repo := newFakeChapterRepository()
	ingester := newTestIngester(repo, newFakePageStore())

	archive := buildArchive(t, map[string][]byte{
		"readme.md": []byte("no images here"),
	})

	_, err := ingester.Ingest(context.Background(), IngestInput{MangaID: knownMangaID, Number: "1", Archive: archive})
	require.Error(t, err)
	assert.Zero(t, repo.replaceCalls)
}
