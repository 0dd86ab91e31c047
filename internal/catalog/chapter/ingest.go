// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package chapter

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	// Registered decoders for page dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/storage"
	"github.com/tatami-reader/tatami/internal/platform/validate"
	"github.com/tatami-reader/tatami/pkg/slug"
)

// # Archive Ingestion

// pageExtensions is the fixed set of accepted page image formats.
var pageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// Ingester turns an uploaded chapter archive (ZIP/CBZ) into persisted,
// ordered page records.
type Ingester struct {
	mangas MangaResolver
	repo   Repository
	store  storage.PageStore
	logger *slog.Logger
}

// NewIngester constructs an [Ingester] with its collaborators.
func NewIngester(mangas MangaResolver, repo Repository, store storage.PageStore, logger *slog.Logger) *Ingester {
	return &Ingester{
		mangas: mangas,
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// IngestInput carries the raw upload fields. Number stays a string so that a
// missing field is distinguishable from a literal zero.
type IngestInput struct {
	MangaID string
	Number  string
	Title   string
	Archive []byte
}

// IngestResult reports the outcome of a successful ingestion.
type IngestResult struct {
	ChapterID string
	PageCount int
}

// extractedPage is one decoded archive entry held in memory between
// extraction and persistence.
type extractedPage struct {
	name string
	data []byte
}

/*
Ingest validates a chapter archive and replaces the target chapter's pages.

Description: The pipeline runs in strict phases so that a bad archive can
never leave partial state behind:

 1. Input validation (missing manga/number/archive).
 2. Series resolution (unknown manga).
 3. Full in-memory extraction of every accepted image entry; any archive
    read error aborts here, before a single byte hits storage.
 4. Blob writes under <series-slug>/<chapter-folder>/.
 5. One transaction upserting the chapter and swapping its page rows.

Page order is the lexicographic order of the archive entry names. This is a
deliberate, frozen contract with existing upload tooling, which names files
accordingly; do not replace it with natural/numeric sorting.

Returns:
  - *IngestResult: Chapter identifier and page count
  - error: Validation, not-found, malformed-archive, or persistence errors
*/
func (ingester *Ingester) Ingest(context context.Context, input IngestInput) (*IngestResult, error) {

	// Phase 1: input validation
	validator := &validate.Validator{}
	validator.Required(FieldMangaID, input.MangaID).Required(FieldChapterNumber, input.Number)
	validator.Custom(FieldArchive, len(input.Archive) == 0, "archive file is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	number, err := strconv.ParseFloat(input.Number, 64)
	if err != nil || number < 0 {
		return nil, apperr.ValidationError(fmt.Sprintf("invalid chapter number %q", input.Number))
	}

	// Phase 2: series resolution
	series, err := ingester.mangas.FindByID(context, input.MangaID)
	if err != nil {
		return nil, err
	}

	// Phase 3: full extraction before any side effect
	extracted, err := extractPages(input.Archive)
	if err != nil {
		return nil, err
	}
	if len(extracted) == 0 {
		return nil, apperr.ValidationError("archive contains no page images")
	}

	// Phase 4: blob writes
	seriesSlug := series.Slug
	if seriesSlug == "" {
		seriesSlug = slug.From(series.Title)
	}
	if seriesSlug == "" {
		seriesSlug = series.ID[:8]
	}

	// Chapter folders use only the integer part, even for fractional numbers.
	chapterFolder := strconv.Itoa(int(number))

	pages := make([]Page, 0, len(extracted))
	for index, page := range extracted {
		extension := strings.ToLower(path.Ext(page.name))
		filename := fmt.Sprintf("%03d__%03d%s", int(number), index+1, extension)

		url, err := ingester.store.Save(context, path.Join(seriesSlug, chapterFolder, filename), page.data)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("store page %d: %w", index+1, err))
		}

		width, height := probeDimensions(page.data)
		pages = append(pages, Page{
			PageNumber:       index + 1,
			ImageURL:         url,
			OriginalFilename: page.name,
			Width:            width,
			Height:           height,
		})
	}

	// Phase 5: transactional page replacement
	chapterID, err := ingester.repo.ReplaceChapterPages(context, series.ID, number, input.Title, pages)
	if err != nil {
		return nil, err
	}

	ingester.logger.Info("chapter_ingested",
		slog.String("manga_id", series.ID),
		slog.String("chapter_id", chapterID),
		slog.Float64("number", number),
		slog.Int("page_count", len(pages)),
	)

	return &IngestResult{ChapterID: chapterID, PageCount: len(pages)}, nil
}

/*
extractPages reads every accepted image entry from the archive into memory,
sorted lexicographically by entry name.

Description: Non-image entries, directories, macOS resource forks
(__MACOSX) and dotfiles are skipped. Any structural or read error yields a
malformed-archive error and no partial result.
*/
func extractPages(archive []byte) ([]extractedPage, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, apperr.MalformedArchive("uploaded file is not a readable archive")
	}

	byName := make(map[string]*zip.File)
	names := make([]string, 0, len(reader.File))

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !isPageImage(file.Name) {
			continue
		}
		byName[file.Name] = file
		names = append(names, file.Name)
	}

	// Lexicographic entry-name order defines page order.
	sort.Strings(names)

	pages := make([]extractedPage, 0, len(names))
	for _, name := range names {
		entry, err := byName[name].Open()
		if err != nil {
			return nil, apperr.MalformedArchive(fmt.Sprintf("cannot read archive entry %q", name))
		}

		data, err := io.ReadAll(entry)
		entry.Close()
		if err != nil {
			return nil, apperr.MalformedArchive(fmt.Sprintf("cannot read archive entry %q", name))
		}

		pages = append(pages, extractedPage{name: name, data: data})
	}

	return pages, nil
}

// isPageImage reports whether an archive entry name counts as a page image.
func isPageImage(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == "__MACOSX" {
			return false
		}
	}

	_, ok := pageExtensions[strings.ToLower(path.Ext(base))]
	return ok
}

// probeDimensions best-effort decodes the image header for pixel dimensions.
// Formats without a registered decoder (webp) simply yield nil.
func probeDimensions(data []byte) (width, height *int) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	return &config.Width, &config.Height
}
