// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package schema

// CatalogChapterTable represents the 'catalog.chapter' table
type CatalogChapterTable struct {
	Table       string
	ID          string
	MangaID     string
	Number      string
	Title       string
	ReleaseDate string
	CreatedAt   string
}

// CatalogChapter is the schema definition for catalog.chapter
var CatalogChapter = CatalogChapterTable{
	Table:       "catalog.chapter",
	ID:          "id",
	MangaID:     "mangaid",
	Number:      "number",
	Title:       "title",
	ReleaseDate: "releasedate",
	CreatedAt:   "createdat",
}

// CatalogChapterPageTable represents the 'catalog.chapterpage' table
type CatalogChapterPageTable struct {
	Table            string
	ID               string
	ChapterID        string
	PageNumber       string
	ImageURL         string
	OriginalFilename string
	Width            string
	Height           string
}

// CatalogChapterPage is the schema definition for catalog.chapterpage
var CatalogChapterPage = CatalogChapterPageTable{
	Table:            "catalog.chapterpage",
	ID:               "id",
	ChapterID:        "chapterid",
	PageNumber:       "pagenumber",
	ImageURL:         "imageurl",
	OriginalFilename: "originalfilename",
	Width:            "width",
	Height:           "height",
}
