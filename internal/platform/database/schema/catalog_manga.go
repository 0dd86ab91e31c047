// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package schema

// CatalogMangaTable represents the 'catalog.manga' table
type CatalogMangaTable struct {
	Table       string
	ID          string
	Title       string
	SubTitles   string
	Slug        string
	Description string
	Author      string
	CoverURL    string
	Status      string
	Views       string
	CategoryID  string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogManga is the schema definition for catalog.manga
var CatalogManga = CatalogMangaTable{
	Table:       "catalog.manga",
	ID:          "id",
	Title:       "title",
	SubTitles:   "subtitles",
	Slug:        "slug",
	Description: "description",
	Author:      "author",
	CoverURL:    "coverurl",
	Status:      "status",
	Views:       "views",
	CategoryID:  "categoryid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// CatalogMangaGenreTable represents the 'catalog.mangagenre' junction table
type CatalogMangaGenreTable struct {
	Table   string
	MangaID string
	GenreID string
}

// CatalogMangaGenre is the schema definition for catalog.mangagenre
var CatalogMangaGenre = CatalogMangaGenreTable{
	Table:   "catalog.mangagenre",
	MangaID: "mangaid",
	GenreID: "genreid",
}
