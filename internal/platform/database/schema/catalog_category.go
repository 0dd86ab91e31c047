// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package schema

// CatalogCategoryTable represents the 'catalog.category' table
type CatalogCategoryTable struct {
	Table            string
	ID               string
	Name             string
	Slug             string
	TitleLocal       string
	DescriptionLocal string
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = CatalogCategoryTable{
	Table:            "catalog.category",
	ID:               "id",
	Name:             "name",
	Slug:             "slug",
	TitleLocal:       "titlelocal",
	DescriptionLocal: "descriptionlocal",
}
