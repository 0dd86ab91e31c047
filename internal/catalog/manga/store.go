// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package manga

import "context"

// Repository abstracts the persistence operations for the manga catalogue.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error)
	Featured(context context.Context, limit int) ([]*Manga, error)
	FindByID(context context.Context, id string) (*Manga, error)
	FindBySlug(context context.Context, slug string) (*Manga, error)
	Create(context context.Context, manga *Manga) error
	Update(context context.Context, manga *Manga) error
	Delete(context context.Context, id string) error
	IncrementViews(context context.Context, id string) error
}

// FeaturedCache is the volatile store for the featured shelf.
// A Get miss returns (nil, nil) so callers fall through to the repository.
type FeaturedCache interface {
	Get(context context.Context) ([]*Manga, error)
	Set(context context.Context, entries []*Manga) error
}
