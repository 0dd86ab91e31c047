package taxonomy

import "context"

type Repository interface {
	ListGenres(context context.Context) ([]*Genre, error)
	GetGenreBySlug(context context.Context, slug string) (*Genre, error)
	ListCategories(context context.Context) ([]*Category, error)
	GetCategoryBySlug(context context.Context, slug string) (*Category, error)
}
