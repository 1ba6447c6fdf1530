package ebook

import (
	"context"
)

// Repository defines the contract for ebook storage.
type Repository interface {
	Insert(ctx context.Context, e *EBook) error
	GetByID(ctx context.Context, id int64) (EBook, error)
	List(ctx context.Context, f Filter) ([]EBook, error)
	Update(ctx context.Context, e *EBook) error
	Delete(ctx context.Context, id int64) error
	ExistsWithTitle(ctx context.Context, title string) (bool, error)
	ExistsWithAuthor(ctx context.Context, author string) (bool, error)
}
