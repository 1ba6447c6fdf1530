package ebook

import (
	"context"
	"fmt"
	"sync"
)

// Service provides ebook catalog business logic. A single mutex serializes
// every read-modify-write sequence so concurrent requests cannot lose updates
// to stock or availability; the repositories make no such guarantee on their
// own.
type Service struct {
	repo Repository
	mu   sync.Mutex
}

// NewService creates a new ebook service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new ebook. New records always start available with zero
// stock. A record counts as a duplicate only when some record already matches
// the title AND some record already matches the author; the two matches do
// not have to be the same record.
func (s *Service) Create(ctx context.Context, in CreateInput) (EBook, error) {
	if in.Title == "" || in.Author == "" || in.Genre == "" || in.Format == "" || in.Price == nil || *in.Price <= 0 {
		return EBook{}, fmt.Errorf("%w: all ebook fields must be provided", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	titleTaken, err := s.repo.ExistsWithTitle(ctx, in.Title)
	if err != nil {
		return EBook{}, err
	}
	authorTaken, err := s.repo.ExistsWithAuthor(ctx, in.Author)
	if err != nil {
		return EBook{}, err
	}
	if titleTaken && authorTaken {
		return EBook{}, ErrConflict
	}

	price := *in.Price
	e := EBook{
		Title:       in.Title,
		Author:      in.Author,
		Genre:       in.Genre,
		Format:      in.Format,
		Price:       &price,
		IsAvailable: true,
		Stock:       0,
	}
	if err := s.repo.Insert(ctx, &e); err != nil {
		return EBook{}, err
	}
	return e, nil
}

// List returns ebooks ordered ascending by title. At most one filter is
// honored, picked in the priority order genre, author, format; filtered
// listings ignore availability. With no filter only available records are
// returned.
func (s *Service) List(ctx context.Context, genre, author, format string) ([]EBook, error) {
	var f Filter
	switch {
	case genre != "":
		f.Genre = genre
	case author != "":
		f.Author = author
	case format != "":
		f.Format = format
	default:
		f.AvailableOnly = true
	}
	return s.repo.List(ctx, f)
}

// Get returns a single ebook by id.
func (s *Service) Get(ctx context.Context, id int64) (EBook, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites the provided fields of an existing ebook. Nil fields keep
// their prior value. Range checks on the values happen at the input-shape
// level; they are not re-applied here.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (EBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EBook{}, err
	}

	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Author != nil {
		e.Author = *in.Author
	}
	if in.Genre != nil {
		e.Genre = *in.Genre
	}
	if in.Format != nil {
		e.Format = *in.Format
	}
	if in.Price != nil {
		price := *in.Price
		e.Price = &price
	}

	if err := s.repo.Update(ctx, &e); err != nil {
		return EBook{}, err
	}
	return e, nil
}

// ChangeAvailability flips the availability flag unconditionally. No business
// rule gates the toggle.
func (s *Service) ChangeAvailability(ctx context.Context, id int64) (EBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EBook{}, err
	}

	e.IsAvailable = !e.IsAvailable
	if err := s.repo.Update(ctx, &e); err != nil {
		return EBook{}, err
	}
	return e, nil
}

// IncrementStock adds delta units to a record's stock. The record is looked
// up before the delta is checked, so an unknown id reports not-found even for
// a non-positive delta.
func (s *Service) IncrementStock(ctx context.Context, id int64, delta int) (EBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EBook{}, err
	}

	if delta <= 0 {
		return EBook{}, fmt.Errorf("%w: stock value is not valid", ErrInvalid)
	}

	e.Stock += delta
	if err := s.repo.Update(ctx, &e); err != nil {
		return EBook{}, err
	}
	return e, nil
}

// Purchase sells quantity units of a record. The sale goes through only when
// stock is strictly greater than the quantity (a sale draining stock to zero
// is rejected) and the tendered amount equals price*quantity exactly. An
// unavailable record is reported the same as a missing one.
func (s *Service) Purchase(ctx context.Context, in PurchaseInput) error {
	if in.ID <= 0 || in.Quantity <= 0 || in.Amount <= 0 {
		return fmt.Errorf("%w: purchase data is not valid", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if !e.IsAvailable {
		return ErrNotFound
	}

	if e.Stock > in.Quantity && e.Price != nil && *e.Price*in.Quantity == in.Amount {
		e.Stock -= in.Quantity
		return s.repo.Update(ctx, &e)
	}
	return fmt.Errorf("%w: purchase data does not match the record", ErrInvalid)
}

// Delete removes a record permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Delete(ctx, id)
}
