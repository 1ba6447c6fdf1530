package ebook

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is the volatile reference store: a single table keyed by
// an auto-incrementing id, reset on process restart. Safe for concurrent use.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	table  map[int64]EBook
}

// NewMemoryRepository creates an empty in-memory ebook table.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		table:  make(map[int64]EBook),
	}
}

func (r *MemoryRepository) Insert(_ context.Context, e *EBook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextID
	r.nextID++
	r.table[e.ID] = cloneEBook(*e)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (EBook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.table[id]
	if !ok {
		return EBook{}, ErrNotFound
	}
	return cloneEBook(e), nil
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]EBook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ebooks := make([]EBook, 0, len(r.table))
	for _, e := range r.table {
		switch {
		case f.Genre != "":
			if e.Genre != f.Genre {
				continue
			}
		case f.Author != "":
			if e.Author != f.Author {
				continue
			}
		case f.Format != "":
			if e.Format != f.Format {
				continue
			}
		case f.AvailableOnly:
			if !e.IsAvailable {
				continue
			}
		}
		ebooks = append(ebooks, cloneEBook(e))
	}

	sort.Slice(ebooks, func(i, j int) bool {
		return ebooks[i].Title < ebooks[j].Title
	})
	return ebooks, nil
}

func (r *MemoryRepository) Update(_ context.Context, e *EBook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.table[e.ID]; !ok {
		return ErrNotFound
	}
	r.table[e.ID] = cloneEBook(*e)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.table[id]; !ok {
		return ErrNotFound
	}
	delete(r.table, id)
	return nil
}

func (r *MemoryRepository) ExistsWithTitle(_ context.Context, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.table {
		if e.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ExistsWithAuthor(_ context.Context, author string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.table {
		if e.Author == author {
			return true, nil
		}
	}
	return false, nil
}

// cloneEBook copies a record so callers never share the Price pointer with
// the table.
func cloneEBook(e EBook) EBook {
	if e.Price != nil {
		price := *e.Price
		e.Price = &price
	}
	return e
}
