package ebook

import "errors"

// Error kinds surfaced by the service. Handlers map these to HTTP statuses;
// everything else bubbles up as an internal error.
var (
	ErrNotFound = errors.New("ebook not found")
	ErrConflict = errors.New("ebook already registered")
	ErrInvalid  = errors.New("invalid input")
)

// EBook represents a single digital book record in the catalog.
type EBook struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Format      string `json:"format"`
	IsAvailable bool   `json:"isAvailable"`
	Price       *int   `json:"price,omitempty"`
	Stock       int    `json:"stock"`
}

// CreateInput holds the fields a client must supply when registering an ebook.
// Availability and stock are not accepted here: new records always start
// available with zero stock.
type CreateInput struct {
	Title  string `json:"title" validate:"required,min=3,max=256"`
	Author string `json:"author" validate:"required,min=3,max=256"`
	Genre  string `json:"genre" validate:"required,min=3,max=256"`
	Format string `json:"format" validate:"required,min=3,max=256"`
	Price  *int   `json:"price" validate:"required,gt=0"`
}

// UpdateInput holds the fields a client may supply when partially updating an
// ebook. Every field is a pointer so "not provided" stays distinct from
// "provided as empty/zero"; only non-nil fields are applied.
type UpdateInput struct {
	Title  *string `json:"title" validate:"omitempty,min=3,max=256"`
	Author *string `json:"author" validate:"omitempty,min=3,max=256"`
	Genre  *string `json:"genre" validate:"omitempty,min=3,max=256"`
	Format *string `json:"format" validate:"omitempty,min=3,max=256"`
	Price  *int    `json:"price" validate:"omitempty,gt=0"`
}

// PurchaseInput carries a purchase order: which record, how many units, and
// the total amount tendered. Amount must equal price*quantity exactly.
type PurchaseInput struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
	Amount   int   `json:"amount"`
}

// StockInput carries the number of units to add to a record's stock.
type StockInput struct {
	Stock int `json:"stock"`
}

// Filter selects records for listing. At most one of Genre, Author and Format
// is set; when none is set AvailableOnly restricts the scan to available
// records. Results are always ordered ascending by title.
type Filter struct {
	Genre         string
	Author        string
	Format        string
	AvailableOnly bool
}
