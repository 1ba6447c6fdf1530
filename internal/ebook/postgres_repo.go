package ebook

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository backs the catalog with Postgres for deployments that
// want the table to survive restarts. Semantics match MemoryRepository.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed ebook repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *EBook) error {
	query := `
		INSERT INTO ebooks (title, author, genre, format, is_available, price, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		e.Title, e.Author, e.Genre, e.Format, e.IsAvailable, e.Price, e.Stock,
	).Scan(&e.ID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (EBook, error) {
	query := `
		SELECT id, title, author, genre, format, is_available, price, stock
		FROM ebooks
		WHERE id = $1
	`
	var e EBook
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Author, &e.Genre, &e.Format, &e.IsAvailable, &e.Price, &e.Stock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EBook{}, ErrNotFound
		}
		return EBook{}, err
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]EBook, error) {
	query := `
		SELECT id, title, author, genre, format, is_available, price, stock
		FROM ebooks
		WHERE ($1 = '' OR genre = $1)
		AND ($2 = '' OR author = $2)
		AND ($3 = '' OR format = $3)
		AND (NOT $4 OR is_available)
		ORDER BY title
	`
	rows, err := r.db.Query(ctx, query, f.Genre, f.Author, f.Format, f.AvailableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ebooks := make([]EBook, 0)
	for rows.Next() {
		var e EBook
		if err := rows.Scan(&e.ID, &e.Title, &e.Author, &e.Genre, &e.Format, &e.IsAvailable, &e.Price, &e.Stock); err != nil {
			return nil, err
		}
		ebooks = append(ebooks, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ebooks, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *EBook) error {
	query := `
		UPDATE ebooks
		SET title = $1, author = $2, genre = $3, format = $4, is_available = $5, price = $6, stock = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		e.Title, e.Author, e.Genre, e.Format, e.IsAvailable, e.Price, e.Stock, e.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ebooks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ExistsWithTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ebooks WHERE title = $1)`, title).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) ExistsWithAuthor(ctx context.Context, author string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ebooks WHERE author = $1)`, author).Scan(&exists)
	return exists, err
}
