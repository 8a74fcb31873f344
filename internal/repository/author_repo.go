package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-catalog/internal/model"
)

type AuthorRepository struct {
	db DBTX
}

func NewAuthorRepository(db DBTX) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) List(ctx context.Context) ([]model.Author, error) {
	rows, err := r.db.Query(ctx,
		`SELECT author_id, first_name, last_name, birth_year
		 FROM authors ORDER BY last_name, first_name, author_id`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.BirthYear); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	books, err := r.booksByAuthor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		authors[i].Books = nonNilBooks(books[authors[i].ID])
	}

	return authors, nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id int) (model.Author, error) {
	var a model.Author
	err := r.db.QueryRow(ctx,
		`SELECT author_id, first_name, last_name, birth_year FROM authors WHERE author_id = $1`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName, &a.BirthYear)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Author{}, notFound(model.ErrAuthorNotFound, id)
	}
	if err != nil {
		return model.Author{}, fmt.Errorf("find author: %w", err)
	}

	a.Books, err = r.ListBooks(ctx, id)
	if err != nil {
		return model.Author{}, err
	}
	return a, nil
}

func (r *AuthorRepository) ListBooks(ctx context.Context, authorID int) ([]model.BookRef, error) {
	books, err := r.booksByAuthor(ctx, []int{authorID})
	if err != nil {
		return nil, err
	}
	return nonNilBooks(books[authorID]), nil
}

// ExistingIDs returns the subset of ids that exist, in ascending order.
func (r *AuthorRepository) ExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	found := make([]int, 0, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT author_id FROM authors WHERE author_id = ANY($1) ORDER BY author_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("check authors exist: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan author id: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

func (r *AuthorRepository) Create(ctx context.Context, a model.Author) (model.Author, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO authors (first_name, last_name, birth_year)
		 VALUES ($1, $2, $3) RETURNING author_id`,
		a.FirstName, a.LastName, a.BirthYear).Scan(&a.ID)
	if err != nil {
		return model.Author{}, classify("create author", "author", err)
	}
	a.Books = []model.BookRef{}
	return a, nil
}

func (r *AuthorRepository) Update(ctx context.Context, a model.Author) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE authors SET first_name = $2, last_name = $3, birth_year = $4 WHERE author_id = $1`,
		a.ID, a.FirstName, a.LastName, a.BirthYear)
	if err != nil {
		return classify("update author", "author", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrAuthorNotFound, a.ID)
	}
	return nil
}

// Delete removes the author; book associations cascade.
func (r *AuthorRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM authors WHERE author_id = $1`, id)
	if err != nil {
		return classify("delete author", "author", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrAuthorNotFound, id)
	}
	return nil
}

func (r *AuthorRepository) booksByAuthor(ctx context.Context, authorIDs []int) (map[int][]model.BookRef, error) {
	out := make(map[int][]model.BookRef, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT ba.author_id, b.book_id, b.title
		 FROM books_authors ba
		 JOIN books b ON b.book_id = ba.book_id
		 WHERE ba.author_id = ANY($1)
		 ORDER BY b.title, b.book_id`, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("list author books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int
		var ref model.BookRef
		if err := rows.Scan(&authorID, &ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan author book: %w", err)
		}
		out[authorID] = append(out[authorID], ref)
	}
	return out, rows.Err()
}

func nonNilBooks(books []model.BookRef) []model.BookRef {
	if books == nil {
		return []model.BookRef{}
	}
	return books
}
