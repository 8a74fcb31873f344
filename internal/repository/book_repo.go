package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-catalog/internal/model"
)

type BookRepository struct {
	db DBTX
}

func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

const bookSelect = `
	SELECT b.book_id, b.title, b.publication_year, b.isbn, b.page_count, b.price::text,
	       b.publisher_id, p.name
	FROM books b
	LEFT JOIN publishers p ON p.publisher_id = b.publisher_id`

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	var publisherName *string
	err := row.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.ISBN, &b.PageCount, &b.Price,
		&b.PublisherID, &publisherName)
	if err != nil {
		return model.Book{}, err
	}

	if b.PublisherID != nil && publisherName != nil {
		b.Publisher = &model.PublisherRef{ID: *b.PublisherID, Name: *publisherName}
	}
	return b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.Query(ctx, bookSelect+` ORDER BY b.title, b.book_id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	ids := make([]int, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	authors, err := r.authorsByBook(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Authors = nonNilAuthors(authors[books[i].ID])
	}

	return books, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id int) (model.Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx, bookSelect+` WHERE b.book_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Book{}, notFound(model.ErrBookNotFound, id)
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("find book: %w", err)
	}

	b.Authors, err = r.ListAuthors(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookRepository) ListAuthors(ctx context.Context, bookID int) ([]model.AuthorRef, error) {
	authors, err := r.authorsByBook(ctx, []int{bookID})
	if err != nil {
		return nil, err
	}
	return nonNilAuthors(authors[bookID]), nil
}

// ExistsByISBN ignores excludeID so an update may keep its own ISBN.
func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1 AND book_id <> $2)`,
		isbn, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check isbn exists: %w", err)
	}
	return exists, nil
}

// Create writes the book row and its author links in one transaction.
func (r *BookRepository) Create(ctx context.Context, b model.Book, authorIDs []int) (model.Book, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO books (title, publication_year, isbn, page_count, price, publisher_id)
			 VALUES ($1, $2, $3, $4, $5::text::numeric, $6)
			 RETURNING book_id`,
			b.Title, b.PublicationYear, b.ISBN, b.PageCount, b.Price, b.PublisherID).Scan(&b.ID); err != nil {
			return err
		}

		return linkAuthors(ctx, tx, b.ID, authorIDs)
	})
	if err != nil {
		return model.Book{}, classify("create book", "book", err)
	}

	return r.FindByID(ctx, b.ID)
}

// Update rewrites the book row and, when replaceAuthors is set, swaps the
// whole author set. Both happen in one transaction.
func (r *BookRepository) Update(ctx context.Context, b model.Book, authorIDs []int, replaceAuthors bool) (model.Book, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE books
			 SET title = $2, publication_year = $3, isbn = $4, page_count = $5,
			     price = $6::text::numeric, publisher_id = $7
			 WHERE book_id = $1`,
			b.ID, b.Title, b.PublicationYear, b.ISBN, b.PageCount, b.Price, b.PublisherID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return notFound(model.ErrBookNotFound, b.ID)
		}

		if !replaceAuthors {
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM books_authors WHERE book_id = $1`, b.ID); err != nil {
			return err
		}

		return linkAuthors(ctx, tx, b.ID, authorIDs)
	})
	if err != nil {
		return model.Book{}, classify("update book", "book", err)
	}

	return r.FindByID(ctx, b.ID)
}

// Delete removes the book; author links cascade.
func (r *BookRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE book_id = $1`, id)
	if err != nil {
		return classify("delete book", "book", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrBookNotFound, id)
	}
	return nil
}

func linkAuthors(ctx context.Context, tx pgx.Tx, bookID int, authorIDs []int) error {
	if len(authorIDs) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO books_authors (book_id, author_id)
		 SELECT $1, a FROM unnest($2::int[]) AS a
		 ON CONFLICT DO NOTHING`,
		bookID, authorIDs)
	return err
}

func (r *BookRepository) authorsByBook(ctx context.Context, bookIDs []int) (map[int][]model.AuthorRef, error) {
	out := make(map[int][]model.AuthorRef, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT ba.book_id, a.author_id, a.first_name, a.last_name
		 FROM books_authors ba
		 JOIN authors a ON a.author_id = ba.author_id
		 WHERE ba.book_id = ANY($1)
		 ORDER BY a.last_name, a.first_name, a.author_id`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("list book authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int
		var ref model.AuthorRef
		if err := rows.Scan(&bookID, &ref.ID, &ref.FirstName, &ref.LastName); err != nil {
			return nil, fmt.Errorf("scan book author: %w", err)
		}
		out[bookID] = append(out[bookID], ref)
	}
	return out, rows.Err()
}

func nonNilAuthors(authors []model.AuthorRef) []model.AuthorRef {
	if authors == nil {
		return []model.AuthorRef{}
	}
	return authors
}
