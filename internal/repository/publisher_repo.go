package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"library-catalog/internal/model"
)

type PublisherRepository struct {
	db DBTX
}

func NewPublisherRepository(db DBTX) *PublisherRepository {
	return &PublisherRepository{db: db}
}

func (r *PublisherRepository) List(ctx context.Context) ([]model.Publisher, error) {
	rows, err := r.db.Query(ctx,
		`SELECT publisher_id, name, headquarters FROM publishers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	defer rows.Close()

	publishers := make([]model.Publisher, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var p model.Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Headquarters); err != nil {
			return nil, fmt.Errorf("scan publisher: %w", err)
		}
		publishers = append(publishers, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}

	books, err := r.booksByPublisher(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range publishers {
		publishers[i].Books = nonNilBooks(books[publishers[i].ID])
	}

	return publishers, nil
}

func (r *PublisherRepository) FindByID(ctx context.Context, id int) (model.Publisher, error) {
	var p model.Publisher
	err := r.db.QueryRow(ctx,
		`SELECT publisher_id, name, headquarters FROM publishers WHERE publisher_id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Headquarters)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Publisher{}, notFound(model.ErrPublisherNotFound, id)
	}
	if err != nil {
		return model.Publisher{}, fmt.Errorf("find publisher: %w", err)
	}

	p.Books, err = r.ListBooks(ctx, id)
	if err != nil {
		return model.Publisher{}, err
	}
	return p, nil
}

func (r *PublisherRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM publishers WHERE publisher_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check publisher exists: %w", err)
	}
	return exists, nil
}

// ExistsByName ignores excludeID so an update may keep its own name.
func (r *PublisherRepository) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM publishers WHERE name = $1 AND publisher_id <> $2)`,
		strings.TrimSpace(name), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check publisher name: %w", err)
	}
	return exists, nil
}

func (r *PublisherRepository) ListBooks(ctx context.Context, publisherID int) ([]model.BookRef, error) {
	books, err := r.booksByPublisher(ctx, []int{publisherID})
	if err != nil {
		return nil, err
	}
	return nonNilBooks(books[publisherID]), nil
}

func (r *PublisherRepository) Create(ctx context.Context, p model.Publisher) (model.Publisher, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO publishers (name, headquarters) VALUES ($1, $2) RETURNING publisher_id`,
		p.Name, p.Headquarters).Scan(&p.ID)
	if err != nil {
		return model.Publisher{}, classify("create publisher", "publisher", err)
	}
	p.Books = []model.BookRef{}
	return p, nil
}

func (r *PublisherRepository) Update(ctx context.Context, p model.Publisher) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE publishers SET name = $2, headquarters = $3 WHERE publisher_id = $1`,
		p.ID, p.Name, p.Headquarters)
	if err != nil {
		return classify("update publisher", "publisher", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrPublisherNotFound, p.ID)
	}
	return nil
}

// Delete removes the publisher; its books keep existing with no publisher.
func (r *PublisherRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM publishers WHERE publisher_id = $1`, id)
	if err != nil {
		return classify("delete publisher", "publisher", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrPublisherNotFound, id)
	}
	return nil
}

func (r *PublisherRepository) booksByPublisher(ctx context.Context, publisherIDs []int) (map[int][]model.BookRef, error) {
	out := make(map[int][]model.BookRef, len(publisherIDs))
	if len(publisherIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT publisher_id, book_id, title
		 FROM books
		 WHERE publisher_id = ANY($1)
		 ORDER BY title, book_id`, publisherIDs)
	if err != nil {
		return nil, fmt.Errorf("list publisher books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var publisherID int
		var ref model.BookRef
		if err := rows.Scan(&publisherID, &ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan publisher book: %w", err)
		}
		out[publisherID] = append(out[publisherID], ref)
	}
	return out, rows.Err()
}
