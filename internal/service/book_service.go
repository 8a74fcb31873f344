package service

import (
	"context"
	"fmt"
	"sort"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

type BookService struct {
	books      BookStore
	authors    AuthorStore
	publishers PublisherStore
}

func NewBookService(books BookStore, authors AuthorStore, publishers PublisherStore) *BookService {
	return &BookService{books: books, authors: authors, publishers: publishers}
}

func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) Get(ctx context.Context, id int) (model.Book, error) {
	return s.books.FindByID(ctx, id)
}

// Create checks every reference before writing, so a missing publisher or
// author leaves nothing behind.
func (s *BookService) Create(ctx context.Context, patch model.BookPatch) (model.Book, error) {
	if _, ok := patch.Title.Value(); !ok {
		return model.Book{}, apierror.Validation("missing required fields", []string{"title"})
	}

	var book model.Book
	patch.Apply(&book)

	authorIDs, _ := patch.AuthorIDs.Value()
	authorIDs, err := s.checkReferences(ctx, book, authorIDs, 0)
	if err != nil {
		return model.Book{}, err
	}

	return s.books.Create(ctx, book, authorIDs)
}

// Update applies patch to the stored book. A present author_ids replaces the
// whole author set; null or [] clears it.
func (s *BookService) Update(ctx context.Context, id int, patch model.BookPatch) (model.Book, model.Book, error) {
	current, err := s.books.FindByID(ctx, id)
	if err != nil {
		return model.Book{}, model.Book{}, err
	}

	if patch.Title.Null {
		return model.Book{}, model.Book{}, apierror.Validation("title cannot be null", []string{"title"})
	}

	updated := current
	patch.Apply(&updated)

	authorIDs, _ := patch.AuthorIDs.Value()
	authorIDs, err = s.checkReferences(ctx, updated, authorIDs, id)
	if err != nil {
		return model.Book{}, model.Book{}, err
	}

	saved, err := s.books.Update(ctx, updated, authorIDs, patch.AuthorIDs.Set)
	if err != nil {
		return model.Book{}, model.Book{}, err
	}

	return current, saved, nil
}

func (s *BookService) Delete(ctx context.Context, id int) error {
	return s.books.Delete(ctx, id)
}

// checkReferences validates publisher, authors and ISBN uniqueness and
// returns the de-duplicated author ids.
func (s *BookService) checkReferences(ctx context.Context, book model.Book, authorIDs []int, excludeID int) ([]int, error) {
	if book.PublisherID != nil {
		exists, err := s.publishers.Exists(ctx, *book.PublisherID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apierror.BadRequest(
				fmt.Sprintf("publisher with id %d does not exist", *book.PublisherID), "publisher_id",
			).Wrap(model.ErrMissingRelation)
		}
	}

	ids := uniqueIDs(authorIDs)
	if len(ids) > 0 {
		found, err := s.authors.ExistingIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if missing, ok := firstMissing(authorIDs, found); ok {
			return nil, apierror.BadRequest(
				fmt.Sprintf("author with id %d does not exist", missing), "author_ids",
			).Wrap(model.ErrMissingRelation)
		}
	}

	if book.ISBN != nil && *book.ISBN != "" {
		taken, err := s.books.ExistsByISBN(ctx, *book.ISBN, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apierror.Conflict("book with this ISBN already exists", *book.ISBN).Wrap(model.ErrConflict)
		}
	}

	return ids, nil
}

// uniqueIDs keeps the first occurrence of every id, preserving order.
func uniqueIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// firstMissing reports the first requested id, in request order, absent from found.
func firstMissing(requested []int, found []int) (int, bool) {
	sorted := append([]int(nil), found...)
	sort.Ints(sorted)
	for _, id := range requested {
		i := sort.SearchInts(sorted, id)
		if i == len(sorted) || sorted[i] != id {
			return id, true
		}
	}
	return 0, false
}
