package service

import (
	"context"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

type AuthorService struct {
	authors AuthorStore
}

func NewAuthorService(authors AuthorStore) *AuthorService {
	return &AuthorService{authors: authors}
}

func (s *AuthorService) List(ctx context.Context) ([]model.Author, error) {
	return s.authors.List(ctx)
}

func (s *AuthorService) Get(ctx context.Context, id int) (model.Author, error) {
	return s.authors.FindByID(ctx, id)
}

func (s *AuthorService) Create(ctx context.Context, patch model.AuthorPatch) (model.Author, error) {
	if err := requireAuthorNames(patch); err != nil {
		return model.Author{}, err
	}

	var author model.Author
	patch.Apply(&author)
	return s.authors.Create(ctx, author)
}

func (s *AuthorService) Update(ctx context.Context, id int, patch model.AuthorPatch) (model.Author, model.Author, error) {
	current, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return model.Author{}, model.Author{}, err
	}

	if patch.FirstName.Null || patch.LastName.Null {
		return model.Author{}, model.Author{}, apierror.Validation("first_name and last_name cannot be null", nil)
	}

	updated := current
	patch.Apply(&updated)
	if err := s.authors.Update(ctx, updated); err != nil {
		return model.Author{}, model.Author{}, err
	}

	return current, updated, nil
}

func (s *AuthorService) Delete(ctx context.Context, id int) error {
	return s.authors.Delete(ctx, id)
}

func requireAuthorNames(patch model.AuthorPatch) error {
	missing := make([]string, 0, 2)
	if _, ok := patch.FirstName.Value(); !ok {
		missing = append(missing, "first_name")
	}
	if _, ok := patch.LastName.Value(); !ok {
		missing = append(missing, "last_name")
	}
	if len(missing) > 0 {
		return apierror.Validation("missing required fields", missing)
	}
	return nil
}
