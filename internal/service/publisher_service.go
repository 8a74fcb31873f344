package service

import (
	"context"
	"strings"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

type PublisherService struct {
	publishers PublisherStore
}

func NewPublisherService(publishers PublisherStore) *PublisherService {
	return &PublisherService{publishers: publishers}
}

func (s *PublisherService) List(ctx context.Context) ([]model.Publisher, error) {
	return s.publishers.List(ctx)
}

func (s *PublisherService) Get(ctx context.Context, id int) (model.Publisher, error) {
	return s.publishers.FindByID(ctx, id)
}

func (s *PublisherService) Create(ctx context.Context, patch model.PublisherPatch) (model.Publisher, error) {
	name, ok := patch.Name.Value()
	if !ok || strings.TrimSpace(name) == "" {
		return model.Publisher{}, apierror.Validation("missing required fields", []string{"name"})
	}

	var publisher model.Publisher
	patch.Apply(&publisher)
	publisher.Name = strings.TrimSpace(publisher.Name)

	if err := s.ensureNameFree(ctx, publisher.Name, 0); err != nil {
		return model.Publisher{}, err
	}

	return s.publishers.Create(ctx, publisher)
}

func (s *PublisherService) Update(ctx context.Context, id int, patch model.PublisherPatch) (model.Publisher, model.Publisher, error) {
	current, err := s.publishers.FindByID(ctx, id)
	if err != nil {
		return model.Publisher{}, model.Publisher{}, err
	}

	if patch.Name.Null {
		return model.Publisher{}, model.Publisher{}, apierror.Validation("name cannot be null", []string{"name"})
	}

	updated := current
	patch.Apply(&updated)
	updated.Name = strings.TrimSpace(updated.Name)

	if updated.Name != current.Name {
		if err := s.ensureNameFree(ctx, updated.Name, id); err != nil {
			return model.Publisher{}, model.Publisher{}, err
		}
	}

	if err := s.publishers.Update(ctx, updated); err != nil {
		return model.Publisher{}, model.Publisher{}, err
	}

	return current, updated, nil
}

func (s *PublisherService) Delete(ctx context.Context, id int) error {
	return s.publishers.Delete(ctx, id)
}

func (s *PublisherService) ensureNameFree(ctx context.Context, name string, excludeID int) error {
	taken, err := s.publishers.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apierror.Conflict("publisher with this name already exists", name).Wrap(model.ErrConflict)
	}
	return nil
}
