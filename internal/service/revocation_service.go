package service

import (
	"context"
	"errors"
	"fmt"

	"library-catalog/internal/model"
)

type revocationMetrics interface {
	ObserveRevocation(result string)
}

// RevocationService is the token blacklist. Entries are permanent.
type RevocationService struct {
	store   BlacklistStore
	metrics revocationMetrics
}

func NewRevocationService(store BlacklistStore, metrics revocationMetrics) *RevocationService {
	return &RevocationService{store: store, metrics: metrics}
}

// Revoke is idempotent: revoking a JTI twice is not an error.
func (s *RevocationService) Revoke(ctx context.Context, jti string) error {
	if jti == "" {
		return fmt.Errorf("revoke: %w", model.ErrInvalidToken)
	}

	err := s.store.Insert(ctx, jti)
	switch {
	case errors.Is(err, model.ErrAlreadyRevoked):
		s.observe("duplicate")
		return nil
	case err != nil:
		s.observe("error")
		return fmt.Errorf("revoke token: %w", err)
	}

	s.observe("revoked")
	return nil
}

func (s *RevocationService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := s.store.Exists(ctx, jti)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}

// RevokeSession revokes the presented token and the refresh token it is linked to.
func (s *RevocationService) RevokeSession(ctx context.Context, claims *model.AuthClaims) error {
	if claims == nil {
		return model.ErrUnauthenticated
	}

	if err := s.Revoke(ctx, claims.TokenID); err != nil {
		return err
	}

	if claims.RefreshTokenID != "" && claims.RefreshTokenID != claims.TokenID {
		if err := s.Revoke(ctx, claims.RefreshTokenID); err != nil {
			return err
		}
	}

	return nil
}

func (s *RevocationService) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveRevocation(result)
	}
}
